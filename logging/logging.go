package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the single logrus instance every log entry below writes through.
// Changing its output/level/formatter affects all of them.
var Logger = newLogger()

var (
	InfoLog = Logger.WithField("log", "info")
	WarnLog = Logger.WithField("log", "warn")
	ErrLog  = Logger.WithField("log", "err")
)

func newLogger() *logrus.Logger {

	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	return l
}

func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

func SetLevel(lvl logrus.Level) {
	Logger.SetLevel(lvl)
}

// WithTask returns an entry tagged with the name of the system task emitting it
func WithTask(name string) *logrus.Entry {
	return Logger.WithField("task", name)
}
