package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestEntriesShareLogger(t *testing.T) {

	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(newLogger().Out)

	ErrLog.Errorf("pass '%s' failed", "scene")
	require.Contains(t, buf.String(), "pass 'scene' failed")
	require.Contains(t, buf.String(), "log=err")

	buf.Reset()
	WithTask("render").Info("started")
	require.Contains(t, buf.String(), "task=render")
}

func TestSetLevelFilters(t *testing.T) {

	buf := &bytes.Buffer{}
	SetOutput(buf)
	SetLevel(logrus.ErrorLevel)
	defer func() {
		SetOutput(newLogger().Out)
		SetLevel(logrus.InfoLevel)
	}()

	InfoLog.Info("hidden")
	require.Empty(t, buf.String())

	ErrLog.Error("shown")
	require.Contains(t, buf.String(), "shown")
}
