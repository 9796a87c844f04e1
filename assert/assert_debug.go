//go:build debug

package assert

import (
	"fmt"

	"github.com/bloeys/nrend/logging"
)

func T(check bool, msg string, args ...any) {

	if check {
		return
	}

	msg = fmt.Sprintf(msg, args...)
	logging.ErrLog.Errorln("Assert failed:", msg)
	panic("Assert failed: " + msg)
}
