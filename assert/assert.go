//go:build !debug

package assert

import (
	"fmt"

	"github.com/bloeys/nrend/logging"
)

// T reports a broken contract. Release builds only log it so the caller can
// fall back to its sentinel value; build with '-tags debug' to panic instead.
func T(check bool, msg string, args ...any) {

	if check {
		return
	}

	logging.ErrLog.Errorln("Assert failed:", fmt.Sprintf(msg, args...))
}
