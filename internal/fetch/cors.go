package fetch

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// corsPatterns are the error-text signatures that mark a failure as
// cross-origin-shaped, i.e. plausibly fixable by routing through a relay.
// Ordered roughly by how often each shows up in practice. False negatives
// just skip the relay chain; false positives only cost extra relay attempts.
var corsPatterns = []string{
	"cors",
	"failed to fetch",
	"networkerror",
	"access-control-allow-origin",
	"preflight",
	"load failed",
	"connection refused",
	"connection reset",
}

// IsCORSShaped reports whether a fetch failure looks like a cross-origin /
// connectivity block rather than a genuine HTTP or timeout error.
//
// Status errors (404, 500, ...) and timeouts are never cross-origin-shaped:
// a relay would either repeat the same status or burn the remaining budget.
func IsCORSShaped(err error) bool {
	if err == nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range corsPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
