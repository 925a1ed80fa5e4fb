// AngelaMos | 2026
// errors.go

package coach

import (
	"errors"
	"strings"
)

// ErrNotConfigured means the assistant cannot run at all: the API key is
// missing or malformed. Callers must distinguish this from transient
// upstream failures so the user sees "set up the key" instead of
// "try again".
var ErrNotConfigured = errors.New("assistant not configured")

// quotaError marks an upstream rate-limit response. Only these are
// retried; anything else fails the attempt immediately.
type quotaError struct {
	err error
}

func (e *quotaError) Error() string { return e.err.Error() }
func (e *quotaError) Unwrap() error { return e.err }

// IsQuotaError reports whether err is an upstream quota exhaustion,
// either a typed quotaError or a payload mentioning the usual markers.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var qe *quotaError
	if errors.As(err, &qe) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}

// QuotaMessage is shown when every retry was eaten by rate limiting.
const QuotaMessage = "The coach is taking a quick breather (the AI quota " +
	"was reached). Please try again in a minute."
