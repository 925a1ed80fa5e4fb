// AngelaMos | 2026
// backoff.go

package coach

import (
	"time"
)

// BackoffPolicy spaces retry attempts linearly: the delay before
// attempt n (1-based) is Base * n. Attempt numbers outside
// [1, MaxAttempts] get no delay because they are never waited on.
type BackoffPolicy struct {
	Base        time.Duration
	MaxAttempts int
}

func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 || attempt > p.MaxAttempts {
		return 0
	}
	return p.Base * time.Duration(attempt)
}
