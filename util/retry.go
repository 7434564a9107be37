package util //import "github.com/hondana-dev/hondana/util"

import (
	"context"
	"time"
)

// Retry runs fn up to maxAttempts times with exponential backoff starting
// at base (base, 2*base, 4*base, ...). The caller decides which errors are
// retryable: fn returning retry=false stops immediately with its error.
// Context cancellation aborts the wait between attempts.
func Retry(ctx context.Context, maxAttempts int, base time.Duration, fn func() (retry bool, err error)) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := base << uint(attempt-1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}
