// Package retry provides a data-driven retry policy and a combinator that
// applies it to an operation, so backoff behavior is testable independent of
// any call site.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Policy bounds the retry loop: attempt count and the randomized exponential
// backoff window between attempts. Fixed at startup.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy matches the reference behavior for upstream model calls.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
	}
}

func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.BaseDelay <= 0 {
		return fmt.Errorf("base delay must be positive, got %v", p.BaseDelay)
	}
	if p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("max delay %v is below base delay %v", p.MaxDelay, p.BaseDelay)
	}
	return nil
}

// backoff returns the sleep before attempt n+1 (n counts from 0): an
// exponentially grown delay capped at MaxDelay, with the upper half
// randomized. Jitter avoids synchronized retry storms against the upstream
// while keeping successive delays non-decreasing.
func (p Policy) backoff(n int) time.Duration {
	d := p.MaxDelay
	if shift := p.BaseDelay << uint(n); shift > 0 && shift < p.MaxDelay {
		d = shift
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

// sleep waits for d or until ctx is done. Overridable for tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs op up to p.MaxAttempts times, sleeping between attempts, as long
// as retryable classifies the failure as worth another try. Any other error
// propagates immediately. After the final attempt the most recent error is
// returned unmodified so the root cause stays visible to the caller.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error), retryable func(error) bool) (T, error) {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			break
		}
		if attempt == p.MaxAttempts-1 {
			break
		}
		if err := sleep(ctx, p.backoff(attempt)); err != nil {
			break
		}
	}

	var zero T
	return zero, lastErr
}
