package extraction

import (
	"context"
	"time"
)

// FailureClass groups remote faults by how long to wait before retrying
type FailureClass string

const (
	FailureRateLimited FailureClass = "rate_limited"
	FailureStatus      FailureClass = "status"
	FailureMalformed   FailureClass = "malformed"
	FailureTransport   FailureClass = "transport"
)

// RetryPolicy is a bounded attempt budget with a fixed backoff table
type RetryPolicy struct {
	Attempts       int
	Delay          time.Duration
	RateLimitDelay time.Duration
}

// DefaultRetryPolicy returns 3 attempts, 5s between ordinary failures and
// 30s after a rate limit response.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       3,
		Delay:          5 * time.Second,
		RateLimitDelay: 30 * time.Second,
	}
}

// Wait returns the delay that follows a failure of the given class
func (p RetryPolicy) Wait(class FailureClass) time.Duration {
	if class == FailureRateLimited {
		return p.RateLimitDelay
	}
	return p.Delay
}

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the Sleeper backed by a real timer
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
