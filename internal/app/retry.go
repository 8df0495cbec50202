package app

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

type retryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
	OnRetry    func(attempt int, wait time.Duration, err error)
}

// withExponentialBackoff calls fn until it succeeds, the retries run out or
// ctx is done. Busy-server errors wait at least attempt² seconds.
func withExponentialBackoff(ctx context.Context, opts retryOptions, fn func(attempt int) error) error {
	attempts := opts.MaxRetries + 1
	if attempts <= 0 {
		attempts = 1
	}
	base := opts.BaseDelay
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 8 * time.Second
	}
	jitter := min(max(opts.Jitter, 0), 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(attempt); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		wait := backoffDuration(attempt, base, maxDelay, jitter)
		if isBusyError(lastErr) {
			busyWait := time.Duration(attempt*attempt) * time.Second
			if wait < busyWait {
				wait = busyWait
			}
			wait = min(applyJitter(wait, 0.35), 60*time.Second)
		}
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, wait, lastErr)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
	return lastErr
}

func backoffDuration(attempt int, base, maxDelay time.Duration, jitter float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := min(attempt-1, 30)
	delay := base << shift
	if delay > maxDelay || delay < 0 {
		delay = maxDelay
	}
	if jitter == 0 {
		return delay
	}
	return max(applyJitter(delay, jitter), 0)
}

func applyJitter(delay time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return delay
	}
	jitter = min(jitter, 1)
	low := 1 - jitter
	high := 1 + jitter
	factor := low + rand.Float64()*(high-low)
	return time.Duration(float64(delay) * factor)
}

// isBusyError matches rate limiting and connection-slot exhaustion.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many connections") ||
		strings.Contains(s, "too many clients")
}
