package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffDurationAndJitter(t *testing.T) {
	if d := backoffDuration(2, 100*time.Millisecond, 300*time.Millisecond, 0); d != 200*time.Millisecond {
		t.Fatalf("unexpected delay: %v", d)
	}
	if d := backoffDuration(10, 100*time.Millisecond, 300*time.Millisecond, 0); d != 300*time.Millisecond {
		t.Fatalf("expected capped delay, got %v", d)
	}
	if j := applyJitter(100*time.Millisecond, 0); j != 100*time.Millisecond {
		t.Fatalf("jitter=0 mismatch: %v", j)
	}
	if j := applyJitter(100*time.Millisecond, 2); j <= 0 {
		t.Fatalf("jitter clamp mismatch: %v", j)
	}
	if d := backoffDuration(0, 100*time.Millisecond, 300*time.Millisecond, 0.2); d <= 0 {
		t.Fatalf("attempt clamp mismatch: %v", d)
	}
}

func TestWithExponentialBackoff(t *testing.T) {
	attempts := 0
	err := withExponentialBackoff(context.Background(), retryOptions{MaxRetries: 0}, func(attempt int) error {
		attempts = attempt
		return nil
	})
	if err != nil || attempts != 1 {
		t.Fatalf("unexpected result err=%v attempts=%d", err, attempts)
	}

	err = withExponentialBackoff(context.Background(), retryOptions{MaxRetries: 0}, func(attempt int) error {
		attempts = attempt
		return errors.New("x")
	})
	if err == nil || attempts != 1 {
		t.Fatalf("expected immediate failure, err=%v attempts=%d", err, attempts)
	}
}

func TestWithExponentialBackoffOnRetry(t *testing.T) {
	var (
		retryCalled bool
		attempts    int
	)
	err := withExponentialBackoff(context.Background(), retryOptions{
		MaxRetries: 1,
		MaxDelay:   time.Millisecond,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			retryCalled = true
			if attempt != 1 || wait < 0 || err == nil {
				t.Fatalf("unexpected retry callback args")
			}
		},
	}, func(attempt int) error {
		attempts = attempt
		if attempt == 1 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil || !retryCalled || attempts != 2 {
		t.Fatalf("unexpected retry result: err=%v retryCalled=%v attempts=%d", err, retryCalled, attempts)
	}
}

func TestWithExponentialBackoffBusyBranch(t *testing.T) {
	var waited time.Duration
	start := time.Now()
	err := withExponentialBackoff(context.Background(), retryOptions{
		MaxRetries: 1,
		OnRetry:    func(_ int, wait time.Duration, _ error) { waited = wait },
	}, func(attempt int) error {
		if attempt == 1 {
			return errors.New("FATAL: sorry, too many clients already")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, err=%v", err)
	}
	if waited < 600*time.Millisecond || time.Since(start) < 600*time.Millisecond {
		t.Fatalf("busy branch should wait noticeably before retry: %v", waited)
	}
}

func TestWithExponentialBackoffStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	attempts := 0
	start := time.Now()
	err := withExponentialBackoff(ctx, retryOptions{MaxRetries: 5, BaseDelay: time.Second}, func(attempt int) error {
		attempts = attempt
		return errors.New("down")
	})
	if err == nil || attempts != 1 || time.Since(start) > 500*time.Millisecond {
		t.Fatalf("expected early stop, err=%v attempts=%d", err, attempts)
	}
}

func TestIsBusyError(t *testing.T) {
	for _, s := range []string{"HTTP 429", "RATE LIMIT", "too many connections"} {
		if !isBusyError(errors.New(s)) {
			t.Fatalf("%s: expected true", s)
		}
	}
	if isBusyError(errors.New("bad")) || isBusyError(nil) {
		t.Fatalf("expected false")
	}
}
