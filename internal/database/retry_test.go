package database

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	fast := &RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, BackoffFactor: 2.0}

	t.Run("SuccessOnFirstAttempt", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return nil
		})
		if err != nil {
			t.Fatalf("WithRetry failed: %v", err)
		}
		if attempts != 1 {
			t.Errorf("Expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("SuccessAfterFailure", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			if attempts < 2 {
				return errors.New("connection refused")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithRetry failed: %v", err)
		}
		if attempts != 2 {
			t.Errorf("Expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("GivesUp", func(t *testing.T) {
		attempts := 0
		want := errors.New("connection refused")
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return want
		})
		if !errors.Is(err, want) {
			t.Errorf("Expected last error, got %v", err)
		}
		if attempts != 3 {
			t.Errorf("Expected 3 attempts, got %d", attempts)
		}
	})

	t.Run("ContextErrorNotRetried", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fast, func(ctx context.Context) error {
			attempts++
			return context.DeadlineExceeded
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected deadline error, got %v", err)
		}
		if attempts != 1 {
			t.Errorf("Expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		attempts := 0
		err := WithRetry(cancelled, fast, func(ctx context.Context) error {
			attempts++
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected cancellation, got %v", err)
		}
		if attempts != 0 {
			t.Errorf("Expected no attempts, got %d", attempts)
		}
	})
}

func TestRetryConfig_DelayCapped(t *testing.T) {
	c := &RetryConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2.0}

	if d := c.delay(1); d != 100*time.Millisecond {
		t.Errorf("Expected 100ms, got %v", d)
	}
	if d := c.delay(2); d != 200*time.Millisecond {
		t.Errorf("Expected 200ms, got %v", d)
	}
	if d := c.delay(5); d != 300*time.Millisecond {
		t.Errorf("Expected cap of 300ms, got %v", d)
	}
}
