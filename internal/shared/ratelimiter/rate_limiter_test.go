package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock はテスト用に時刻を手動で進めます。
type fakeClock struct {
	t      time.Time
	slept  []time.Duration
	sleepE error
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	if c.sleepE != nil {
		return c.sleepE
	}
	c.t = c.t.Add(d)
	return nil
}

func newTestLimiter(limit int, interval time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, interval)
	rl.now = clock.now
	rl.sleep = clock.sleep
	rl.lastReset = clock.t
	return rl, clock
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(clock.slept) != 0 {
		t.Fatalf("expected no sleep within limit, got %v", clock.slept)
	}

	clock.t = clock.t.Add(20 * time.Second)
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clock.slept) != 1 || clock.slept[0] != 40*time.Second {
		t.Fatalf("expected a single 40s sleep, got %v", clock.slept)
	}
	if rl.count != 1 {
		t.Errorf("expected count reset to 1, got %d", rl.count)
	}
}

func TestRateLimiter_Wait_WindowReset(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	_ = rl.Wait(ctx)
	clock.t = clock.t.Add(2 * time.Minute)
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clock.slept) != 0 {
		t.Errorf("expected no sleep after window elapsed, got %v", clock.slept)
	}
}

func TestRateLimiter_Wait_Unlimited(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(clock.slept) != 0 {
		t.Errorf("unlimited limiter should never sleep")
	}
}

func TestRateLimiter_Wait_ContextCanceled(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(1, time.Minute)
	clock.sleepE = context.Canceled

	_ = rl.Wait(context.Background())
	err := rl.Wait(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSleep_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
