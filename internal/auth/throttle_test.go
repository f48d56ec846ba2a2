package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/schedulo/schedulo/internal/auth"
	"github.com/schedulo/schedulo/internal/shared"
	_ "github.com/schedulo/schedulo/testing"
)

func newThrottle(t *testing.T, limit int, window time.Duration) (*auth.LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewLoginThrottle(client, limit, window), mr
}

func TestThrottleAllowsWithinLimit(t *testing.T) {
	throttle, _ := newThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := throttle.Reserve(ctx, "a@b.com", "10.0.0.1"); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
}

func TestThrottleRejectsOverLimit(t *testing.T) {
	throttle, _ := newThrottle(t, 2, time.Minute)
	ctx := context.Background()

	_ = throttle.Reserve(ctx, "a@b.com", "10.0.0.1")
	_ = throttle.Reserve(ctx, "a@b.com", "10.0.0.1")
	err := throttle.Reserve(ctx, "a@b.com", "10.0.0.1")
	if err != shared.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestThrottleKeysByEmailAndAddress(t *testing.T) {
	throttle, _ := newThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if err := throttle.Reserve(ctx, "a@b.com", "10.0.0.1"); err != nil {
		t.Fatalf("first address: %v", err)
	}
	if err := throttle.Reserve(ctx, "a@b.com", "10.0.0.2"); err != nil {
		t.Fatalf("second address must have its own counter: %v", err)
	}
	if err := throttle.Reserve(ctx, "other@b.com", "10.0.0.1"); err != nil {
		t.Fatalf("second email must have its own counter: %v", err)
	}
}

func TestThrottleClearResetsCounter(t *testing.T) {
	throttle, _ := newThrottle(t, 1, time.Minute)
	ctx := context.Background()

	_ = throttle.Reserve(ctx, "a@b.com", "10.0.0.1")
	if err := throttle.Reserve(ctx, "a@b.com", "10.0.0.1"); err != shared.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := throttle.Clear(ctx, "a@b.com", "10.0.0.1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := throttle.Reserve(ctx, "a@b.com", "10.0.0.1"); err != nil {
		t.Fatalf("expected fresh counter after clear, got %v", err)
	}
}

func TestThrottleWindowExpires(t *testing.T) {
	throttle, mr := newThrottle(t, 1, time.Minute)
	ctx := context.Background()

	_ = throttle.Reserve(ctx, "a@b.com", "10.0.0.1")
	if err := throttle.Reserve(ctx, "a@b.com", "10.0.0.1"); err != shared.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	mr.FastForward(time.Minute + time.Second)
	if err := throttle.Reserve(ctx, "a@b.com", "10.0.0.1"); err != nil {
		t.Fatalf("expected counter to expire with the window, got %v", err)
	}
}
