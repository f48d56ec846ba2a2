package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/schedulo/schedulo/internal/shared"
)

// LoginThrottle counts failed login attempts per email and client address in
// Redis. The counter carries the window as its TTL, so no state outlives it.
type LoginThrottle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginThrottle constructs a LoginThrottle.
func NewLoginThrottle(client *redis.Client, limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, limit: int64(limit), window: window}
}

// Reserve counts one attempt and fails with ErrRateLimited once the window
// limit is exhausted. It runs before any password comparison.
func (t *LoginThrottle) Reserve(ctx context.Context, email, addr string) error {
	key := t.key(email, addr)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("auth: throttle incr: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("auth: throttle expire: %w", err)
		}
	}
	if count > t.limit {
		return shared.ErrRateLimited
	}
	return nil
}

// Clear drops the counter after a successful login.
func (t *LoginThrottle) Clear(ctx context.Context, email, addr string) error {
	return t.client.Del(ctx, t.key(email, addr)).Err()
}

func (t *LoginThrottle) key(email, addr string) string {
	return "login_attempts:" + strings.ToLower(email) + ":" + addr
}
