package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const failureKeyPrefix = "login_fail"

// LoginLimiter counts consecutive failed logins per username and client IP
// in Redis, locking the pair out once the threshold is reached. Counters
// expire after the configured window, so a lockout always heals itself.
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

func NewLoginLimiter(client *redis.Client, maxFailures int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		client:      client,
		maxFailures: int64(maxFailures),
		window:      window,
	}
}

// Allow reports whether the username/IP pair is still under the failure
// threshold. A missing counter means no recent failures.
func (l *LoginLimiter) Allow(ctx context.Context, username, ip string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username, ip)).Int64()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return false, fmt.Errorf("limiter get: %w", err)
	}
	return n < l.maxFailures, nil
}

// Failure records one failed attempt, refreshing the window so bursts of
// failures keep the counter alive.
func (l *LoginLimiter) Failure(ctx context.Context, username, ip string) error {
	key := l.key(username, ip)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("limiter incr: %w", err)
	}
	return nil
}

// Success clears the failure counter after a successful login.
func (l *LoginLimiter) Success(ctx context.Context, username, ip string) error {
	if err := l.client.Del(ctx, l.key(username, ip)).Err(); err != nil {
		return fmt.Errorf("limiter clear: %w", err)
	}
	return nil
}

// key hashes the IP so raw client addresses never land in Redis keys.
func (l *LoginLimiter) key(username, ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return fmt.Sprintf("%s:%s:%s", failureKeyPrefix, username, hex.EncodeToString(sum[:4]))
}
