package cache

import (
	"context"
	"strconv"
	"time"

	"telegram_assistant/internal/logger"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// Connect returns a Redis client, or nil when addr is empty or the server
// does not answer a ping. Callers treat a nil client as "no Redis" and fail open.
func Connect(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without it", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// RateLimiter is a fixed-window counter using INCR/EXPIRE.
// key format: rl:<scope>:<window_seconds>:<identifier>
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow counts one hit for ident and reports whether it is within max per
// window. Without Redis, or on a Redis error, the hit is allowed.
func (l *RateLimiter) Allow(ctx context.Context, scope, ident string, max int, window time.Duration) (bool, error) {
	if l == nil || l.client == nil || max <= 0 {
		return true, nil
	}

	key := "rl:" + scope + ":" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
	val, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if val == 1 {
		// first hit in the window
		l.client.Expire(ctx, key, window)
	}
	return val <= int64(max), nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Lock is a best-effort mutual exclusion across processes
type Lock struct {
	client *redis.Client
}

func NewLock(client *redis.Client) *Lock {
	return &Lock{client: client}
}

// TryLock takes key for ttl with SET NX. ok is false when another holder has
// it. Without Redis every call succeeds. release only deletes our own token.
func (l *Lock) TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error) {
	if l == nil || l.client == nil {
		return func() {}, true, nil
	}

	token := uuid.NewString()
	ok, err = l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return func() {}, ok, err
	}

	release = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			logger.Warn("failed to release lock", "key", key, "error", err)
		}
	}
	return release, true, nil
}
