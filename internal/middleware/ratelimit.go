package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter. A nil limiter allows everything,
// and so does a Redis error.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || l.limit <= 0 || l.window <= 0 {
		return true
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{"gigboard:rl:" + key}, ttl, l.limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// RateLimit keys on the account when signed in, otherwise on the client IP.
func RateLimit(l *RedisLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if uid, ok := c.Locals("userId").(uuid.UUID); ok {
			key = "user:" + uid.String()
		}
		if !l.Allow(c.UserContext(), key) {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, slow down")
		}
		return c.Next()
	}
}
