package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"posts/internal/models"
	"posts/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// ErrNoRedis is returned by CheckRateLimit when no client is configured.
var ErrNoRedis = errors.New("redis client is nil")

const (
	MsgRateLimited          = "Too many requests, please try again later."
	MsgRateLimitUnavailable = "Rate limiting is currently unavailable."
)

// CheckRateLimit counts one hit for id against resource in a fixed window.
// Returns true if allowed, false if limit exceeded.
func CheckRateLimit(ctx context.Context, rdb redis.Cmdable, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, ErrNoRedis
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// INCR and set EXPIRE if new
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing limit requests per window
// per client IP. It defaults to the FailOpen policy.
func RateLimit(rdb redis.Cmdable, limit int, window time.Duration, name string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb redis.Cmdable, limit int, window time.Duration, policy FailPolicy, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
		defer cancel()

		allowed, err := CheckRateLimit(ctx, rdb, name, "ip:"+c.IP(), limit, window)
		if err != nil {
			observability.RedisErrorRate.WithLabelValues("rate_limit").Inc()
			if policy == FailClosed {
				observability.RateLimitRejections.WithLabelValues("unavailable").Inc()
				Logger.WarnContext(c.UserContext(), "Rate limit fail-closed",
					slog.String("resource", name),
					slog.String("path", c.Path()),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: MsgRateLimitUnavailable})
			}
			return c.Next()
		}

		if !allowed {
			observability.RateLimitRejections.WithLabelValues("exceeded").Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{Error: MsgRateLimited})
		}
		return c.Next()
	}
}
