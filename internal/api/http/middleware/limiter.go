package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
)

// NewLimiter applies a per-IP sliding window of perMinute requests.
// Counters live in Redis when a client is given, in memory otherwise.
func NewLimiter(rdb *redis.Client, perMinute int) fiber.Handler {
	cfg := limiter.Config{
		Max:               perMinute,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		// the display screens hold a stream open and must not be throttled
		Next: func(c fiber.Ctx) bool { return c.Path() == "/api/v1/display/stream" },
	}
	if rdb != nil {
		cfg.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(cfg)
}
