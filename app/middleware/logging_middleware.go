package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestLogging logs request metadata only: method, path, status, latency
// and a request id. Bodies and retrieved text are never logged; that is the
// privacy posture expected of clinical tooling.
func RequestLogging() fiber.Handler {
	logger := slog.Default()
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("X-Request-ID", requestID)

		err := c.Next()

		logger.Info("request",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency_ms", float64(time.Since(start).Microseconds())/1000,
		)
		return err
	}
}
