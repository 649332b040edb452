package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"medrag/app/metrics"
)

// Metrics records per-path request counts and latency.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Path()
		metrics.RequestsTotal.WithLabelValues(path, strconv.Itoa(c.Response().StatusCode())).Inc()
		metrics.RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		return err
	}
}
