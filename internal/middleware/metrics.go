package middleware

import (
	"strconv"
	"time"

	"storefront/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count, duration and in-flight requests. Paths are
// labelled with the matched route pattern to keep cardinality bounded.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		err := c.Next()
		if err != nil {
			// Let the error handler set the final status before recording.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		m.RequestsTotal.WithLabelValues(c.Method(), path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Method(), path, status).Observe(time.Since(start).Seconds())
		return err
	}
}
