package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"readmeforge/internal/logger"
)

// requestContext seeds the user context with a logger carrying the request
// id, so every log line below the middleware is correlated.
func requestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("requestid").(string)
		if reqID == "" {
			reqID = c.Get(fiber.HeaderXRequestID)
		}

		c.SetUserContext(logger.With(c.UserContext(), "request_id", reqID))
		return c.Next()
	}
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		dur := time.Since(start)

		logger.Info(c.UserContext(), "http",
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"duration_ms", float64(dur.Microseconds())/1000.0,
		)
		return err
	}
}
