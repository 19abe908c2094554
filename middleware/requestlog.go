package middleware

import (
	"time"

	"car-rental-booking/logger"
	"car-rental-booking/types"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger pushes one audit row per request to the async logger.
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		var userID *uint
		if id, ok := ActorID(c); ok {
			userID = &id
		}

		asyncLogger.Log(types.LogEntry{
			Method:     c.Method(),
			URL:        c.OriginalURL(),
			UserID:     userID,
			StatusCode: c.Response().StatusCode(),
			Latency:    time.Since(start),
			CreatedAt:  start,
		})

		return err
	}
}
