package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/fileshare-server/internal/logger"
)

// Logging logs every HTTP request after it completes.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		l.logger.Info("HTTP request completed",
			"request_id", RequestIDFromCtx(c),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds())

		return err
	}
}
