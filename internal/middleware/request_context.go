package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/localnerve/roadmapdb/internal/logger"
)

const localLogger = "logger"

// RequestID tags every request with a uuid, reusing an inbound X-Request-ID
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: "requestid",
	})
}

// RequestContext stores a logger scoped to the request id. It must follow RequestID.
func RequestContext(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.Locals("requestid").(string)
		c.Locals(localLogger, log.With("requestId", id, "method", c.Method(), "path", c.Path()))
		return c.Next()
	}
}

// RequestLogger returns the request scoped logger, or a no-op logger outside a request chain
func RequestLogger(c *fiber.Ctx) *logger.Logger {
	return RequestLoggerOr(c, logger.Nop())
}

// RequestLoggerOr returns the request scoped logger or fallback
func RequestLoggerOr(c *fiber.Ctx, fallback *logger.Logger) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return fallback
}
