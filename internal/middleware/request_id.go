package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ohmatt160/library-AI-chatbot/pkg/utils"
)

const (
	RequestIDKey = "X-Request-ID"

	maxRequestIDLen = 64
)

// newRequestIDMiddleware propagates a client supplied id when it is short
// and printable, and mints a ULID otherwise.
func newRequestIDMiddleware(u utils.IUtils) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)

		if !validRequestID(requestID) {
			requestID, _ = u.NewULIDFromTimestamp(time.Now())
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
