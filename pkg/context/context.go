package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey = "request_id"

	requestIDHeader = "X-Request-ID"
	unknownID       = "unknown"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return unknownID
	}
	return requestID
}

// FromFiberCtx derives a request context from the fiber user context so
// cancellation reaches the dialogue manager. The id set by the request id
// middleware wins over the raw header.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, _ := c.Locals(requestIDHeader).(string)
	if requestID == "" {
		requestID = c.Get(requestIDHeader, unknownID)
	}
	return WithRequestID(c.UserContext(), requestID)
}
