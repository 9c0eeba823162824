package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey carries the correlation id for one unit of work: the
// middleware ULID for HTTP requests, the websocket session id for
// voice sessions.
const RequestIDKey = "request_id"

const headerKey = "X-Request-ID"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// ForSession roots a context for work done on behalf of one voice
// session, outside any HTTP request.
func ForSession(sessionID string) context.Context {
	return WithRequestID(context.Background(), sessionID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx lifts the id set by the request id middleware off the
// fiber locals, falling back to the inbound header.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(headerKey).(string)
	if !ok || requestID == "" {
		requestID = c.Get(headerKey)

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(context.Background(), requestID)
}
