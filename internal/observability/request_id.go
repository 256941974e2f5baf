package observability

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	RequestIDKey    contextKey = "request_id"
	RequestIDHeader            = "X-Request-ID"
)

func NewRequestID() string {
	return uuid.New().String()
}

// requestIDFor reuses a well-formed UUID supplied by the client so that a
// browser shell can correlate its own retries; anything else is replaced.
func requestIDFor(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		if parsed, err := uuid.Parse(id); err == nil {
			return parsed.String()
		}
	}
	return NewRequestID()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
