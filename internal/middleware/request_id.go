package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ContextKey represents a context key type
type ContextKey string

const (
	// RequestIDContextKey is the context key for the correlation id
	RequestIDContextKey ContextKey = "request_id"

	// RequestIDHeader echoes the correlation id to the client
	RequestIDHeader = "X-Request-ID"
)

// RequestID creates a middleware that tags each request with a fresh UUID.
// Incoming X-Request-ID headers are ignored so ids stay unguessable.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			w.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the correlation id stored by RequestID, or ""
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return id
	}
	return ""
}
