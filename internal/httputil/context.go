package httputil

import (
	"context"
	"log/slog"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey    contextKey = "userID"
	requestIDKey contextKey = "requestID"
	loggerKey    contextKey = "logger"
)

// WithUserID adds userID to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithRequestID stores the request id and a logger carrying it.
func WithRequestID(r *http.Request, requestID string, logger *slog.Logger) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, requestID)
	ctx = context.WithValue(ctx, loggerKey, logger.With("request_id", requestID))
	return r.WithContext(ctx)
}

// GetRequestID returns the request id, or "" outside a request.
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

// Logger returns the request-scoped logger, or fallback when none is set.
func Logger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if logger, ok := r.Context().Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return fallback
}
