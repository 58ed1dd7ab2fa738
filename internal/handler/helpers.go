package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"resumecrafter/internal/domain"
	"resumecrafter/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Server-side failures are logged in full and surfaced only as a generic
// message. The "error" member mirrors detail for the existing frontend.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, detail := errorStatus(err)
	if status >= http.StatusInternalServerError {
		httputil.Logger(r, logger).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	extras := map[string]interface{}{"error": detail}
	if requestID := httputil.GetRequestID(r); requestID != "" {
		extras["request_id"] = requestID
	}
	httputil.RespondErrorWithExtras(w, status, detail, extras)
}

func errorStatus(err error) (int, string) {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "storage temporarily unavailable"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "error calling completion provider"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// parseBody decodes the JSON body, answering 400 (or 413) itself on failure.
func parseBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			handleError(w, r, logger, err)
			return false
		}
		handleError(w, r, logger, &domain.ValidationError{Message: "Invalid request body"})
		return false
	}
	return true
}
