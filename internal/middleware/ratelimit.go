package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"resumecrafter/internal/httputil"
)

// Limiter decides whether a caller key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RetryAfter() time.Duration
}

// RateLimit throttles next per user, or per client IP for anonymous calls.
// A nil limiter disables throttling.
func RateLimit(limiter Limiter, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				httputil.Logger(r, logger).Error("rate limiter unavailable", "key", key, "error", err)
				httputil.RespondError(w, http.StatusServiceUnavailable, "rate limiter unavailable")
				return
			}
			if !allowed {
				seconds := int(math.Ceil(limiter.RetryAfter().Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				httputil.RespondError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next(w, r)
		}
	}
}

func rateLimitKey(r *http.Request) string {
	if userID := httputil.GetUserID(r); userID != "" {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
