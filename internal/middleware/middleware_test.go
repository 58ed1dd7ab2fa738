package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/httputil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubVerifier struct {
	tokens map[string]string // token -> subject
}

func (v *stubVerifier) VerifyToken(token string) (*models.ClerkClaims, error) {
	sub, ok := v.tokens[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return &models.ClerkClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}, nil
}

func (v *stubVerifier) Close() error { return nil }

// echoUser writes the resolved user id, or "anonymous".
func echoUser(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		userID = "anonymous"
	}
	w.Write([]byte(userID))
}

func TestAuthenticate(t *testing.T) {
	verifier := &stubVerifier{tokens: map[string]string{"good": "user_123"}}
	h := Authenticate(verifier, testLogger())(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header passes anonymously", "", http.StatusOK, "anonymous"},
		{"valid bearer token", "Bearer good", http.StatusOK, "user_123"},
		{"unknown token", "Bearer forged", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(echoUser)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/chats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	req := httputil.WithUserID(httptest.NewRequest(http.MethodGet, "/api/chats", nil), "user_123")
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_123", rec.Body.String())
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allow, l.err
}

func (l *stubLimiter) RetryAfter() time.Duration { return 1500 * time.Millisecond }

func TestRateLimit(t *testing.T) {
	t.Run("allowed request keyed by user", func(t *testing.T) {
		limiter := &stubLimiter{allow: true}
		h := RateLimit(limiter, testLogger())(echoUser)

		req := httputil.WithUserID(httptest.NewRequest(http.MethodPost, "/ai/openai", nil), "user_123")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"user:user_123"}, limiter.keys)
	})

	t.Run("denied anonymous request keyed by ip", func(t *testing.T) {
		limiter := &stubLimiter{allow: false}
		h := RateLimit(limiter, testLogger())(echoUser)

		req := httptest.NewRequest(http.MethodPost, "/ai/general", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
		assert.Equal(t, []string{"ip:203.0.113.7"}, limiter.keys)
	})

	t.Run("limiter failure", func(t *testing.T) {
		limiter := &stubLimiter{err: errors.New("redis down")}
		h := RateLimit(limiter, testLogger())(echoUser)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/ai/general", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("nil limiter disables throttling", func(t *testing.T) {
		h := RateLimit(nil, testLogger())(echoUser)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/ai/general", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetRequestID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "req-42", seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
}

func TestRequestLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})
	h := RequestID(logger)(RequestLog(logger)(inner))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"msg":"http_request"`)
	assert.Contains(t, line, `"request_id":"req-7"`)
	assert.Contains(t, line, `"status":418`)
	assert.Contains(t, line, `"bytes":15`)
}

func TestRecovery(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecoveryRepanicsOnAbort(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	require.PanicsWithError(t, http.ErrAbortHandler.Error(), func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
