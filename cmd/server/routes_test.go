package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumecrafter/internal/config"
	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/repository/memory"
	"resumecrafter/internal/service"
	serviceLLM "resumecrafter/internal/service/llm"
	"resumecrafter/internal/service/llm/providers/lorem"
)

type staticVerifier struct{}

func (staticVerifier) VerifyToken(token string) (*models.ClerkClaims, error) {
	if token != "valid" {
		return nil, domain.ErrUnauthorized
	}
	return &models.ClerkClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"}}, nil
}

func (staticVerifier) Close() error { return nil }

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Environment: "test", CORSOrigins: "http://localhost:3000", OpenAIModel: config.DefaultModel}

	store := memory.NewStore()
	prefs := service.NewUserPreferencesService(store.Preferences(), logger)
	chats := service.NewChatService(store.Chats(), store.ChatIndexes(), prefs, logger)

	llmServices, err := serviceLLM.SetupServices(lorem.NewProvider(0), prefs, cfg, logger)
	require.NoError(t, err)

	a := &app{
		cfg:         cfg,
		chats:       chats,
		preferences: prefs,
		resume:      llmServices.Resume,
		general:     llmServices.General,
		verifier:    staticVerifier{},
		logger:      logger,
	}
	return a.routes()
}

func TestRoutesAuthentication(t *testing.T) {
	h := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", "", http.StatusOK},
		{"chat list needs a user", http.MethodGet, "/api/chats", "", "", http.StatusUnauthorized},
		{"chat list with token", http.MethodGet, "/api/chats", "valid", "", http.StatusOK},
		{"bad token rejected", http.MethodGet, "/api/chats", "forged", "", http.StatusUnauthorized},
		{"prompt needs a user", http.MethodPost, "/api/prompt", "", `{"prompt":"x"}`, http.StatusUnauthorized},
		{"resume stream needs a user", http.MethodPost, "/ai/openai", "", `{"messages":[]}`, http.StatusUnauthorized},
		{"debug hidden outside dev", http.MethodGet, "/api/debug", "", "", http.StatusNotFound},
		{"upload unconfigured", http.MethodGet, "/api/upload", "", "", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func TestRoutesGeneralStreamIsAnonymous(t *testing.T) {
	h := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/ai/general", strings.NewReader(`{"messages":[{"role":"user","content":"hello"}]}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, strings.TrimSpace(rec.Body.String()))
}

func TestRoutesResumeStream(t *testing.T) {
	h := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/ai/openai", strings.NewReader(`{"job_description":"Senior Go engineer"}`))
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Body.String())
}

func TestRoutesCORSPreflight(t *testing.T) {
	h := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chats", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
