package handler

import (
	"net/http"
	"time"

	"resumecrafter/internal/config"
	"resumecrafter/internal/httputil"
)

// HealthHandler reports liveness and, in dev, configuration status
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Health reports that the process is serving
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

// Debug shows which integrations are configured without exposing secrets
// GET /api/debug (dev only)
func (h *HealthHandler) Debug(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       h.cfg.Environment,
		"store":             h.cfg.Store,
		"upstream_provider": h.cfg.UpstreamProvider,
		"has_openai_key":    h.cfg.OpenAIAPIKey != "",
		"has_clerk_jwks":    h.cfg.ClerkJWKSURL != "",
		"has_redis":         h.cfg.RedisAddr != "",
		"has_imagekit_key":  h.cfg.ImageKitPrivateKey != "",
		"cors_origins":      h.cfg.CORSOrigins,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}
