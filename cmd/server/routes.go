package main

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"resumecrafter/internal/auth"
	"resumecrafter/internal/config"
	"resumecrafter/internal/domain/services"
	llmSvc "resumecrafter/internal/domain/services/llm"
	"resumecrafter/internal/handler"
	"resumecrafter/internal/middleware"
)

// app holds everything the router needs
type app struct {
	cfg         *config.Config
	chats       services.ChatService
	preferences services.UserPreferencesService
	resume      llmSvc.ResumeService
	general     llmSvc.GeneralChatService
	verifier    auth.JWTVerifier   // nil leaves every caller anonymous
	limiter     middleware.Limiter // nil disables rate limiting
	logger      *slog.Logger
}

// routes builds the full middleware chain around the API
func (a *app) routes() http.Handler {
	chatHandler := handler.NewChatHandler(a.chats, a.logger)
	prefsHandler := handler.NewUserPreferencesHandler(a.preferences, a.logger)
	aiHandler := handler.NewAIHandler(a.resume, a.general, a.logger)
	uploadHandler := handler.NewUploadHandler(a.cfg.ImageKitPrivateKey, a.cfg.ImageKitPublicKey, a.cfg.ImageKitEndpoint, a.logger)
	healthHandler := handler.NewHealthHandler(a.cfg)

	limit := middleware.RateLimit(a.limiter, a.logger)
	user := middleware.RequireUser

	// Go 1.22+ enhanced patterns
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)
	if a.cfg.IsDev() {
		mux.HandleFunc("GET /api/debug", healthHandler.Debug)
		a.logger.Warn("DEBUG MODE: GET /api/debug registered (never enable in production)")
	}

	// Chat store
	mux.HandleFunc("POST /api/chats", user(chatHandler.CreateChat))
	mux.HandleFunc("GET /api/chats", user(chatHandler.ListChats))
	mux.HandleFunc("GET /api/chats/{id}", user(chatHandler.GetChat))
	mux.HandleFunc("PUT /api/chats/{id}", user(chatHandler.AppendTurns))

	// Preference store
	mux.HandleFunc("POST /api/prompt", user(prefsHandler.SavePrompt))

	// Image upload signing
	mux.HandleFunc("GET /api/upload", uploadHandler.GetUploadAuth)

	// Streaming relay
	mux.HandleFunc("POST /ai/openai", user(limit(aiHandler.StreamResume)))
	mux.HandleFunc("POST /ai/general", limit(aiHandler.StreamGeneral))

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → RequestLog → Recovery → Auth → Routes
	var h http.Handler = mux
	if a.verifier != nil {
		h = middleware.Authenticate(a.verifier, a.logger)(h)
	} else {
		a.logger.Warn("no JWKS configured: all requests are anonymous")
	}
	h = middleware.Recovery(a.logger)(h)
	h = middleware.RequestLog(a.logger)(h)
	h = middleware.RequestID(a.logger)(h)

	// CORS - Must be outermost to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: splitOrigins(a.cfg.CORSOrigins),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return corsHandler.Handler(h)
}

func splitOrigins(raw string) []string {
	origins := config.SplitList(raw)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
