package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"resumecrafter/internal/auth"
	"resumecrafter/internal/config"
	"resumecrafter/internal/domain/repositories"
	"resumecrafter/internal/middleware"
	"resumecrafter/internal/ratelimit"
	"resumecrafter/internal/repository/memory"
	"resumecrafter/internal/repository/postgres"
	"resumecrafter/internal/service"
	serviceLLM "resumecrafter/internal/service/llm"
)

const shutdownTimeout = 10 * time.Second

// stores groups the repositories backing the services
type stores struct {
	chats   repositories.ChatRepository
	indexes repositories.UserChatIndexRepository
	prefs   repositories.UserPreferencesRepository
	close   func()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	output, closer := config.SetupLogOutput(cfg.LogDir)
	defer closer.Close()

	logger := config.NewLogger(output, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.Store,
		"table_prefix", cfg.TablePrefix,
	)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	var verifier auth.JWTVerifier
	if cfg.ClerkJWKSURL != "" {
		verifier, err = auth.NewJWTVerifier(cfg.ClerkJWKSURL, cfg.ClerkAuthorizedParties, logger)
		if err != nil {
			return fmt.Errorf("create JWT verifier: %w", err)
		}
		defer verifier.Close()
	}

	var limiter middleware.Limiter
	if cfg.RedisAddr != "" {
		fixed, err := ratelimit.NewFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "", cfg.RateLimitPerMinute, time.Minute)
		if err != nil {
			return fmt.Errorf("create rate limiter: %w", err)
		}
		defer fixed.Close()
		limiter = fixed
		logger.Info("rate limiting enabled", "per_minute", cfg.RateLimitPerMinute)
	}

	provider, err := serviceLLM.NewProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("create completion provider: %w", err)
	}

	prefsService := service.NewUserPreferencesService(st.prefs, logger)
	chatService := service.NewChatService(st.chats, st.indexes, prefsService, logger)

	llmServices, err := serviceLLM.SetupServices(provider, prefsService, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup streaming services: %w", err)
	}

	logger.Info("services initialized")

	a := &app{
		cfg:         cfg,
		chats:       chatService,
		preferences: prefsService,
		resume:      llmServices.Resume,
		general:     llmServices.General,
		verifier:    verifier,
		limiter:     limiter,
		logger:      logger,
	}

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     a.routes(),
		ReadTimeout: 15 * time.Second,
		// Disabled to allow long-lived completion streams
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStores returns the postgres repositories, or the in-process store
// when STORE=memory.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.Store {
	case "memory":
		logger.Warn("using in-memory store: data is lost on restart")
		mem := memory.NewStore()
		return &stores{
			chats:   mem.Chats(),
			indexes: mem.ChatIndexes(),
			prefs:   mem.Preferences(),
			close:   func() {},
		}, nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when STORE=postgres")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to document store: %w", err)
		}
		stat := pool.Stat()
		logger.Info("database connected", "max_conns", stat.MaxConns())

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		return &stores{
			chats:   postgres.NewChatRepository(repoConfig),
			indexes: postgres.NewUserChatIndexRepository(repoConfig),
			prefs:   postgres.NewUserPreferencesRepository(repoConfig),
			close:   pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE %q (want postgres or memory)", cfg.Store)
	}
}
