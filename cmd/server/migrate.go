package main

import (
	"context"
	"errors"
	"fmt"

	"resumecrafter/internal/config"
	"resumecrafter/internal/repository/postgres"
)

func runMigrate(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for migrate")
	}

	output, closer := config.SetupLogOutput(cfg.LogDir)
	defer closer.Close()
	logger := config.NewLogger(output, cfg.LogLevel)

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	if err := postgres.Migrate(ctx, repoConfig, postgres.NewTransactionManager(pool, logger)); err != nil {
		return err
	}

	logger.Info("migration complete", "table_prefix", cfg.TablePrefix)
	return nil
}
