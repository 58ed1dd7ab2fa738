package postgres

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"resumecrafter/internal/domain/repositories"
)

//go:embed schema.sql
var schemaSQL string

var schemaTemplate = template.Must(template.New("schema").Parse(schemaSQL))

// RenderSchema returns the schema statements for the given table names.
func RenderSchema(tables *TableNames) ([]string, error) {
	var buf bytes.Buffer
	if err := schemaTemplate.Execute(&buf, tables); err != nil {
		return nil, fmt.Errorf("render schema: %w", err)
	}

	var statements []string
	for _, stmt := range strings.Split(buf.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

// Migrate creates any missing tables inside one transaction.
func Migrate(ctx context.Context, cfg *RepositoryConfig, txManager repositories.TransactionManager) error {
	statements, err := RenderSchema(cfg.Tables)
	if err != nil {
		return err
	}

	return txManager.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, cfg.Pool)
		for _, stmt := range statements {
			if _, err := executor.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		cfg.Logger.Info("schema applied",
			"statements", len(statements),
			"chats_table", cfg.Tables.Chats,
		)
		return nil
	})
}
