package database

import (
	"context"
	"fmt"
	"log/slog"

	"travian-planner/internal/shared/database/migrations"

	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded goose migrations.
func (db *DB) RunMigrations(ctx context.Context) error {
	logger := slog.With("component", "migrations")
	logger.Info("Starting database migrations")

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return fmt.Errorf("running migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("reading migration version: %w", err)
	}

	logger.Info("All migrations completed successfully", "version", version)
	return nil
}
