package village

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"travian-planner/internal/shared/database"
)

// Repository is the PostgreSQL-backed Store.
type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing village repository")
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) ReplaceAll(ctx context.Context, villages []Village) error {
	logger := r.logger.With(
		"component", "village_repository",
		"operation", "replace_all",
		"count", len(villages),
	)
	logger.Debug("Replacing village directory")

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "error", err)
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Error("Failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM villages`); err != nil {
		logger.Error("Failed to clear villages", "error", err)
		return fmt.Errorf("failed to clear villages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO villages (player_id, player_name, village_name, x, y)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		logger.Error("Failed to prepare insert", "error", err)
		return fmt.Errorf("failed to prepare village insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range villages {
		var playerID sql.NullInt64
		if v.PlayerID != 0 {
			playerID = sql.NullInt64{Int64: int64(v.PlayerID), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, playerID, v.PlayerName, v.VillageName, v.X, v.Y); err != nil {
			logger.Error("Failed to insert village", "error", err, "village", v.Label())
			return fmt.Errorf("failed to insert village %s: %w", v.Label(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit village import", "error", err)
		return fmt.Errorf("failed to commit village import: %w", err)
	}

	logger.Info("Village directory replaced")
	return nil
}

func (r *Repository) List(ctx context.Context) ([]Village, error) {
	logger := r.logger.With("component", "village_repository", "operation", "list")

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, player_name, village_name, x, y, imported_at
		FROM villages
		ORDER BY player_name, village_name, id`)
	if err != nil {
		logger.Error("Failed to query villages", "error", err)
		return nil, fmt.Errorf("failed to query villages: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var villages []Village
	for rows.Next() {
		var v Village
		var playerID sql.NullInt64
		if err := rows.Scan(&v.ID, &playerID, &v.PlayerName, &v.VillageName, &v.X, &v.Y, &v.ImportedAt); err != nil {
			logger.Error("Failed to scan village row", "error", err)
			return nil, fmt.Errorf("failed to scan village: %w", err)
		}
		v.PlayerID = int(playerID.Int64)
		villages = append(villages, v)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating villages: %w", err)
	}

	logger.Debug("Villages retrieved", "count", len(villages))
	return villages, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM villages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count villages: %w", err)
	}
	return count, nil
}
