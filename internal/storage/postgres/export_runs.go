package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/health-export/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresExportRunsStorage keeps export run history in Postgres.
type PostgresExportRunsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresExportRunsStorage(pool *pgxpool.Pool) *PostgresExportRunsStorage {
	return &PostgresExportRunsStorage{pool: pool}
}

const exportRunColumns = `id, owner_user_id, date::text, path, format, requested_mode, applied_mode,
		       size_bytes, status, error, tracked_files, created_at`

func scanExportRun(row pgx.Row) (storage.ExportRun, error) {
	var r storage.ExportRun
	err := row.Scan(
		&r.ID,
		&r.OwnerUserID,
		&r.Date,
		&r.Path,
		&r.Format,
		&r.RequestedMode,
		&r.AppliedMode,
		&r.SizeBytes,
		&r.Status,
		&r.Error,
		&r.TrackedFiles,
		&r.CreatedAt,
	)
	return r, err
}

func (s *PostgresExportRunsStorage) CreateExportRun(ctx context.Context, run *storage.ExportRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	tracked := run.TrackedFiles
	if tracked == nil {
		tracked = []string{}
	}

	const query = `
		INSERT INTO export_runs (
			id, owner_user_id, date, path, format, requested_mode, applied_mode,
			size_bytes, status, error, tracked_files, created_at
		)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		run.ID,
		strings.TrimSpace(run.OwnerUserID),
		run.Date,
		run.Path,
		run.Format,
		run.RequestedMode,
		run.AppliedMode,
		run.SizeBytes,
		run.Status,
		run.Error,
		tracked,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create export run: %w", err)
	}
	return nil
}

func (s *PostgresExportRunsStorage) GetExportRun(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.ExportRun, bool, error) {
	query := `
		SELECT ` + exportRunColumns + `
		FROM export_runs
		WHERE id = $1 AND owner_user_id = $2
	`

	run, err := scanExportRun(s.pool.QueryRow(ctx, query, id, strings.TrimSpace(ownerUserID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ExportRun{}, false, nil
		}
		return storage.ExportRun{}, false, fmt.Errorf("failed to get export run: %w", err)
	}
	return run, true, nil
}

func (s *PostgresExportRunsStorage) ListExportRuns(ctx context.Context, ownerUserID string, limit int) ([]storage.ExportRun, error) {
	query := `
		SELECT ` + exportRunColumns + `
		FROM export_runs
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, strings.TrimSpace(ownerUserID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list export runs: %w", err)
	}
	defer rows.Close()

	runs := []storage.ExportRun{}
	for rows.Next() {
		run, err := scanExportRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
