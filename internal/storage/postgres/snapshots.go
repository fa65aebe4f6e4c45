package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/fdg312/health-export/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSnapshotsStorage implements SnapshotStorage on Postgres.
type PostgresSnapshotsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSnapshotsStorage(pool *pgxpool.Pool) *PostgresSnapshotsStorage {
	return &PostgresSnapshotsStorage{pool: pool}
}

func (s *PostgresSnapshotsStorage) UpsertSnapshot(ctx context.Context, ownerUserID, date string, payload []byte) (storage.SnapshotRow, error) {
	const query = `
		INSERT INTO snapshots (owner_user_id, date, payload, created_at, updated_at)
		VALUES ($1, $2::date, $3, NOW(), NOW())
		ON CONFLICT (owner_user_id, date)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
		RETURNING owner_user_id, date::text, payload, created_at, updated_at
	`

	var row storage.SnapshotRow
	err := s.pool.QueryRow(ctx, query, strings.TrimSpace(ownerUserID), date, payload).Scan(
		&row.OwnerUserID,
		&row.Date,
		&row.Payload,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return storage.SnapshotRow{}, err
	}
	return row, nil
}

func (s *PostgresSnapshotsStorage) GetSnapshot(ctx context.Context, ownerUserID, date string) (storage.SnapshotRow, bool, error) {
	const query = `
		SELECT owner_user_id, date::text, payload, created_at, updated_at
		FROM snapshots
		WHERE owner_user_id = $1 AND date = $2::date
	`

	var row storage.SnapshotRow
	err := s.pool.QueryRow(ctx, query, strings.TrimSpace(ownerUserID), date).Scan(
		&row.OwnerUserID,
		&row.Date,
		&row.Payload,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.SnapshotRow{}, false, nil
		}
		return storage.SnapshotRow{}, false, err
	}
	return row, true, nil
}

func (s *PostgresSnapshotsStorage) ListSnapshots(ctx context.Context, ownerUserID, from, to string) ([]storage.SnapshotRow, error) {
	const query = `
		SELECT owner_user_id, date::text, payload, created_at, updated_at
		FROM snapshots
		WHERE owner_user_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, strings.TrimSpace(ownerUserID), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []storage.SnapshotRow{}
	for rows.Next() {
		var row storage.SnapshotRow
		if err := rows.Scan(&row.OwnerUserID, &row.Date, &row.Payload, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
