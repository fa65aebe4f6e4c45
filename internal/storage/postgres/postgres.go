package postgres

import (
	"context"

	"github.com/fdg312/health-export/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements storage.Store on Postgres.
type PostgresStorage struct {
	pool      *pgxpool.Pool
	snapshots *PostgresSnapshotsStorage
	settings  *PostgresSettingsStorage
	runs      *PostgresExportRunsStorage
}

var _ storage.Store = (*PostgresStorage)(nil)

// New connects to Postgres and pings it.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:      pool,
		snapshots: NewPostgresSnapshotsStorage(pool),
		settings:  NewPostgresSettingsStorage(pool),
		runs:      NewPostgresExportRunsStorage(pool),
	}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStorage) UpsertSnapshot(ctx context.Context, ownerUserID, date string, payload []byte) (storage.SnapshotRow, error) {
	return p.snapshots.UpsertSnapshot(ctx, ownerUserID, date, payload)
}

func (p *PostgresStorage) GetSnapshot(ctx context.Context, ownerUserID, date string) (storage.SnapshotRow, bool, error) {
	return p.snapshots.GetSnapshot(ctx, ownerUserID, date)
}

func (p *PostgresStorage) ListSnapshots(ctx context.Context, ownerUserID, from, to string) ([]storage.SnapshotRow, error) {
	return p.snapshots.ListSnapshots(ctx, ownerUserID, from, to)
}

func (p *PostgresStorage) GetSettings(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
	return p.settings.GetSettings(ctx, ownerUserID)
}

func (p *PostgresStorage) UpsertSettings(ctx context.Context, ownerUserID string, payload []byte) (storage.Settings, error) {
	return p.settings.UpsertSettings(ctx, ownerUserID, payload)
}

func (p *PostgresStorage) CreateExportRun(ctx context.Context, run *storage.ExportRun) error {
	return p.runs.CreateExportRun(ctx, run)
}

func (p *PostgresStorage) GetExportRun(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.ExportRun, bool, error) {
	return p.runs.GetExportRun(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ListExportRuns(ctx context.Context, ownerUserID string, limit int) ([]storage.ExportRun, error) {
	return p.runs.ListExportRuns(ctx, ownerUserID, limit)
}
