package memory

import (
	"context"

	"github.com/fdg312/health-export/internal/storage"
	"github.com/google/uuid"
)

// MemoryStorage is an in-memory storage.Store.
type MemoryStorage struct {
	snapshots *SnapshotsMemoryStorage
	settings  *SettingsMemoryStorage
	runs      *ExportRunsMemoryStorage
}

var _ storage.Store = (*MemoryStorage)(nil)

// New returns an empty MemoryStorage.
func New() *MemoryStorage {
	return &MemoryStorage{
		snapshots: NewSnapshotsMemoryStorage(),
		settings:  NewSettingsMemoryStorage(),
		runs:      NewExportRunsMemoryStorage(),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) UpsertSnapshot(ctx context.Context, ownerUserID, date string, payload []byte) (storage.SnapshotRow, error) {
	return m.snapshots.UpsertSnapshot(ctx, ownerUserID, date, payload)
}

func (m *MemoryStorage) GetSnapshot(ctx context.Context, ownerUserID, date string) (storage.SnapshotRow, bool, error) {
	return m.snapshots.GetSnapshot(ctx, ownerUserID, date)
}

func (m *MemoryStorage) ListSnapshots(ctx context.Context, ownerUserID, from, to string) ([]storage.SnapshotRow, error) {
	return m.snapshots.ListSnapshots(ctx, ownerUserID, from, to)
}

func (m *MemoryStorage) GetSettings(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
	return m.settings.GetSettings(ctx, ownerUserID)
}

func (m *MemoryStorage) UpsertSettings(ctx context.Context, ownerUserID string, payload []byte) (storage.Settings, error) {
	return m.settings.UpsertSettings(ctx, ownerUserID, payload)
}

func (m *MemoryStorage) CreateExportRun(ctx context.Context, run *storage.ExportRun) error {
	return m.runs.CreateExportRun(ctx, run)
}

func (m *MemoryStorage) GetExportRun(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.ExportRun, bool, error) {
	return m.runs.GetExportRun(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ListExportRuns(ctx context.Context, ownerUserID string, limit int) ([]storage.ExportRun, error) {
	return m.runs.ListExportRuns(ctx, ownerUserID, limit)
}
