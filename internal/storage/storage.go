package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the service storage: snapshots, export settings and run history.
type Store interface {
	SnapshotStorage
	SettingsStorage
	ExportsStorage

	// Close releases the connection, if any.
	Close() error
}

// SnapshotStorage persists daily snapshots.
type SnapshotStorage interface {
	// UpsertSnapshot stores a snapshot keyed by (owner_user_id, date).
	UpsertSnapshot(ctx context.Context, ownerUserID, date string, payload []byte) (SnapshotRow, error)

	// GetSnapshot returns a snapshot by day. bool=false means not found.
	GetSnapshot(ctx context.Context, ownerUserID, date string) (SnapshotRow, bool, error)

	// ListSnapshots returns snapshots in [from, to], oldest first.
	ListSnapshots(ctx context.Context, ownerUserID, from, to string) ([]SnapshotRow, error)
}

// SnapshotRow is a row of the snapshots table.
type SnapshotRow struct {
	OwnerUserID string
	Date        string // YYYY-MM-DD
	Payload     []byte // JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SettingsStorage persists per-user export settings.
type SettingsStorage interface {
	// GetSettings returns settings by owner_user_id. bool=false means not found.
	GetSettings(ctx context.Context, ownerUserID string) (Settings, bool, error)

	// UpsertSettings creates or updates settings for owner_user_id.
	UpsertSettings(ctx context.Context, ownerUserID string, payload []byte) (Settings, error)
}

// Settings holds one user's persisted export settings document.
type Settings struct {
	OwnerUserID string
	Payload     []byte // JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExportsStorage records export runs.
type ExportsStorage interface {
	CreateExportRun(ctx context.Context, run *ExportRun) error

	// GetExportRun returns a run owned by ownerUserID. bool=false means not found.
	GetExportRun(ctx context.Context, ownerUserID string, id uuid.UUID) (ExportRun, bool, error)

	// ListExportRuns returns the newest runs first.
	ListExportRuns(ctx context.Context, ownerUserID string, limit int) ([]ExportRun, error)
}

// ExportRun records one export of one day into one target file.
type ExportRun struct {
	ID            uuid.UUID
	OwnerUserID   string
	Date          string // YYYY-MM-DD
	Path          string // vault-relative target
	Format        string
	RequestedMode string
	AppliedMode   string
	SizeBytes     int64
	Status        string // "ok" or "failed"
	Error         *string
	TrackedFiles  []string
	CreatedAt     time.Time
}
