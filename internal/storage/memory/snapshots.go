package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/health-export/internal/storage"
)

// SnapshotsMemoryStorage is an in-memory SnapshotStorage.
type SnapshotsMemoryStorage struct {
	mu   sync.RWMutex
	rows map[string]storage.SnapshotRow // key: "owner:date"
}

func NewSnapshotsMemoryStorage() *SnapshotsMemoryStorage {
	return &SnapshotsMemoryStorage{
		rows: make(map[string]storage.SnapshotRow),
	}
}

func snapshotKey(ownerUserID, date string) string {
	return strings.TrimSpace(ownerUserID) + ":" + date
}

func (s *SnapshotsMemoryStorage) UpsertSnapshot(ctx context.Context, ownerUserID, date string, payload []byte) (storage.SnapshotRow, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	key := snapshotKey(ownerUserID, date)
	now := time.Now()

	row, exists := s.rows[key]
	if !exists {
		row = storage.SnapshotRow{
			OwnerUserID: strings.TrimSpace(ownerUserID),
			Date:        date,
			CreatedAt:   now,
		}
	}
	row.Payload = append([]byte(nil), payload...)
	row.UpdatedAt = now
	s.rows[key] = row

	return row, nil
}

func (s *SnapshotsMemoryStorage) GetSnapshot(ctx context.Context, ownerUserID, date string) (storage.SnapshotRow, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[snapshotKey(ownerUserID, date)]
	return row, ok, nil
}

func (s *SnapshotsMemoryStorage) ListSnapshots(ctx context.Context, ownerUserID, from, to string) ([]storage.SnapshotRow, error) {
	_ = ctx
	owner := strings.TrimSpace(ownerUserID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []storage.SnapshotRow{}
	for _, row := range s.rows {
		if row.OwnerUserID == owner && row.Date >= from && row.Date <= to {
			results = append(results, row)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date < results[j].Date
	})

	return results, nil
}
