package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/health-export/internal/storage"
	"github.com/google/uuid"
)

// ExportRunsMemoryStorage keeps export run history in memory.
type ExportRunsMemoryStorage struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]storage.ExportRun
}

func NewExportRunsMemoryStorage() *ExportRunsMemoryStorage {
	return &ExportRunsMemoryStorage{
		runs: make(map[uuid.UUID]storage.ExportRun),
	}
}

func (s *ExportRunsMemoryStorage) CreateExportRun(ctx context.Context, run *storage.ExportRun) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	stored := *run
	stored.TrackedFiles = append([]string(nil), run.TrackedFiles...)
	s.runs[run.ID] = stored
	return nil
}

func (s *ExportRunsMemoryStorage) GetExportRun(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.ExportRun, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok || run.OwnerUserID != strings.TrimSpace(ownerUserID) {
		return storage.ExportRun{}, false, nil
	}
	return run, true, nil
}

func (s *ExportRunsMemoryStorage) ListExportRuns(ctx context.Context, ownerUserID string, limit int) ([]storage.ExportRun, error) {
	_ = ctx
	owner := strings.TrimSpace(ownerUserID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []storage.ExportRun{}
	for _, run := range s.runs {
		if run.OwnerUserID == owner {
			results = append(results, run)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
