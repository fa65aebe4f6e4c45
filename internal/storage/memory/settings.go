package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/health-export/internal/storage"
)

// SettingsMemoryStorage keeps one settings document per user.
type SettingsMemoryStorage struct {
	mu   sync.RWMutex
	docs map[string]storage.Settings
}

func NewSettingsMemoryStorage() *SettingsMemoryStorage {
	return &SettingsMemoryStorage{docs: make(map[string]storage.Settings)}
}

// cloneSettings detaches the payload so callers cannot mutate stored bytes.
func cloneSettings(doc storage.Settings) storage.Settings {
	doc.Payload = append([]byte(nil), doc.Payload...)
	return doc
}

func (s *SettingsMemoryStorage) GetSettings(_ context.Context, ownerUserID string) (storage.Settings, bool, error) {
	s.mu.RLock()
	doc, ok := s.docs[strings.TrimSpace(ownerUserID)]
	s.mu.RUnlock()

	if !ok {
		return storage.Settings{}, false, nil
	}
	return cloneSettings(doc), true, nil
}

func (s *SettingsMemoryStorage) UpsertSettings(_ context.Context, ownerUserID string, payload []byte) (storage.Settings, error) {
	owner := strings.TrimSpace(ownerUserID)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := storage.Settings{OwnerUserID: owner, CreatedAt: now}
	if prev, ok := s.docs[owner]; ok {
		doc.CreatedAt = prev.CreatedAt
	}
	doc.Payload = payload
	doc.UpdatedAt = now

	s.docs[owner] = cloneSettings(doc)
	return cloneSettings(doc), nil
}
