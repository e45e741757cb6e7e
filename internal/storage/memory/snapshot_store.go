package memory

import (
	"context"
	"sync"
	"time"

	"legend-tracker/internal/domain"
	"legend-tracker/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PlayerSnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{data: make(map[string]*domain.PlayerSnapshot)}
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

func (s *SnapshotStore) Get(_ context.Context, playerTag string) (*domain.PlayerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[playerTag]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *snap
	return &copy, nil
}

func (s *SnapshotStore) Upsert(_ context.Context, snap *domain.PlayerSnapshot) error {
	if snap == nil || snap.PlayerTag == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *snap
	if copy.UpdatedAt.IsZero() {
		copy.UpdatedAt = time.Now().UTC()
	}
	s.data[copy.PlayerTag] = &copy
	return nil
}

func (s *SnapshotStore) Register(_ context.Context, playerTag, playerName, _ string, trophies int) (bool, error) {
	if playerTag == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[playerTag]; exists {
		return false, nil
	}
	s.data[playerTag] = &domain.PlayerSnapshot{
		PlayerTag:    playerTag,
		PlayerName:   playerName,
		LastTrophies: trophies,
		UpdatedAt:    time.Now().UTC(),
	}
	return true, nil
}

func (s *SnapshotStore) ListAllTags(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]string, 0, len(s.data))
	for tag := range s.data {
		tags = append(tags, tag)
	}
	return tags, nil
}
