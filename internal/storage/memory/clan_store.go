package memory

import (
	"context"
	"sort"
	"sync"

	"legend-tracker/internal/storage"
)

// ClanStore is an in-memory implementation of storage.ClanStore.
type ClanStore struct {
	mu   sync.RWMutex
	tags map[string]struct{}
}

// NewClanStore creates a new in-memory clan store.
func NewClanStore() *ClanStore {
	return &ClanStore{tags: make(map[string]struct{})}
}

var _ storage.ClanStore = (*ClanStore)(nil)

func (s *ClanStore) Add(_ context.Context, clanTag string) (bool, error) {
	if clanTag == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tags[clanTag]; exists {
		return false, nil
	}
	s.tags[clanTag] = struct{}{}
	return true, nil
}

func (s *ClanStore) ListTags(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]string, 0, len(s.tags))
	for tag := range s.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}
