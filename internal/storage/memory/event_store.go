package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"legend-tracker/internal/domain"
	"legend-tracker/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events []*domain.TrophyEvent
	seen   map[string]struct{}
	nextID int64
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{seen: make(map[string]struct{}), nextID: 1}
}

var _ storage.EventStore = (*EventStore)(nil)

func eventKey(playerTag string, ts time.Time, result int) string {
	return fmt.Sprintf("%s|%d|%d", playerTag, ts.UnixMilli(), result)
}

func (s *EventStore) Append(_ context.Context, e *domain.TrophyEvent) error {
	if e == nil || e.PlayerTag == "" || e.Diff == 0 {
		return storage.ErrInvalidInput
	}

	key := eventKey(e.PlayerTag, e.Timestamp, e.TrophiesResult)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *e
	copy.ID = s.nextID
	s.nextID++
	s.seen[key] = struct{}{}
	s.events = append(s.events, &copy)
	e.ID = copy.ID
	return nil
}

func (s *EventStore) ListByPlayer(_ context.Context, playerTag string, limit int) ([]*domain.TrophyEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TrophyEvent
	for _, e := range s.events {
		if e.PlayerTag == playerTag {
			copy := *e
			out = append(out, &copy)
		}
	}
	sortNewestFirst(out)
	return truncate(out, limit), nil
}

func (s *EventStore) ListSince(_ context.Context, since time.Time, limit int) ([]*domain.TrophyEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TrophyEvent
	for _, e := range s.events {
		if !e.Timestamp.Before(since) {
			copy := *e
			out = append(out, &copy)
		}
	}
	sortNewestFirst(out)
	return truncate(out, limit), nil
}

func sortNewestFirst(events []*domain.TrophyEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].ID > events[j].ID
		}
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}

func truncate(events []*domain.TrophyEvent, limit int) []*domain.TrophyEvent {
	if limit > 0 && len(events) > limit {
		return events[:limit]
	}
	return events
}
