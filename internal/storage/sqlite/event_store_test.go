package sqlite

import (
	"context"
	"testing"
	"time"

	"legend-tracker/internal/domain"
	"legend-tracker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStore_AppendAndDedup(t *testing.T) {
	db := openTestDB(t)
	store := NewEventStore(db)
	ctx := context.Background()
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	event := &domain.TrophyEvent{
		PlayerTag:      "#2PP",
		PlayerName:     "Alice",
		ClanTag:        "#CLAN",
		Type:           domain.EventAttack,
		Diff:           30,
		TrophiesResult: 5030,
		Timestamp:      ts,
	}
	require.NoError(t, store.Append(ctx, event))
	assert.NotZero(t, event.ID)

	// Redelivery of the same physical observation must collide.
	dup := *event
	dup.ID = 0
	err := store.Append(ctx, &dup)
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	events, err := store.ListByPlayer(ctx, "#2PP", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventAttack, events[0].Type)
	assert.Equal(t, 30, events[0].Diff)
	assert.Equal(t, "#CLAN", events[0].ClanTag)
}

func TestEventStore_ClanlessPlayer(t *testing.T) {
	db := openTestDB(t)
	store := NewEventStore(db)
	ctx := context.Background()

	event := &domain.TrophyEvent{
		PlayerTag:      "#2PP",
		Type:           domain.EventDefense,
		Diff:           -20,
		TrophiesResult: 5410,
		Timestamp:      time.Now().UTC(),
	}
	require.NoError(t, store.Append(ctx, event))

	events, err := store.ListByPlayer(ctx, "#2PP", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].ClanTag)
}

func TestEventStore_ListSince(t *testing.T) {
	db := openTestDB(t)
	store := NewEventStore(db)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := store.Append(ctx, &domain.TrophyEvent{
			PlayerTag:      "#2PP",
			Type:           domain.EventAttack,
			Diff:           10 + i,
			TrophiesResult: 5000 + i,
			Timestamp:      base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	events, err := store.ListSince(ctx, base.Add(time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Timestamp.After(events[1].Timestamp))
}
