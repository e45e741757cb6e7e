package sqlite

import (
	"context"
	"testing"

	"legend-tracker/internal/domain"
	"legend-tracker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_RegisterAndUpsert(t *testing.T) {
	db := openTestDB(t)
	store := NewSnapshotStore(db)
	ctx := context.Background()

	created, err := store.Register(ctx, "#2PP", "Alice", "#CLAN", 5100)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Register(ctx, "#2PP", "Alice", "#CLAN", 5200)
	require.NoError(t, err)
	assert.False(t, created, "second registration must be a no-op")

	snap, err := store.Get(ctx, "#2PP")
	require.NoError(t, err)
	assert.Equal(t, 5100, snap.LastTrophies)

	require.NoError(t, store.Upsert(ctx, &domain.PlayerSnapshot{
		PlayerTag:      "#2PP",
		PlayerName:     "Alice",
		LastTrophies:   5130,
		LastAttackWins: 12,
	}))

	snap, err = store.Get(ctx, "#2PP")
	require.NoError(t, err)
	assert.Equal(t, 5130, snap.LastTrophies)
	assert.Equal(t, 12, snap.LastAttackWins)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestSnapshotStore_GetNotFound(t *testing.T) {
	db := openTestDB(t)
	store := NewSnapshotStore(db)

	_, err := store.Get(context.Background(), "#MISSING")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSnapshotStore_ListAllTags(t *testing.T) {
	db := openTestDB(t)
	store := NewSnapshotStore(db)
	ctx := context.Background()

	tags, err := store.ListAllTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	for _, tag := range []string{"#AAA", "#BBB", "#CCC"} {
		_, err := store.Register(ctx, tag, "", "", 5000)
		require.NoError(t, err)
	}

	tags, err = store.ListAllTags(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"#AAA", "#BBB", "#CCC"}, tags)
}

func TestClanStore_AddAndList(t *testing.T) {
	db := openTestDB(t)
	store := NewClanStore(db)
	ctx := context.Background()

	created, err := store.Add(ctx, "#CLAN1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Add(ctx, "#CLAN1")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = store.Add(ctx, "#CLAN2")
	require.NoError(t, err)

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"#CLAN1", "#CLAN2"}, tags)
}
