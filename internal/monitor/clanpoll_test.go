package monitor

import (
	"context"
	"testing"

	"legend-tracker/internal/api"
	"legend-tracker/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollOnce_RegistersRosterMembers(t *testing.T) {
	clash := newStubAPI()
	clash.setClan(&api.Clan{
		Tag:  "#CLAN",
		Name: "The Clan",
		Members: []api.ClanMember{
			{Tag: "#AAA", Name: "Alice", Trophies: 5100},
			{Tag: "#BBB", Name: "Bob", Trophies: 5200},
		},
	})

	clans := memory.NewClanStore()
	snapshots := memory.NewSnapshotStore()
	ctx := context.Background()
	_, err := clans.Add(ctx, "#CLAN")
	require.NoError(t, err)

	p := NewClanPoller(clash, clans, snapshots, testMetrics(), testLogger)
	p.PollOnce(ctx)

	tags, err := snapshots.ListAllTags(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"#AAA", "#BBB"}, tags)

	snap, err := snapshots.Get(ctx, "#AAA")
	require.NoError(t, err)
	assert.Equal(t, 5100, snap.LastTrophies, "baseline seeded from the roster")
}

func TestPollOnce_OneClanFailureDoesNotAbortOthers(t *testing.T) {
	clash := newStubAPI()
	clash.clanErr["#BAD"] = api.ErrRateLimited
	clash.setClan(&api.Clan{
		Tag:     "#GOOD",
		Name:    "Good Clan",
		Members: []api.ClanMember{{Tag: "#CCC", Name: "Carol", Trophies: 5300}},
	})

	clans := memory.NewClanStore()
	snapshots := memory.NewSnapshotStore()
	ctx := context.Background()
	for _, tag := range []string{"#BAD", "#GOOD"} {
		_, err := clans.Add(ctx, tag)
		require.NoError(t, err)
	}

	p := NewClanPoller(clash, clans, snapshots, testMetrics(), testLogger)
	p.PollOnce(ctx)

	tags, err := snapshots.ListAllTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"#CCC"}, tags, "the healthy clan still registers its players")
}

func TestPollOnce_StrictlyAdditive(t *testing.T) {
	clash := newStubAPI()
	clash.setClan(&api.Clan{
		Tag:     "#CLAN",
		Members: []api.ClanMember{{Tag: "#AAA", Name: "Alice", Trophies: 5100}},
	})

	clans := memory.NewClanStore()
	snapshots := memory.NewSnapshotStore()
	ctx := context.Background()
	_, err := clans.Add(ctx, "#CLAN")
	require.NoError(t, err)

	p := NewClanPoller(clash, clans, snapshots, testMetrics(), testLogger)
	p.PollOnce(ctx)

	// Alice leaves the clan; she stays tracked.
	clash.setClan(&api.Clan{
		Tag:     "#CLAN",
		Members: []api.ClanMember{{Tag: "#BBB", Name: "Bob", Trophies: 5250}},
	})
	p.PollOnce(ctx)

	tags, err := snapshots.ListAllTags(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"#AAA", "#BBB"}, tags)
}
