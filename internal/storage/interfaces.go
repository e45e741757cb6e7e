package storage

import (
	"context"
	"time"

	"legend-tracker/internal/domain"
)

// SnapshotStore is the durable record of each tracked player's last known
// state. Rows are created on first discovery and never deleted here.
type SnapshotStore interface {
	// Get retrieves a snapshot by tag. Returns ErrNotFound if not tracked.
	Get(ctx context.Context, playerTag string) (*domain.PlayerSnapshot, error)

	// Upsert writes the current state, last-write-wins. Idempotent.
	Upsert(ctx context.Context, snap *domain.PlayerSnapshot) error

	// Register inserts a new row only if absent. Reports whether a row was
	// created, so callers can count discoveries without double counting.
	// clanTag records where the player was discovered and may be empty;
	// trophies seeds the baseline from the clan roster so the first
	// evaluation does not diff against zero.
	Register(ctx context.Context, playerTag, playerName, clanTag string, trophies int) (bool, error)

	// ListAllTags returns every tracked tag. Safe to call while concurrent
	// upserts occur; point-in-time snapshot semantics are sufficient.
	ListAllTags(ctx context.Context) ([]string, error)
}

// EventStore is the append-only trophy-event ledger.
type EventStore interface {
	// Append inserts one event and assigns its ID. Returns ErrDuplicateKey
	// when (player_tag, timestamp, trophies_result) already exists.
	Append(ctx context.Context, e *domain.TrophyEvent) error

	// ListByPlayer retrieves events for one player, newest first.
	ListByPlayer(ctx context.Context, playerTag string, limit int) ([]*domain.TrophyEvent, error)

	// ListSince retrieves events at or after the given time, newest first.
	ListSince(ctx context.Context, since time.Time, limit int) ([]*domain.TrophyEvent, error)
}

// ClanStore is the registry of clans whose rosters are polled. Rows are
// written by the admin surface; this subsystem reads them and seeds from
// configuration at boot.
type ClanStore interface {
	// Add inserts a clan tag if absent. Reports whether a row was created.
	Add(ctx context.Context, clanTag string) (bool, error)

	// ListTags returns every tracked clan tag.
	ListTags(ctx context.Context) ([]string, error)
}
