package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"legend-tracker/internal/domain"
	"legend-tracker/internal/storage"
)

// EventStore implements storage.EventStore on SQLite. Rows are append-only;
// the unique observation index absorbs redelivered work items.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new EventStore.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

var _ storage.EventStore = (*EventStore)(nil)

func (s *EventStore) Append(ctx context.Context, e *domain.TrophyEvent) error {
	if e == nil || e.PlayerTag == "" || e.Diff == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trophy_events (
			player_tag, player_name, clan_tag, type, diff, trophies_result, timestamp, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	clanTag := sql.NullString{String: e.ClanTag, Valid: e.ClanTag != ""}

	res, err := s.db.ExecContext(ctx, query,
		e.PlayerTag,
		e.PlayerName,
		clanTag,
		string(e.Type),
		e.Diff,
		e.TrophiesResult,
		e.Timestamp,
		time.Now().UTC(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("append event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	e.ID = id
	return nil
}

func (s *EventStore) ListByPlayer(ctx context.Context, playerTag string, limit int) ([]*domain.TrophyEvent, error) {
	query := `
		SELECT id, player_tag, player_name, clan_tag, type, diff, trophies_result, timestamp
		FROM trophy_events
		WHERE player_tag = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, playerTag, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list events by player: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *EventStore) ListSince(ctx context.Context, since time.Time, limit int) ([]*domain.TrophyEvent, error) {
	query := `
		SELECT id, player_tag, player_name, clan_tag, type, diff, trophies_result, timestamp
		FROM trophy_events
		WHERE timestamp >= ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, since, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list events since: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*domain.TrophyEvent, error) {
	var events []*domain.TrophyEvent
	for rows.Next() {
		var (
			e       domain.TrophyEvent
			clanTag sql.NullString
			typ     string
		)
		err := rows.Scan(
			&e.ID,
			&e.PlayerTag,
			&e.PlayerName,
			&clanTag,
			&typ,
			&e.Diff,
			&e.TrophiesResult,
			&e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.ClanTag = clanTag.String
		e.Type = domain.EventType(typ)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1 // SQLite: no limit
	}
	return limit
}
