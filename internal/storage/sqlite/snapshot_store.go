package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"legend-tracker/internal/domain"
	"legend-tracker/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore on SQLite.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

func (s *SnapshotStore) Get(ctx context.Context, playerTag string) (*domain.PlayerSnapshot, error) {
	query := `
		SELECT player_tag, player_name, last_trophies, last_attack_wins, updated_at
		FROM players
		WHERE player_tag = ?
	`

	var snap domain.PlayerSnapshot
	err := s.db.QueryRowContext(ctx, query, playerTag).Scan(
		&snap.PlayerTag,
		&snap.PlayerName,
		&snap.LastTrophies,
		&snap.LastAttackWins,
		&snap.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

func (s *SnapshotStore) Upsert(ctx context.Context, snap *domain.PlayerSnapshot) error {
	if snap == nil || snap.PlayerTag == "" {
		return storage.ErrInvalidInput
	}

	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO players (player_tag, player_name, last_trophies, last_attack_wins, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (player_tag) DO UPDATE SET
			player_name      = excluded.player_name,
			last_trophies    = excluded.last_trophies,
			last_attack_wins = excluded.last_attack_wins,
			updated_at       = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		snap.PlayerTag,
		snap.PlayerName,
		snap.LastTrophies,
		snap.LastAttackWins,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Register(ctx context.Context, playerTag, playerName, clanTag string, trophies int) (bool, error) {
	if playerTag == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO players (player_tag, player_name, clan_tag, last_trophies, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (player_tag) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, playerTag, playerName, clanTag, trophies, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("register player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("register player: %w", err)
	}
	return n > 0, nil
}

func (s *SnapshotStore) ListAllTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT player_tag FROM players`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
