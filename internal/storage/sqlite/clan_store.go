package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"legend-tracker/internal/storage"
)

// ClanStore implements storage.ClanStore on SQLite.
type ClanStore struct {
	db *sql.DB
}

// NewClanStore creates a new ClanStore.
func NewClanStore(db *sql.DB) *ClanStore {
	return &ClanStore{db: db}
}

var _ storage.ClanStore = (*ClanStore)(nil)

func (s *ClanStore) Add(ctx context.Context, clanTag string) (bool, error) {
	if clanTag == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO tracked_clans (clan_tag, created_at)
		VALUES (?, ?)
		ON CONFLICT (clan_tag) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, clanTag, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("add clan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add clan: %w", err)
	}
	return n > 0, nil
}

func (s *ClanStore) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT clan_tag FROM tracked_clans ORDER BY clan_tag`)
	if err != nil {
		return nil, fmt.Errorf("list clans: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan clan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clans: %w", err)
	}
	return tags, nil
}
