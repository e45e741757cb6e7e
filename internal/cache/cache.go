// Package cache fronts the snapshot store with a TTL'd trophy mirror.
// It is a pure performance optimization: every failure is treated as a
// miss or a no-op and the caller falls back to the store.
package cache

import "context"

// TrophyCache is the fail-open trophy mirror. Implementations never
// return errors; unavailability is reported as a miss.
type TrophyCache interface {
	// GetTrophies returns the cached trophy count and whether it was a hit.
	GetTrophies(ctx context.Context, playerTag string) (int, bool)

	// SetTrophies writes through the current trophy count. Failures are
	// swallowed.
	SetTrophies(ctx context.Context, playerTag string, trophies int)
}
