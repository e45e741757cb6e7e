package worker

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Gate enforces the two admission caps on evaluate items: a hard ceiling
// on concurrent items and a ceiling on item starts per second. Both exist
// because the downstream API has an undocumented abuse threshold, and both
// belong to the scheduling layer, not the API client.
type Gate struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewGate creates a gate admitting at most maxConcurrent items at once
// and at most startsPerSec item starts per second. Burst is 1 so starts
// stay evenly spaced instead of clustering at window edges.
func NewGate(maxConcurrent, startsPerSec int) *Gate {
	return &Gate{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		limiter: rate.NewLimiter(rate.Limit(startsPerSec), 1),
	}
}

// Acquire blocks until the item may start or ctx is done. On success the
// caller must Release.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := g.limiter.Wait(ctx); err != nil {
		g.sem.Release(1)
		return err
	}
	return nil
}

func (g *Gate) Release() {
	g.sem.Release(1)
}
