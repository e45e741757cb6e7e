package worker

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Drives a synthetic load through the gate and verifies both caps hold:
// never more than maxConcurrent in flight, never more than startsPerSec
// starts inside any sliding one-second window.
func TestGate_Bounds(t *testing.T) {
	if testing.Short() {
		t.Skip("timing-sensitive load test")
	}

	const (
		items         = 200
		maxConcurrent = 20
		startsPerSec  = 20
	)

	gate := NewGate(maxConcurrent, startsPerSec)

	var (
		inFlight    atomic.Int64
		maxInFlight atomic.Int64
		mu          sync.Mutex
		starts      []time.Time
		wg          sync.WaitGroup
	)

	for i := 0; i < items; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			require.NoError(t, gate.Acquire(context.Background()))
			defer gate.Release()

			now := time.Now()
			mu.Lock()
			starts = append(starts, now)
			mu.Unlock()

			cur := inFlight.Add(1)
			for {
				max := maxInFlight.Load()
				if cur <= max || maxInFlight.CompareAndSwap(max, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, maxInFlight.Load(), int64(maxConcurrent),
		"concurrency cap violated")

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	for i := range starts {
		j := i
		for j < len(starts) && starts[j].Sub(starts[i]) < time.Second {
			j++
		}
		// Allow one extra for timer scheduling jitter at the window edge.
		require.LessOrEqual(t, j-i, startsPerSec+1,
			"too many starts within a sliding 1s window")
	}
}

func TestGate_AcquireRespectsContext(t *testing.T) {
	gate := NewGate(1, 1)

	require.NoError(t, gate.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := gate.Acquire(ctx)
	require.Error(t, err, "second acquire must fail once the slot is held and ctx expires")

	gate.Release()
}
