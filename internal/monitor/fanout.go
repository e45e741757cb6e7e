package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"legend-tracker/internal/constants"
	"legend-tracker/internal/observability"
	"legend-tracker/internal/queue"
	"legend-tracker/internal/storage"

	"github.com/rs/zerolog"
)

// FanOut handles one trigger firing: re-arm the next tick, enumerate all
// tracked players, enqueue one evaluate item per tag.
type FanOut struct {
	enq       queue.Enqueuer
	snapshots storage.SnapshotStore
	metrics   *observability.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewFanOut(enq queue.Enqueuer, snapshots storage.SnapshotStore, metrics *observability.Metrics, logger zerolog.Logger) *FanOut {
	return &FanOut{
		enq:       enq,
		snapshots: snapshots,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (f *FanOut) HandleTick(ctx context.Context) error {
	f.metrics.FanOutTicks.Inc()
	now := f.now()

	// Re-arm first so a failed enumeration cannot break the chain. The
	// next slot's ID is deterministic, so competing chains merge instead
	// of multiplying.
	next := &queue.Task{
		Type:     TaskTypeTick,
		ID:       TickTaskID(now.Add(constants.FanOutTickInterval)),
		Delay:    constants.FanOutTickInterval,
		MaxRetry: 2,
	}
	if err := f.enq.Enqueue(ctx, next); err != nil && !errors.Is(err, queue.ErrDuplicateTask) {
		f.logger.Error().Err(err).Msg("failed to re-arm fan-out trigger, periodic check will recreate it")
	}

	tags, err := f.snapshots.ListAllTags(ctx)
	if err != nil {
		return fmt.Errorf("enumerate tracked players: %w", err)
	}
	if len(tags) == 0 {
		f.logger.Debug().Msg("no tracked players, fan-out is a no-op")
		return nil
	}

	tasks := make([]*queue.Task, 0, len(tags))
	for _, tag := range tags {
		payload, err := json.Marshal(EvaluatePayload{PlayerTag: tag})
		if err != nil {
			return fmt.Errorf("marshal evaluate payload: %w", err)
		}
		tasks = append(tasks, &queue.Task{
			Type:     TaskTypeEvaluate,
			ID:       EvaluateTaskID(tag, now),
			Payload:  payload,
			Timeout:  constants.EvaluateTimeout,
			MaxRetry: constants.EvaluateMaxAttempts - 1,
		})
	}

	enqueued, err := f.enq.EnqueueBatch(ctx, tasks)
	if err != nil {
		return fmt.Errorf("fan out evaluations: %w", err)
	}

	f.metrics.FanOutSize.Observe(float64(enqueued))
	f.logger.Info().
		Int("players", len(tags)).
		Int("enqueued", enqueued).
		Msg("fan-out tick dispatched")
	return nil
}
