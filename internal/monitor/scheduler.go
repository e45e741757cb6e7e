package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"legend-tracker/internal/constants"
	"legend-tracker/internal/observability"
	"legend-tracker/internal/queue"

	"github.com/rs/zerolog"
)

// Scheduler guarantees that exactly one recurring fan-out trigger exists
// across the whole deployment. The engine's fixed-ID uniqueness is the
// real cross-instance guarantee; the local creating flag only trims
// redundant round-trips within one process.
type Scheduler struct {
	enq      queue.Enqueuer
	insp     queue.Inspector
	metrics  *observability.Metrics
	logger   zerolog.Logger
	creating atomic.Bool
	now      func() time.Time
}

func NewScheduler(enq queue.Enqueuer, insp queue.Inspector, metrics *observability.Metrics, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		enq:     enq,
		insp:    insp,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// EnsureTrigger creates the recurring trigger if no incomplete tick task
// is reachable in the engine. Safe to call concurrently and from multiple
// instances; "already exists" is success.
func (s *Scheduler) EnsureTrigger(ctx context.Context) error {
	exists, err := s.triggerExists(ctx)
	if err != nil {
		return fmt.Errorf("inspect trigger: %w", err)
	}
	if exists {
		return nil
	}

	if !s.creating.CompareAndSwap(false, true) {
		// A concurrent caller in this process is already creating it.
		return nil
	}
	defer s.creating.Store(false)

	// Close the race between the first check and acquiring the flag.
	exists, err = s.triggerExists(ctx)
	if err != nil {
		return fmt.Errorf("inspect trigger: %w", err)
	}
	if exists {
		return nil
	}

	task := &queue.Task{
		Type:     TaskTypeTick,
		ID:       TickTaskID(s.now()),
		MaxRetry: 2,
	}
	err = s.enq.Enqueue(ctx, task)
	if errors.Is(err, queue.ErrDuplicateTask) {
		// Raced another instance; its trigger wins.
		return nil
	}
	if err != nil {
		return fmt.Errorf("create trigger: %w", err)
	}

	s.metrics.TriggerHeals.Inc()
	s.logger.Info().Str("task_id", task.ID).Msg("fan-out trigger created")
	return nil
}

// triggerExists checks the engine for an incomplete tick task. A healthy
// chain holds a task labeled with the current or the next 2-minute slot;
// a tick awaiting retry can still carry the previous slot's ID, so that
// one is checked too. Anything older means the chain is dead.
func (s *Scheduler) triggerExists(ctx context.Context) (bool, error) {
	now := s.now()
	ids := []string{
		TickTaskID(now),
		TickTaskID(now.Add(constants.FanOutTickInterval)),
		TickTaskID(now.Add(-constants.FanOutTickInterval)),
	}
	for _, id := range ids {
		exists, err := s.insp.HasTask(ctx, id)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

// Run creates the trigger eagerly, then re-checks every 5 minutes in case
// it was externally removed. Returns when ctx is cancelled; in-flight work
// items are unaffected.
func (s *Scheduler) Run(ctx context.Context) {
	if err := s.EnsureTrigger(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to create fan-out trigger, will retry on next check")
	}

	ticker := time.NewTicker(constants.TriggerCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.EnsureTrigger(ctx); err != nil {
				s.logger.Error().Err(err).Msg("trigger check failed, will retry on next check")
			}
		}
	}
}
