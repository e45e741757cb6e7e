package queue

import (
	"context"
	"errors"
	"fmt"

	"legend-tracker/internal/config"
	"legend-tracker/internal/constants"

	"github.com/hibiken/asynq"
)

// AsynqQueue adapts the asynq engine to the queue contract. Uniqueness of
// fixed IDs is enforced atomically by the engine itself, which is the true
// cross-instance guarantee.
type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	qname     string
}

func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
}

func NewAsynqQueue(cfg *config.Config) *AsynqQueue {
	opt := RedisOpt(cfg)
	return &AsynqQueue{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		qname:     constants.QueueName,
	}
}

var (
	_ Enqueuer  = (*AsynqQueue)(nil)
	_ Inspector = (*AsynqQueue)(nil)
)

func (q *AsynqQueue) Enqueue(ctx context.Context, t *Task) error {
	opts := []asynq.Option{
		asynq.Queue(q.qname),
		asynq.MaxRetry(t.MaxRetry),
	}
	if t.ID != "" {
		opts = append(opts, asynq.TaskID(t.ID))
	}
	if t.Delay > 0 {
		opts = append(opts, asynq.ProcessIn(t.Delay))
	}
	if t.Timeout > 0 {
		opts = append(opts, asynq.Timeout(t.Timeout))
	}

	_, err := q.client.EnqueueContext(ctx, asynq.NewTask(t.Type, t.Payload), opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return ErrDuplicateTask
		}
		return fmt.Errorf("enqueue %s: %w", t.Type, err)
	}
	return nil
}

func (q *AsynqQueue) EnqueueBatch(ctx context.Context, tasks []*Task) (int, error) {
	enqueued := 0
	for _, t := range tasks {
		err := q.Enqueue(ctx, t)
		if errors.Is(err, ErrDuplicateTask) {
			continue
		}
		if err != nil {
			return enqueued, err
		}
		enqueued++
	}
	return enqueued, nil
}

func (q *AsynqQueue) HasTask(_ context.Context, id string) (bool, error) {
	info, err := q.inspector.GetTaskInfo(q.qname, id)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("inspect task %s: %w", id, err)
	}

	switch info.State {
	case asynq.TaskStatePending, asynq.TaskStateActive, asynq.TaskStateScheduled, asynq.TaskStateRetry:
		return true, nil
	default:
		// Archived or completed tasks no longer hold the trigger slot.
		return false, nil
	}
}

func (q *AsynqQueue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	return q.inspector.Close()
}
