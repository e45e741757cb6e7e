// Package queue defines the contract this service expects from the durable
// job queue: enqueue with a fixed identifier and rejection-on-duplicate,
// delayed delivery, per-task retry and timeout settings, and introspection
// by fixed ID. Delivery is at least once; everything downstream is designed
// to be safe under redelivery.
package queue

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateTask is returned when a task with the same fixed ID is
// already held by the engine in any incomplete state. Callers treat this
// as success: the work is already scheduled.
var ErrDuplicateTask = errors.New("task id already exists")

// Task is one unit of work handed to the engine.
type Task struct {
	Type    string
	Payload []byte

	// ID is an optional fixed identifier. When set, the engine rejects a
	// second enqueue with the same ID while the first is incomplete.
	ID string

	// Delay defers delivery. Zero means deliver as soon as possible.
	Delay time.Duration

	// Timeout bounds one processing attempt. Zero means no limit.
	Timeout time.Duration

	// MaxRetry is the number of retries after the first attempt.
	MaxRetry int
}

type Enqueuer interface {
	// Enqueue submits one task. Returns ErrDuplicateTask on a fixed-ID
	// collision.
	Enqueue(ctx context.Context, t *Task) error

	// EnqueueBatch submits many tasks, skipping fixed-ID collisions, and
	// reports how many were actually enqueued.
	EnqueueBatch(ctx context.Context, tasks []*Task) (int, error)
}

type Inspector interface {
	// HasTask reports whether a task with the given fixed ID exists in any
	// incomplete state (waiting, active, delayed, or awaiting retry).
	HasTask(ctx context.Context, id string) (bool, error)
}
