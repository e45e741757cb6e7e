package queue

import (
	"context"
	"fmt"
	"sync"
)

// MemoryQueue is an in-process queue implementation used by tests. It
// reproduces the engine behavior the scheduler depends on: fixed-ID
// uniqueness across incomplete tasks.
type MemoryQueue struct {
	mu     sync.Mutex
	tasks  []*Task
	byID   map[string]*Task
	autoID int
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{byID: make(map[string]*Task)}
}

var (
	_ Enqueuer  = (*MemoryQueue)(nil)
	_ Inspector = (*MemoryQueue)(nil)
)

func (q *MemoryQueue) Enqueue(_ context.Context, t *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enqueueLocked(t)
}

func (q *MemoryQueue) enqueueLocked(t *Task) error {
	copy := *t
	if copy.ID == "" {
		q.autoID++
		copy.ID = fmt.Sprintf("auto:%d", q.autoID)
	} else if _, exists := q.byID[copy.ID]; exists {
		return ErrDuplicateTask
	}
	q.byID[copy.ID] = &copy
	q.tasks = append(q.tasks, &copy)
	return nil
}

func (q *MemoryQueue) EnqueueBatch(_ context.Context, tasks []*Task) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	enqueued := 0
	for _, t := range tasks {
		if err := q.enqueueLocked(t); err == ErrDuplicateTask {
			continue
		} else if err != nil {
			return enqueued, err
		}
		enqueued++
	}
	return enqueued, nil
}

func (q *MemoryQueue) HasTask(_ context.Context, id string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.byID[id]
	return ok, nil
}

// Complete removes a task, freeing its fixed ID, as the engine does once
// processing succeeds.
func (q *MemoryQueue) Complete(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.byID, id)
	for i, t := range q.tasks {
		if t.ID == id {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			break
		}
	}
}

// TasksOfType returns copies of all stored tasks of the given type.
func (q *MemoryQueue) TasksOfType(taskType string) []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []*Task
	for _, t := range q.tasks {
		if t.Type == taskType {
			copy := *t
			out = append(out, &copy)
		}
	}
	return out
}

// Len returns the number of stored tasks.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
