package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_FixedIDRejection(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, &Task{Type: "work", ID: "fixed"}))

	err := q.Enqueue(ctx, &Task{Type: "work", ID: "fixed"})
	require.ErrorIs(t, err, ErrDuplicateTask)

	exists, err := q.HasTask(ctx, "fixed")
	require.NoError(t, err)
	assert.True(t, exists)

	// Completion frees the ID for the next cycle.
	q.Complete("fixed")
	exists, err = q.HasTask(ctx, "fixed")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, q.Enqueue(ctx, &Task{Type: "work", ID: "fixed"}))
}

func TestMemoryQueue_BatchSkipsDuplicates(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, &Task{Type: "work", ID: "a"}))

	n, err := q.EnqueueBatch(ctx, []*Task{
		{Type: "work", ID: "a"},
		{Type: "work", ID: "b"},
		{Type: "work"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, q.Len())
}
