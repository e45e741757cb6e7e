package worker

import (
	"context"
	"testing"

	"legend-tracker/internal/config"
	"legend-tracker/internal/monitor"
	"legend-tracker/internal/observability"
	"legend-tracker/internal/queue"
	"legend-tracker/internal/storage/memory"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(fanOut *monitor.FanOut) *Server {
	cfg := &config.Config{RedisAddr: "127.0.0.1:6379"}
	return NewServer(cfg, fanOut, nil, zerolog.Nop())
}

func TestHandleTask_UnknownTypeIsFatalForThatJobOnly(t *testing.T) {
	s := newTestServer(nil)

	err := s.handleTask(context.Background(), asynq.NewTask("monitor:bogus", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry, "unknown task types must not retry")
}

func TestHandleTask_MalformedEvaluatePayloadSkipsRetry(t *testing.T) {
	s := newTestServer(nil)
	ctx := context.Background()

	err := s.handleTask(ctx, asynq.NewTask(monitor.TaskTypeEvaluate, []byte("{not json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = s.handleTask(ctx, asynq.NewTask(monitor.TaskTypeEvaluate, []byte(`{}`)))
	require.Error(t, err, "a payload without a player tag is undeliverable")
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleTask_DispatchesTick(t *testing.T) {
	q := queue.NewMemoryQueue()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	fanOut := monitor.NewFanOut(q, memory.NewSnapshotStore(), metrics, zerolog.Nop())

	s := newTestServer(fanOut)

	require.NoError(t, s.handleTask(context.Background(), asynq.NewTask(monitor.TaskTypeTick, nil)))
	assert.Len(t, q.TasksOfType(monitor.TaskTypeTick), 1, "the handled tick re-arms the chain")
}
