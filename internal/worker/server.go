package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"legend-tracker/internal/api"
	"legend-tracker/internal/config"
	"legend-tracker/internal/constants"
	"legend-tracker/internal/monitor"
	"legend-tracker/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Server consumes the monitor queue: fan-out ticks and per-player
// evaluations, under the concurrency and rate caps.
type Server struct {
	srv    *asynq.Server
	fanOut *monitor.FanOut
	proc   *monitor.Processor
	gate   *Gate
	logger zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	fanOut *monitor.FanOut,
	proc *monitor.Processor,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		fanOut: fanOut,
		proc:   proc,
		gate:   NewGate(constants.WorkerConcurrency, constants.WorkerRatePerSec),
		logger: logger,
	}

	s.srv = asynq.NewServer(queue.RedisOpt(cfg), asynq.Config{
		// The Gate holds evaluations to 20; the extra worker makes it
		// likely, not guaranteed, that a tick finds a free slot while
		// evaluations saturate the gate. A tick delayed behind a full
		// house still fires; it is just late within its slot.
		Concurrency: constants.WorkerConcurrency + 1,
		Queues:      map[string]int{constants.QueueName: 1},
		RetryDelayFunc: func(n int, _ error, _ *asynq.Task) time.Duration {
			return constants.RetryBackoffBase << n
		},
		ErrorHandler: asynq.ErrorHandlerFunc(s.handleError),
		Logger:       asynqLogger{logger},
	})

	return s
}

func (s *Server) Start() error {
	return s.srv.Start(asynq.HandlerFunc(s.handleTask))
}

// Shutdown stops dequeueing and waits for in-flight items to finish or
// time out.
func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

func (s *Server) handleTask(ctx context.Context, task *asynq.Task) error {
	switch task.Type() {
	case monitor.TaskTypeTick:
		return s.fanOut.HandleTick(ctx)
	case monitor.TaskTypeEvaluate:
		return s.handleEvaluate(ctx, task)
	default:
		// Fatal for this job only; other jobs are unaffected.
		return fmt.Errorf("unknown task type %q: %w", task.Type(), asynq.SkipRetry)
	}
}

func (s *Server) handleEvaluate(ctx context.Context, task *asynq.Task) error {
	var payload monitor.EvaluatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode evaluate payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.PlayerTag == "" {
		return fmt.Errorf("evaluate payload missing player tag: %w", asynq.SkipRetry)
	}

	if err := s.gate.Acquire(ctx); err != nil {
		return err
	}
	defer s.gate.Release()

	_, err := s.proc.EvaluatePlayer(ctx, payload.PlayerTag)
	return err
}

// handleError keeps rate-limit noise out of the error log; those failures
// still consume a retry attempt with backoff.
func (s *Server) handleError(_ context.Context, task *asynq.Task, err error) {
	if errors.Is(err, api.ErrRateLimited) {
		s.logger.Debug().Str("task_type", task.Type()).Msg("task rate limited, will retry")
		return
	}
	s.logger.Error().Err(err).Str("task_type", task.Type()).Msg("task failed")
}

// asynqLogger adapts zerolog to the engine's logging interface.
type asynqLogger struct {
	logger zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }
