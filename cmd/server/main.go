package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"legend-tracker/internal/config"
	"legend-tracker/internal/constants"
	"legend-tracker/internal/domain"
	fxmodules "legend-tracker/internal/fx"
	"legend-tracker/internal/monitor"
	"legend-tracker/internal/observability"
	"legend-tracker/internal/queue"
	"legend-tracker/internal/storage"
	"legend-tracker/internal/worker"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runMonitor),
	).Run()
}

func runMonitor(
	lc fx.Lifecycle,
	cfg *config.Config,
	db *sql.DB,
	q *queue.AsynqQueue,
	clans storage.ClanStore,
	scheduler *monitor.Scheduler,
	poller *monitor.ClanPoller,
	srv *worker.Server,
	reg *prometheus.Registry,
	logger zerolog.Logger,
) {
	logger = logger.With().Str("instance_id", uuid.New().String()).Logger()

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.MetricsPort),
		Handler: observability.NewHandler(reg),
	}

	var cancelProducers context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, raw := range cfg.TrackedClans {
				tag := domain.NormalizeTag(raw)
				if _, err := clans.Add(ctx, tag); err != nil {
					logger.Warn().Err(err).Str("clan_tag", tag).Msg("failed to seed tracked clan")
				}
			}

			if err := srv.Start(); err != nil {
				return err
			}

			runCtx, cancel := context.WithCancel(context.Background())
			cancelProducers = cancel
			go scheduler.Run(runCtx)
			go poller.Run(runCtx)

			go func() {
				logger.Info().Str("addr", httpSrv.Addr).Msg("metrics server starting")
				if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("metrics server failed")
				}
			}()

			logger.Info().Msg("legend monitor started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down")

			if cancelProducers != nil {
				cancelProducers()
			}

			// Waits for in-flight evaluations before returning.
			srv.Shutdown()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("metrics server shutdown failed")
			}

			if err := q.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing queue client")
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}
