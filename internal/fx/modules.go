package fx

import (
	"database/sql"

	"legend-tracker/internal/api"
	"legend-tracker/internal/cache"
	"legend-tracker/internal/config"
	"legend-tracker/internal/database"
	"legend-tracker/internal/logger"
	"legend-tracker/internal/monitor"
	"legend-tracker/internal/observability"
	"legend-tracker/internal/queue"
	"legend-tracker/internal/storage"
	sqlitestore "legend-tracker/internal/storage/sqlite"
	"legend-tracker/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideSnapshotStore(db *sql.DB) storage.SnapshotStore {
	return sqlitestore.NewSnapshotStore(db)
}

func ProvideEventStore(db *sql.DB) storage.EventStore {
	return sqlitestore.NewEventStore(db)
}

func ProvideClanStore(db *sql.DB) storage.ClanStore {
	return sqlitestore.NewClanStore(db)
}

func ProvideTrophyCache(rdb *redis.Client, log zerolog.Logger) cache.TrophyCache {
	return cache.NewRedisCache(rdb, log)
}

func ProvideQueue(cfg *config.Config) (*queue.AsynqQueue, queue.Enqueuer, queue.Inspector) {
	q := queue.NewAsynqQueue(cfg)
	return q, q, q
}

func ProvideClashAPI(cfg *config.Config) monitor.ClashAPI {
	return api.NewClashClient(cfg)
}

func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func ProvideMetrics(reg *prometheus.Registry) *observability.Metrics {
	return observability.NewMetrics(reg)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// stores
	fx.Provide(ProvideSnapshotStore),
	fx.Provide(ProvideEventStore),
	fx.Provide(ProvideClanStore),
	// cache
	fx.Provide(cache.NewRedisClient),
	fx.Provide(ProvideTrophyCache),
	// queue engine
	fx.Provide(ProvideQueue),
	// api client
	fx.Provide(ProvideClashAPI),
	// observability
	fx.Provide(ProvideRegistry),
	fx.Provide(ProvideMetrics),
	// monitor
	fx.Provide(monitor.NewScheduler),
	fx.Provide(monitor.NewFanOut),
	fx.Provide(monitor.NewProcessor),
	fx.Provide(monitor.NewClanPoller),
	// worker
	fx.Provide(worker.NewServer),
)
