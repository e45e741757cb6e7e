package constants

import "time"

const (
	ClanPollInterval     = 5 * time.Minute
	TriggerCheckInterval = 5 * time.Minute
	FanOutTickInterval   = 2 * time.Minute
)

const (
	WorkerConcurrency = 20
	WorkerRatePerSec  = 20
)

const (
	// EvaluateTimeout bounds a single evaluation; the external API has no
	// inherent timeout and a stuck call must not hold a worker slot.
	EvaluateTimeout     = 45 * time.Second
	EvaluateMaxAttempts = 5
	RetryBackoffBase    = 10 * time.Second
)

const (
	TrophyCacheTTL     = 24 * time.Hour
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	QueueName = "monitor"
)
