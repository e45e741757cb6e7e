package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the monitor's Prometheus metrics. Telemetry is incidental
// observability; no business decision reads these.
type Metrics struct {
	EvaluationsTotal  *prometheus.CounterVec
	EvaluateDuration  prometheus.Histogram
	TrophyEventsTotal *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec

	FanOutSize   prometheus.Histogram
	FanOutTicks  prometheus.Counter
	TriggerHeals prometheus.Counter

	ClanPollDuration  prometheus.Histogram
	ClanPollFailures  prometheus.Counter
	PlayersDiscovered prometheus.Counter
}

// NewMetrics creates and registers all metrics on the given registerer.
// Tests pass a throwaway registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		EvaluationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "legend_evaluations_total",
			Help: "Player evaluations by result",
		}, []string{"result"}),

		EvaluateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "legend_evaluate_duration_seconds",
			Help:    "Wall time of one player evaluation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 45},
		}),

		TrophyEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "legend_trophy_events_total",
			Help: "Trophy events appended, by type",
		}, []string{"type"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "legend_cache_lookups_total",
			Help: "Trophy cache lookups by outcome",
		}, []string{"outcome"}),

		FanOutSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "legend_fanout_size",
			Help:    "Players enqueued per fan-out tick",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),

		FanOutTicks: f.NewCounter(prometheus.CounterOpts{
			Name: "legend_fanout_ticks_total",
			Help: "Fan-out ticks processed",
		}),

		TriggerHeals: f.NewCounter(prometheus.CounterOpts{
			Name: "legend_trigger_creations_total",
			Help: "Times the recurring trigger was (re)created",
		}),

		ClanPollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "legend_clan_poll_duration_seconds",
			Help:    "Wall time of one full clan poll pass",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}),

		ClanPollFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "legend_clan_poll_failures_total",
			Help: "Clan fetches that failed and were skipped",
		}),

		PlayersDiscovered: f.NewCounter(prometheus.CounterOpts{
			Name: "legend_players_discovered_total",
			Help: "New players registered from clan rosters",
		}),
	}
}
