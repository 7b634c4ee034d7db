package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rating and ranking engine

var (
	// Game processing
	GamesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbrank_games_processed_total",
			Help: "Total number of games applied to rating state",
		},
		[]string{"outcome"}, // applied | excluded
	)

	RatingDelta = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cfbrank_rating_delta",
			Help:    "Home-side rating delta per processed game",
			Buckets: []float64{-60, -30, -15, -5, 0, 5, 15, 30, 60},
		},
	)

	// Snapshot writes
	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbrank_snapshots_total",
			Help: "Total number of weekly ranking snapshot writes",
		},
		[]string{"status"},
	)

	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cfbrank_snapshot_duration_seconds",
			Help:    "Duration of weekly ranking snapshot writes in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// Predictions
	PredictionsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbrank_predictions_generated_total",
			Help: "Total number of predictions generated",
		},
		[]string{"mode"}, // prospective | retrospective
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfbrank_cache_hits_total",
			Help: "Total number of rankings cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfbrank_cache_misses_total",
			Help: "Total number of rankings cache misses",
		},
	)

	// Database metrics
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbrank_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbrank_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Batch job metrics
	RankingPassTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbrank_ranking_pass_total",
			Help: "Total number of weekly ranking passes",
		},
		[]string{"status"},
	)

	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbrank_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)
)
