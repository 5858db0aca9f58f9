package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Wallet metrics
	WalletsOpened        prometheus.Counter
	TransactionsRecorded *prometheus.CounterVec
	RejectedOutcomes     prometheus.Counter
	TransactionAmount    prometheus.Histogram
	TransactionDuration  prometheus.Histogram
	WalletErrors         *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns  prometheus.Counter
	ReconciliationDrift prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisDuration   *prometheus.HistogramVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Wallet metrics
		WalletsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallets_opened_total",
			Help: "Total number of wallets opened",
		}),
		TransactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transactions_recorded_total",
				Help: "Total number of transactions recorded by direction",
			},
			[]string{"direction"},
		),
		RejectedOutcomes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_rejected_outcomes_total",
			Help: "Total number of outcome transactions rejected for insufficient funds",
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_transaction_duration_seconds",
			Help:    "Duration of transaction recording",
			Buckets: prometheus.DefBuckets,
		}),
		WalletErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_wallet_errors_total",
				Help: "Total number of wallet operation errors by type",
			},
			[]string{"error_type"},
		),

		// Reconciliation metrics
		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_reconciliation_runs_total",
			Help: "Total number of reconciliation checks performed",
		}),
		ReconciliationDrift: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_reconciliation_drift_total",
			Help: "Total number of wallets found with drifted totals",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_db_query_duration_seconds",
				Help:    "Duration of database queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_db_connections",
			Help: "Number of active database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_db_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_redis_operations_total",
				Help: "Total number of Redis operations",
			},
			[]string{"operation"},
		),
		RedisDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_redis_operation_duration_seconds",
				Help:    "Duration of Redis operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_redis_errors_total",
				Help: "Total number of Redis errors",
			},
			[]string{"operation"},
		),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_outbox_published_total",
			Help: "Total number of outbox events published",
		}),
		OutboxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_outbox_failures_total",
			Help: "Total number of outbox publish failures",
		}),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"endpoint"},
		),
	}
}
