package metrics

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/logger"
)

const namespace = "tg_indexer"

var (
	// Ingestion
	IngestMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "messages_total",
		Help:      "Messages pulled from JetStream by kind and outcome (ack, nak, term)",
	}, []string{"kind", "outcome"})

	MentionsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mention",
		Name:      "recorded_total",
		Help:      "Mentions recorded by chain, split between created, duplicate and ignored",
	}, []string{"chain", "result"})

	TokensCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "token",
		Name:      "created_total",
		Help:      "Tokens discovered for the first time",
	}, []string{"chain"})

	PropagationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "token",
		Name:      "propagations_total",
		Help:      "First mentions of a token in a channel",
	}, []string{"chain"})

	// Reach
	ReachRecomputesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reach",
		Name:      "recomputes_total",
		Help:      "Reach recomputations by trigger and outcome",
	}, []string{"trigger", "outcome"})

	// Refresh and reaper
	RefreshTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "tokens_total",
		Help:      "Tokens visited by the refresh sweeper by outcome",
	}, []string{"outcome"})

	RefreshCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a full refresh cycle",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	})

	// HistorySnapshotsTotal counts token history rows by result: inserted, skipped
	HistorySnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "history",
		Name:      "snapshots_total",
		Help:      "Token history snapshots by result",
	}, []string{"result"})

	ReaperTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reaper",
		Name:      "transitions_total",
		Help:      "Stale token state transitions",
	}, []string{"from", "to"})

	// API
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "API request duration by route and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Database pool
	DBPoolOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "postgres",
		Name:      "db_pool_open",
		Help:      "Current number of open PostgreSQL connections in the pool",
	})

	DBPoolInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "postgres",
		Name:      "db_pool_in_use",
		Help:      "Current number of in-use PostgreSQL connections in the pool",
	})

	DBPoolIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "postgres",
		Name:      "db_pool_idle",
		Help:      "Current number of idle PostgreSQL connections in the pool",
	})

	DBPoolWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "postgres",
		Name:      "db_pool_wait_count",
		Help:      "Cumulative count of waits for PostgreSQL connections from pool",
	})
)

// DBStatsProvider is satisfied by *sql.DB
type DBStatsProvider interface {
	Stats() sql.DBStats
}

// CollectDBPoolStats copies the pool stats into the gauges
func CollectDBPoolStats(db DBStatsProvider) {
	stats := db.Stats()
	DBPoolOpen.Set(float64(stats.OpenConnections))
	DBPoolInUse.Set(float64(stats.InUse))
	DBPoolIdle.Set(float64(stats.Idle))
	DBPoolWaitCount.Set(float64(stats.WaitCount))
}

// StartDBPoolStatsPump samples the pool stats every interval until ctx is done
func StartDBPoolStatsPump(ctx context.Context, db DBStatsProvider, interval time.Duration) {
	if db == nil || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		CollectDBPoolStats(db)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CollectDBPoolStats(db)
			}
		}
	}()
}

// Serve exposes /metrics on addr until ctx is done
func Serve(ctx context.Context, addr string) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown error", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("Serving metrics", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, zap.String("addr", addr))
		}
	}()
}
