package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/config"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
	"github.com/feral-file/tg-mention-indexer/internal/providers/dexscreener"
	"github.com/feral-file/tg-mention-indexer/internal/providers/helius"
	"github.com/feral-file/tg-mention-indexer/internal/ratelimit"
	"github.com/feral-file/tg-mention-indexer/internal/reach"
	"github.com/feral-file/tg-mention-indexer/internal/reaper"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/sweeper"
)

var (
	configFile    = flag.String("config", "", "Path to configuration file")
	envPath       = flag.String("env", "config/", "Path to environment files")
	once          = flag.Bool("once", false, "Run a single refresh cycle and exit")
	reachBackfill = flag.Bool("reach-backfill", false, "Recompute spread_count and community_reach for every token and exit")
	snapshotNow   = flag.Bool("history-snapshot", false, "Snapshot every token into token_history under the current hour and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadRefresherConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "market-refresher",
		Environment:     cfg.Environment,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting market refresher")

	// Connect to database
	readDSN := ""
	if cfg.Database.ReadHost != "" {
		readDSN = cfg.Database.ReadDSN()
	}
	db, err := store.Open(cfg.Database.DSN(), readDSN, cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	if *reachBackfill {
		result, err := reach.NewAggregator(dataStore).RecomputeAll(ctx)
		if err != nil {
			logger.FatalCtx(ctx, "Reach backfill failed", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Reach backfill finished", zap.Int("total", result.Total), zap.Int("failed", result.Failed))
		return
	}

	clock := adapter.NewClock()
	historySweeper := sweeper.NewHistorySnapshotSweeper(sweeper.HistorySnapshotSweeperConfig{
		Hours:     cfg.History.Hours,
		BatchSize: cfg.History.BatchSize,
	}, dataStore, clock)

	if *snapshotNow {
		result, err := historySweeper.RunSnapshot(ctx, clock.Now().Truncate(time.Hour))
		if err != nil {
			logger.FatalCtx(ctx, "History snapshot failed", zap.Error(err))
		}
		logger.InfoCtx(ctx, "History snapshot finished",
			zap.Time("snapshot_at", result.SnapshotAt),
			zap.Int64("total", result.Total),
			zap.Int64("inserted", result.Inserted),
		)
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.FatalCtx(ctx, "Failed to get underlying sql.DB", zap.Error(err))
	}
	metrics.Serve(ctx, cfg.MetricsAddr)
	metrics.StartDBPoolStatsPump(ctx, sqlDB, 15*time.Second)

	// Rate limited market providers
	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimiter, cfg.Sweeper.Worker.WorkerPoolSize*2)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() {
		if err := rateLimitProxy.Close(); err != nil {
			logger.Warn("Failed to close rate limit proxy", zap.Error(err))
		}
	}()

	httpClient := adapter.NewHTTPClient(cfg.Providers.HTTP.Timeout, cfg.Providers.HTTP.RetryPolicy())
	market := dexscreener.NewClient(httpClient, rateLimitProxy, cfg.Providers.DexScreener.URL)

	var holders helius.Client
	if cfg.Providers.Helius.APIKey != "" {
		holders = helius.NewClient(httpClient, rateLimitProxy, cfg.Providers.Helius.URL, cfg.Providers.Helius.APIKey)
	} else {
		logger.WarnCtx(ctx, "Helius API key not configured, holder counts will not be refreshed")
	}

	stale := reaper.NewReaper(dataStore, market, clock, nil)
	refresher := sweeper.NewRefresher(dataStore, market, holders, stale, clock, nil)
	refreshSweeper := sweeper.NewMarketRefreshSweeper(sweeper.MarketRefreshSweeperConfig{
		Interval:       cfg.Sweeper.Interval,
		BatchSize:      cfg.Sweeper.BatchSize,
		WorkerPoolSize: cfg.Sweeper.Worker.WorkerPoolSize,
	}, dataStore, refresher, clock)

	if *once {
		result, err := refreshSweeper.RunCycle(ctx)
		if err != nil {
			logger.FatalCtx(ctx, "Refresh cycle failed", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Refresh cycle finished",
			zap.Int64("total", result.Total),
			zap.Int64("updated", result.Updated),
			zap.Int64("failed", result.Failed),
			zap.Int64("suspected", result.Suspected),
			zap.Int64("deleted", result.Deleted),
		)
		return
	}

	logger.InfoCtx(ctx, "Initialized market refresh sweeper",
		zap.Duration("interval", cfg.Sweeper.Interval),
		zap.Int("batch_size", cfg.Sweeper.BatchSize),
		zap.Int("worker_pool_size", cfg.Sweeper.Worker.WorkerPoolSize),
	)

	sweepers := []sweeper.Sweeper{refreshSweeper}
	if cfg.History.Enabled {
		sweepers = append(sweepers, historySweeper)
		logger.InfoCtx(ctx, "Initialized history snapshot sweeper",
			zap.Ints("hours", cfg.History.Hours),
			zap.Int("batch_size", cfg.History.BatchSize),
		)
	}

	errChan := make(chan error, len(sweepers))
	for _, sw := range sweepers {
		go func(sw sweeper.Sweeper) {
			if err := sw.Start(ctx); err != nil {
				errChan <- fmt.Errorf("%s: %w", sw.Name(), err)
			}
		}(sw)
	}

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	for _, sw := range sweepers {
		if err := sw.Stop(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, err)
		}
	}
	logger.Info("Market refresher stopped")
}
