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
	"github.com/feral-file/tg-mention-indexer/internal/channel"
	"github.com/feral-file/tg-mention-indexer/internal/config"
	"github.com/feral-file/tg-mention-indexer/internal/ingest"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/mention"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
	"github.com/feral-file/tg-mention-indexer/internal/reach"
	"github.com/feral-file/tg-mention-indexer/internal/registry"
	"github.com/feral-file/tg-mention-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIngestorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "mention-ingestor",
		Environment:     cfg.Environment,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting mention ingestor")

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
	sqlDB, err := db.DB()
	if err != nil {
		logger.FatalCtx(ctx, "Failed to get underlying sql.DB", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Bool("read_replica", readDSN != ""),
	)

	metrics.Serve(ctx, cfg.MetricsAddr)
	metrics.StartDBPoolStatsPump(ctx, sqlDB, 15*time.Second)

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	aggregator := reach.NewAggregator(dataStore)

	var recorderOpts []mention.Option
	if cfg.BlacklistPath != "" {
		blacklist, err := registry.LoadBlacklist(cfg.BlacklistPath)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load blacklist registry", zap.Error(err), zap.String("path", cfg.BlacklistPath))
		}
		recorderOpts = append(recorderOpts, mention.WithBlacklist(blacklist))
		logger.InfoCtx(ctx, "Loaded blacklist registry", zap.String("path", cfg.BlacklistPath), zap.Int("contracts", blacklist.Size()))
	} else {
		logger.WarnCtx(ctx, "Blacklist registry path not configured, all contracts will be recorded")
	}
	recorder := mention.NewRecorder(dataStore, aggregator, clock, recorderOpts...)
	directory := channel.NewDirectory(dataStore, aggregator)

	ing, err := ingest.NewIngestor(ingest.Config{
		URL:             cfg.NATS.URL,
		StreamName:      cfg.NATS.StreamName,
		ConsumerName:    cfg.NATS.ConsumerName,
		MaxReconnects:   cfg.NATS.MaxReconnects,
		ReconnectWait:   cfg.NATS.ReconnectWait,
		ConnectionName:  cfg.NATS.ConnectionName,
		AckWaitTimeout:  cfg.NATS.AckWait,
		MaxDeliver:      cfg.NATS.MaxDeliver,
		NakDelay:        cfg.NATS.NakDelay,
		WorkerPoolSize:  cfg.Worker.WorkerPoolSize,
		WorkerQueueSize: cfg.Worker.WorkerQueueSize,
	}, adapter.NewNatsJetStream(), recorder, directory)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create ingestor", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer ing.Close()
	logger.InfoCtx(ctx, "Connected to NATS",
		zap.String("url", cfg.NATS.URL),
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := ing.Run(ctx); err != nil && ctx.Err() == nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "ingestor"))
	}

	cancel()
	logger.Info("Mention ingestor stopped")
}
