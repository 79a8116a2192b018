package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/api/middleware"
	"github.com/feral-file/tg-mention-indexer/internal/api/server"
	"github.com/feral-file/tg-mention-indexer/internal/api/shared/executor"
	"github.com/feral-file/tg-mention-indexer/internal/config"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
	"github.com/feral-file/tg-mention-indexer/internal/providers/dexscreener"
	"github.com/feral-file/tg-mention-indexer/internal/providers/helius"
	"github.com/feral-file/tg-mention-indexer/internal/ratelimit"
	"github.com/feral-file/tg-mention-indexer/internal/reaper"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "api-server",
		Environment:     cfg.Environment,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Telegram mention indexer API")

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
	metrics.StartDBPoolStatsPump(ctx, sqlDB, 15*time.Second)
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Bool("read_replica", readDSN != ""),
	)

	dataStore := store.NewPGStore(db)

	// Market providers for on-demand indexing
	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimiter, cfg.Worker.WorkerPoolSize*2)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() {
		if err := rateLimitProxy.Close(); err != nil {
			logger.Warn("Failed to close rate limit proxy", zap.Error(err))
		}
	}()

	httpClient := adapter.NewHTTPClient(cfg.Providers.HTTP.Timeout, cfg.Providers.HTTP.RetryPolicy())
	clock := adapter.NewClock()
	market := dexscreener.NewClient(httpClient, rateLimitProxy, cfg.Providers.DexScreener.URL)

	var holders helius.Client
	if cfg.Providers.Helius.APIKey != "" {
		holders = helius.NewClient(httpClient, rateLimitProxy, cfg.Providers.Helius.URL, cfg.Providers.Helius.APIKey)
	}
	refresher := sweeper.NewRefresher(dataStore, market, holders, reaper.NewReaper(dataStore, market, clock, nil), clock, nil)

	indexPool := pond.NewPool(cfg.Worker.WorkerPoolSize)
	defer indexPool.StopAndWait()

	if len(cfg.Auth.APIKeys) == 0 && cfg.Auth.JWTPublicKey == "" {
		logger.WarnCtx(ctx, "No API keys or JWT public key configured, POST /api/v1/tokens/index will reject every request")
	}

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowOrigins: cfg.Server.AllowOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, executor.NewExecutor(dataStore, refresher, indexPool))

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
	}
	cancel()

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("message", "Server forced to shutdown"))
	}

	logger.Info("API server stopped")
}
