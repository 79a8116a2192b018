package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
	"github.com/feral-file/tg-mention-indexer/internal/providers/dexscreener"
	"github.com/feral-file/tg-mention-indexer/internal/providers/helius"
	"github.com/feral-file/tg-mention-indexer/internal/reaper"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

const (
	DEFAULT_REFRESH_INTERVAL = 5 * time.Minute
	DEFAULT_BATCH_SIZE       = 100
	DEFAULT_WORKER_POOL_SIZE = 5
)

// Outcome is what refreshing one token did
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeSuspected Outcome = "suspected"
	OutcomeDeleted   Outcome = "deleted"
)

// Refresher refreshes the market data of a single token
//
//go:generate mockgen -source=refresh.go -destination=../mocks/refresher.go -package=mocks -mock_names=Refresher=MockRefresher
type Refresher interface {
	// Refresh looks the token up on the market source and applies the result.
	// An empty result hands the token to the reaper.
	Refresh(ctx context.Context, token *schema.Token) (Outcome, *schema.Token, error)
}

type refresher struct {
	store      store.Store
	market     dexscreener.Client
	holders    helius.Client
	reaper     reaper.Reaper
	clock      adapter.Clock
	newBackOff store.BackOffFactory
}

// NewRefresher creates a token refresher. holders may be nil to skip holder counts.
func NewRefresher(
	st store.Store,
	market dexscreener.Client,
	holders helius.Client,
	rp reaper.Reaper,
	clock adapter.Clock,
	newBackOff store.BackOffFactory,
) Refresher {
	return &refresher{
		store:      st,
		market:     market,
		holders:    holders,
		reaper:     rp,
		clock:      clock,
		newBackOff: newBackOff,
	}
}

func (r *refresher) Refresh(ctx context.Context, token *schema.Token) (Outcome, *schema.Token, error) {
	profile, err := r.market.GetTokenProfile(ctx, token.Chain, token.ContractAddress)

	switch reaper.Classify(err) {
	case reaper.Found:
		return r.apply(ctx, token, profile)

	case reaper.Empty:
		outcome, err := r.reaper.Confirm(ctx, token)
		if err != nil {
			return OutcomeFailed, nil, fmt.Errorf("failed to confirm stale token: %w", err)
		}
		switch outcome.State {
		case reaper.StateActive:
			return r.apply(ctx, token, outcome.Profile)
		case reaper.StateDeleted:
			return OutcomeDeleted, nil, nil
		default:
			return OutcomeSuspected, nil, nil
		}

	default:
		if errors.Is(err, domain.ErrUnsupportedChain) || errors.Is(err, context.Canceled) {
			return OutcomeSkipped, nil, err
		}
		return OutcomeFailed, nil, fmt.Errorf("failed to fetch market profile: %w", err)
	}
}

func (r *refresher) apply(ctx context.Context, token *schema.Token, profile *dexscreener.MarketProfile) (Outcome, *schema.Token, error) {
	input := RefreshInput(profile, r.clock.Now())

	if r.holders != nil && token.Chain == domain.ChainSolana {
		count, err := r.holders.GetHoldersCount(ctx, token.ContractAddress)
		switch {
		case err == nil:
			input.HoldersCount = &count
		case errors.Is(err, helius.ErrNoAPIKey):
		default:
			logger.WarnCtx(ctx, "Failed to fetch holders count",
				zap.Int64("tokenID", token.ID),
				zap.Error(err))
		}
	}

	var updated *schema.Token
	err := store.RetryWrite(ctx, r.newBackOff, "apply market refresh", func() error {
		var err error
		updated, err = r.store.ApplyMarketRefresh(ctx, token.ID, input)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return OutcomeSkipped, nil, nil
		}
		return OutcomeFailed, nil, err
	}

	return OutcomeUpdated, updated, nil
}

// RefreshInput converts a market profile into the store refresh fields
func RefreshInput(profile *dexscreener.MarketProfile, at time.Time) store.MarketRefreshInput {
	if profile == nil {
		return store.MarketRefreshInput{RefreshedAt: at}
	}
	return store.MarketRefreshInput{
		Symbol:         profile.Symbol,
		Name:           profile.Name,
		ImageURL:       profile.ImageURL,
		Website:        profile.Website,
		Twitter:        profile.Twitter,
		Telegram:       profile.Telegram,
		MarketCap:      profile.MarketCap,
		Price:          profile.Price,
		Liquidity:      profile.Liquidity,
		Volume1h:       profile.Volume1h,
		Volume24h:      profile.Volume24h,
		PriceChange24h: profile.PriceChange24h,
		Buys1h:         profile.Buys1h,
		Sells1h:        profile.Sells1h,
		DexScreenerURL: profile.URL,
		RefreshedAt:    at,
	}
}

// MarketRefreshSweeperConfig holds configuration for the market refresh sweeper
type MarketRefreshSweeperConfig struct {
	Interval       time.Duration // Time to sleep between cycles
	BatchSize      int           // Tokens read per page
	WorkerPoolSize int           // Concurrent refreshes
}

// CycleResult counts what one cycle did
type CycleResult struct {
	CycleID   string
	Total     int64
	Updated   int64
	Failed    int64
	Skipped   int64
	Suspected int64
	Deleted   int64
}

type cycleCounters struct {
	total, updated, failed, skipped, suspected, deleted atomic.Int64
}

func (c *cycleCounters) add(o Outcome) {
	c.total.Add(1)
	switch o {
	case OutcomeUpdated:
		c.updated.Add(1)
	case OutcomeFailed:
		c.failed.Add(1)
	case OutcomeSkipped:
		c.skipped.Add(1)
	case OutcomeSuspected:
		c.suspected.Add(1)
	case OutcomeDeleted:
		c.deleted.Add(1)
	}
}

// marketRefreshSweeper implements the Sweeper interface for market refreshes
type marketRefreshSweeper struct {
	config    MarketRefreshSweeperConfig
	store     store.Store
	refresher Refresher
	clock     adapter.Clock
	pool      pond.Pool
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// MarketRefreshSweeper is a Sweeper that can also run a single cycle on demand
type MarketRefreshSweeper interface {
	Sweeper
	// RunCycle refreshes every token once
	RunCycle(ctx context.Context) (*CycleResult, error)
}

// NewMarketRefreshSweeper creates a new market refresh sweeper
func NewMarketRefreshSweeper(config MarketRefreshSweeperConfig, st store.Store, refresher Refresher, clock adapter.Clock) MarketRefreshSweeper {
	if config.Interval <= 0 {
		config.Interval = DEFAULT_REFRESH_INTERVAL
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DEFAULT_BATCH_SIZE
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}

	return &marketRefreshSweeper{
		config:    config,
		store:     st,
		refresher: refresher,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *marketRefreshSweeper) Name() string {
	return "market-refresh-sweeper"
}

// Start runs a cycle, sleeps for the interval and repeats until stopped
func (s *marketRefreshSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting market refresh sweeper",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
	)

	for {
		if _, err := s.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err)
		}

		if !s.sleep(ctx, s.config.Interval) {
			logger.InfoCtx(ctx, "Market refresh sweeper stopping")
			return nil
		}
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *marketRefreshSweeper) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping market refresh sweeper")
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Market refresh sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Market refresh sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// RunCycle pages through every token by id and refreshes each one on the worker pool.
// A failing token is counted and logged, the rest of the batch continues.
func (s *marketRefreshSweeper) RunCycle(ctx context.Context) (*CycleResult, error) {
	cycleID := ulid.Make().String()
	ctx = logger.WithContext(ctx, zap.String("cycle_id", cycleID))
	startTime := s.clock.Now()
	logger.InfoCtx(ctx, "Starting refresh cycle")

	pool := pond.NewPool(s.config.WorkerPoolSize, pond.WithContext(ctx))
	defer pool.StopAndWait()

	var counters cycleCounters
	var afterID int64
	var cycleErr error

	for {
		if s.stopped() {
			break
		}

		tokens, err := s.store.ListTokensAfterID(ctx, afterID, s.config.BatchSize)
		if err != nil {
			cycleErr = fmt.Errorf("failed to list tokens: %w", err)
			break
		}
		if len(tokens) == 0 {
			break
		}

		group := pool.NewGroup()
		for i := range tokens {
			token := tokens[i]
			group.Submit(func() {
				outcome, _, err := s.refresher.Refresh(ctx, &token)
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.WarnCtx(ctx, "Token refresh failed",
						zap.Int64("tokenID", token.ID),
						zap.String("chain", string(token.Chain)),
						zap.String("contract", token.ContractAddress),
						zap.String("outcome", string(outcome)),
						zap.Error(err))
				}
				metrics.RefreshTokensTotal.WithLabelValues(string(outcome)).Inc()
				counters.add(outcome)
			})
		}
		if err := group.Wait(); err != nil {
			cycleErr = err
			break
		}

		afterID = tokens[len(tokens)-1].ID
		if len(tokens) < s.config.BatchSize {
			break
		}
	}

	result := &CycleResult{
		CycleID:   cycleID,
		Total:     counters.total.Load(),
		Updated:   counters.updated.Load(),
		Failed:    counters.failed.Load(),
		Skipped:   counters.skipped.Load(),
		Suspected: counters.suspected.Load(),
		Deleted:   counters.deleted.Load(),
	}

	duration := s.clock.Since(startTime)
	metrics.RefreshCycleDuration.Observe(duration.Seconds())
	logger.InfoCtx(ctx, "Refresh cycle completed",
		zap.Duration("duration", duration),
		zap.Int64("total", result.Total),
		zap.Int64("updated", result.Updated),
		zap.Int64("failed", result.Failed),
		zap.Int64("skipped", result.Skipped),
		zap.Int64("suspected", result.Suspected),
		zap.Int64("deleted", result.Deleted),
	)

	return result, cycleErr
}

func (s *marketRefreshSweeper) stopped() bool {
	select {
	case <-s.stopChan:
		return true
	default:
		return false
	}
}

// sleep returns false when interrupted by the context or a stop request
func (s *marketRefreshSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
