package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

const DEFAULT_HISTORY_BATCH_SIZE = 500

// DEFAULT_SNAPSHOT_HOURS are the UTC hours a snapshot is taken at
var DEFAULT_SNAPSHOT_HOURS = []int{0, 12}

// HistorySnapshotSweeperConfig holds configuration for the token history sweeper
type HistorySnapshotSweeperConfig struct {
	Hours     []int // UTC hours of day to snapshot at
	BatchSize int   // Tokens read and inserted per page
}

// SnapshotResult counts what one snapshot run did
type SnapshotResult struct {
	SnapshotAt time.Time
	Total      int64
	Inserted   int64
}

// HistorySnapshotSweeper is a Sweeper that can also take a single snapshot on demand
type HistorySnapshotSweeper interface {
	Sweeper
	// RunSnapshot copies every token into token_history under the slot at
	RunSnapshot(ctx context.Context, at time.Time) (*SnapshotResult, error)
}

type historySnapshotSweeper struct {
	config    HistorySnapshotSweeperConfig
	store     store.Store
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewHistorySnapshotSweeper creates a token history sweeper
func NewHistorySnapshotSweeper(config HistorySnapshotSweeperConfig, st store.Store, clock adapter.Clock) HistorySnapshotSweeper {
	config.Hours = normalizeHours(config.Hours)
	if config.BatchSize <= 0 {
		config.BatchSize = DEFAULT_HISTORY_BATCH_SIZE
	}

	return &historySnapshotSweeper{
		config:    config,
		store:     st,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// normalizeHours drops out of range and duplicate hours and sorts the rest
func normalizeHours(hours []int) []int {
	seen := make(map[int]struct{}, len(hours))
	var out []int
	for _, h := range hours {
		if h < 0 || h > 23 {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	if len(out) == 0 {
		return append([]int(nil), DEFAULT_SNAPSHOT_HOURS...)
	}
	sort.Ints(out)
	return out
}

// NextSnapshotAt returns the first slot strictly after now. hours must be sorted.
func NextSnapshotAt(now time.Time, hours []int) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, h := range hours {
		if slot := day.Add(time.Duration(h) * time.Hour); slot.After(now) {
			return slot
		}
	}
	return day.AddDate(0, 0, 1).Add(time.Duration(hours[0]) * time.Hour)
}

// SnapshotFromToken copies the token's current market fields and counters
func SnapshotFromToken(token *schema.Token, at time.Time) schema.TokenHistory {
	snapshot := schema.TokenHistory{
		TokenID:        token.ID,
		Symbol:         token.Symbol,
		SnapshotAt:     at,
		MarketCap:      token.MarketCap,
		Price:          token.Price,
		Liquidity:      token.Liquidity,
		Volume1h:       token.Volume1h,
		Volume24h:      token.Volume24h,
		HoldersCount:   token.HoldersCount,
		Buys1h:         token.Buys1h,
		Sells1h:        token.Sells1h,
		CommunityReach: token.CommunityReach,
		SpreadCount:    token.SpreadCount,
		PriceChangePct: token.PriceChange24h,
	}
	if token.MarketCap != nil && token.FirstMarketCap != nil && *token.FirstMarketCap > 0 {
		pct := (*token.MarketCap - *token.FirstMarketCap) / *token.FirstMarketCap * 100
		snapshot.MarketCapChangePct = &pct
	}
	return snapshot
}

// Name returns the sweeper's name
func (s *historySnapshotSweeper) Name() string {
	return "history-snapshot-sweeper"
}

// Start sleeps until the next slot, snapshots every token and repeats until stopped
func (s *historySnapshotSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting history snapshot sweeper",
		zap.Ints("hours", s.config.Hours),
		zap.Int("batch_size", s.config.BatchSize),
	)

	for {
		now := s.clock.Now()
		next := NextSnapshotAt(now, s.config.Hours)
		logger.DebugCtx(ctx, "Next history snapshot", zap.Time("at", next))

		if !s.sleep(ctx, next.Sub(now)) {
			logger.InfoCtx(ctx, "History snapshot sweeper stopping")
			return nil
		}

		if _, err := s.RunSnapshot(ctx, next); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err)
		}
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *historySnapshotSweeper) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping history snapshot sweeper")
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "History snapshot sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "History snapshot sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// RunSnapshot pages through every token by id and inserts one history row per token.
// Reruns for the same slot insert nothing.
func (s *historySnapshotSweeper) RunSnapshot(ctx context.Context, at time.Time) (*SnapshotResult, error) {
	at = at.UTC()
	ctx = logger.WithContext(ctx, zap.Time("snapshot_at", at))
	logger.InfoCtx(ctx, "Starting history snapshot")

	result := &SnapshotResult{SnapshotAt: at}
	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if s.stopped() {
			break
		}

		tokens, err := s.store.ListTokensAfterID(ctx, afterID, s.config.BatchSize)
		if err != nil {
			return result, fmt.Errorf("failed to list tokens: %w", err)
		}
		if len(tokens) == 0 {
			break
		}

		snapshots := make([]schema.TokenHistory, 0, len(tokens))
		for i := range tokens {
			snapshots = append(snapshots, SnapshotFromToken(&tokens[i], at))
		}

		inserted, err := s.store.CreateTokenHistory(ctx, snapshots)
		if err != nil {
			return result, fmt.Errorf("failed to write token history: %w", err)
		}
		result.Total += int64(len(tokens))
		result.Inserted += inserted
		metrics.HistorySnapshotsTotal.WithLabelValues("inserted").Add(float64(inserted))
		metrics.HistorySnapshotsTotal.WithLabelValues("skipped").Add(float64(int64(len(tokens)) - inserted))

		afterID = tokens[len(tokens)-1].ID
		if len(tokens) < s.config.BatchSize {
			break
		}
	}

	logger.InfoCtx(ctx, "History snapshot completed",
		zap.Int64("total", result.Total),
		zap.Int64("inserted", result.Inserted),
	)
	return result, nil
}

func (s *historySnapshotSweeper) stopped() bool {
	select {
	case <-s.stopChan:
		return true
	default:
		return false
	}
}

// sleep returns false when interrupted by the context or a stop request
func (s *historySnapshotSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
