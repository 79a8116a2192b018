package reach

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
	"github.com/feral-file/tg-mention-indexer/internal/store"
)

const backfillBatchSize = 500

// Counters are the derived propagation counters of a token
type Counters struct {
	SpreadCount    int64
	CommunityReach int64
}

// BackfillResult summarizes a RecomputeAll run
type BackfillResult struct {
	Total  int
	Failed int
}

// Aggregator recomputes spread_count and community_reach from the tokens_mark ledger
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/reach_aggregator.go -package=mocks -mock_names=Aggregator=MockReachAggregator
type Aggregator interface {
	// Recompute reads the token's ledger and writes the derived counters
	Recompute(ctx context.Context, tokenID int64) (*Counters, error)
	// RecomputeForChannel recomputes every token the channel has mentioned
	RecomputeForChannel(ctx context.Context, channelID int64) (int, error)
	// RecomputeAll recomputes every token in id order
	RecomputeAll(ctx context.Context) (*BackfillResult, error)
}

type aggregator struct {
	store store.Store
}

// NewAggregator creates a reach aggregator backed by the store
func NewAggregator(st store.Store) Aggregator {
	return &aggregator{store: st}
}

// ComputeAggregate derives the counters from a ledger. Each channel counts once
// and a negative member count contributes nothing.
func ComputeAggregate(ledger []store.LedgerEntry) Counters {
	seen := make(map[int64]struct{}, len(ledger))
	var c Counters
	for _, entry := range ledger {
		if _, ok := seen[entry.ChannelID]; ok {
			continue
		}
		seen[entry.ChannelID] = struct{}{}

		c.SpreadCount++
		if entry.MemberCount > 0 {
			c.CommunityReach += entry.MemberCount
		}
	}
	return c
}

// Recompute holds the token row lock across the ledger read and the counter
// write, so concurrent first mentions cannot persist a stale aggregate.
func (a *aggregator) Recompute(ctx context.Context, tokenID int64) (*Counters, error) {
	var counters Counters
	err := a.store.WithTokenLock(ctx, tokenID, func(tx store.Store) error {
		ledger, err := tx.GetReachLedger(ctx, tokenID)
		if err != nil {
			return fmt.Errorf("failed to read reach ledger: %w", err)
		}

		counters = ComputeAggregate(ledger)
		if err := tx.ApplyCounters(ctx, tokenID, counters.SpreadCount, counters.CommunityReach); err != nil {
			return fmt.Errorf("failed to apply counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.DebugCtx(ctx, "Recomputed reach",
		zap.Int64("tokenID", tokenID),
		zap.Int64("spread", counters.SpreadCount),
		zap.Int64("reach", counters.CommunityReach))

	return &counters, nil
}

func (a *aggregator) RecomputeForChannel(ctx context.Context, channelID int64) (int, error) {
	tokenIDs, err := a.store.GetTokenIDsByChannel(ctx, channelID)
	if err != nil {
		return 0, fmt.Errorf("failed to list tokens of channel: %w", err)
	}

	var errs []error
	recomputed := 0
	for _, tokenID := range tokenIDs {
		if err := ctx.Err(); err != nil {
			return recomputed, err
		}

		if _, err := a.Recompute(ctx, tokenID); err != nil {
			// The token may have been reaped since the ledger was read
			if errors.Is(err, domain.ErrTokenNotFound) {
				continue
			}
			metrics.ReachRecomputesTotal.WithLabelValues("channel", "error").Inc()
			logger.WarnCtx(ctx, "Failed to recompute token reach",
				zap.Int64("channelID", channelID),
				zap.Int64("tokenID", tokenID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("token %d: %w", tokenID, err))
			continue
		}
		metrics.ReachRecomputesTotal.WithLabelValues("channel", "ok").Inc()
		recomputed++
	}

	return recomputed, errors.Join(errs...)
}

func (a *aggregator) RecomputeAll(ctx context.Context) (*BackfillResult, error) {
	result := &BackfillResult{}
	var afterID int64

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		tokens, err := a.store.ListTokensAfterID(ctx, afterID, backfillBatchSize)
		if err != nil {
			return result, fmt.Errorf("failed to list tokens: %w", err)
		}
		if len(tokens) == 0 {
			break
		}

		for _, token := range tokens {
			result.Total++
			if _, err := a.Recompute(ctx, token.ID); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
				result.Failed++
				metrics.ReachRecomputesTotal.WithLabelValues("backfill", "error").Inc()
				logger.WarnCtx(ctx, "Failed to backfill token reach", zap.Int64("tokenID", token.ID), zap.Error(err))
				continue
			}
			metrics.ReachRecomputesTotal.WithLabelValues("backfill", "ok").Inc()
		}

		afterID = tokens[len(tokens)-1].ID
		if len(tokens) < backfillBatchSize {
			break
		}
	}

	logger.InfoCtx(ctx, "Reach backfill finished", zap.Int("total", result.Total), zap.Int("failed", result.Failed))
	return result, nil
}
