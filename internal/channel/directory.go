package channel

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/reach"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

// UpdateResult reports the effect of a channel snapshot
type UpdateResult struct {
	Channel *schema.Channel
	// MemberCountChanged is true when the snapshot moved member_count
	MemberCountChanged bool
	// Recomputed is the number of tokens whose reach was recomputed
	Recomputed int
}

// Directory applies discovery snapshots to the channel registry
//
//go:generate mockgen -source=directory.go -destination=../mocks/channel_directory.go -package=mocks -mock_names=Directory=MockChannelDirectory
type Directory interface {
	// ApplyUpdate writes the snapshot and recomputes the reach of every token the channel
	// has mentioned when its member count changed
	ApplyUpdate(ctx context.Context, event domain.ChannelUpdateEvent) (*UpdateResult, error)
}

type directory struct {
	store      store.Store
	aggregator reach.Aggregator
}

// NewDirectory creates a channel directory
func NewDirectory(st store.Store, aggregator reach.Aggregator) Directory {
	return &directory{store: st, aggregator: aggregator}
}

func (d *directory) ApplyUpdate(ctx context.Context, event domain.ChannelUpdateEvent) (*UpdateResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	ref, err := domain.ParseChannelRef(event.ChannelID, event.ChannelIsGroup)
	if err != nil {
		return nil, err
	}

	var chain *domain.Chain
	if event.Chain != nil && *event.Chain != "" {
		c, err := domain.ParseChain(*event.Chain)
		if err != nil {
			return nil, err
		}
		chain = &c
	}

	ch, changed, err := d.store.UpsertChannelSnapshot(ctx, store.UpsertChannelInput{
		Ref:         ref,
		Name:        event.ChannelName,
		Chain:       chain,
		MemberCount: event.MemberCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert channel snapshot: %w", err)
	}

	result := &UpdateResult{Channel: ch, MemberCountChanged: changed}
	if !changed {
		return result, nil
	}

	recomputed, err := d.aggregator.RecomputeForChannel(ctx, ch.ID)
	result.Recomputed = recomputed
	if err != nil {
		return result, fmt.Errorf("failed to recompute reach for channel: %w", err)
	}

	logger.InfoCtx(ctx, "Channel member count changed",
		zap.String("channel", ref.String()),
		zap.Int64("memberCount", ch.MemberCount),
		zap.Int("recomputed", recomputed))

	return result, nil
}
