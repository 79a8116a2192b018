package mention

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
	"github.com/feral-file/tg-mention-indexer/internal/reach"
	"github.com/feral-file/tg-mention-indexer/internal/registry"
	"github.com/feral-file/tg-mention-indexer/internal/store"
)

// RecordResult reports what recording a mention changed
type RecordResult struct {
	TokenID   int64
	ChannelID int64
	// TokenCreated is true when the mention discovered the token
	TokenCreated bool
	// MentionCreated is false for a redelivered message
	MentionCreated bool
	// NewPropagation is true for the first mention of the token in the channel
	NewPropagation bool
	// Counters is set when the counters were recomputed
	Counters *reach.Counters
	// Ignored is true when the contract is blacklisted and nothing was written
	Ignored bool
}

// Recorder turns mention events into tokens, mentions and ledger rows
//
//go:generate mockgen -source=recorder.go -destination=../mocks/mention_recorder.go -package=mocks -mock_names=Recorder=MockMentionRecorder
type Recorder interface {
	// Record stores one mention. raw is kept alongside the mention as the original payload.
	Record(ctx context.Context, event domain.MentionEvent, raw []byte) (*RecordResult, error)
}

type recorder struct {
	store      store.Store
	aggregator reach.Aggregator
	clock      adapter.Clock
	blacklist  registry.BlacklistRegistry
}

// Option configures a recorder
type Option func(*recorder)

// WithBlacklist drops mentions of blacklisted contracts before anything is written
func WithBlacklist(bl registry.BlacklistRegistry) Option {
	return func(r *recorder) {
		r.blacklist = bl
	}
}

// NewRecorder creates a mention recorder
func NewRecorder(st store.Store, aggregator reach.Aggregator, clock adapter.Clock, opts ...Option) Recorder {
	r := &recorder{
		store:      st,
		aggregator: aggregator,
		clock:      clock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *recorder) Record(ctx context.Context, event domain.MentionEvent, raw []byte) (*RecordResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	chain, err := domain.ParseChain(event.Chain)
	if err != nil {
		return nil, err
	}

	contract, err := domain.NormalizeContract(chain, event.ContractAddress)
	if err != nil {
		return nil, err
	}

	ref, err := domain.ParseChannelRef(event.ChannelID, event.ChannelIsGroup)
	if err != nil {
		return nil, err
	}

	if r.blacklist != nil && r.blacklist.IsBlacklisted(chain, contract) {
		metrics.MentionsRecordedTotal.WithLabelValues(string(chain), "ignored").Inc()
		logger.DebugCtx(ctx, "Ignoring mention of blacklisted contract",
			zap.String("chain", string(chain)),
			zap.String("contract", contract))
		return &RecordResult{Ignored: true}, nil
	}

	channel, err := r.store.GetOrCreateChannel(ctx, ref, event.ChannelName, &chain)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel: %w", err)
	}

	upsert, err := r.store.UpsertTokenByContract(ctx, store.CreateTokenInput{
		Chain:           chain,
		ContractAddress: contract,
		Symbol:          symbolOf(event),
		Name:            event.Name,
		MarketCap:       event.MarketCapHint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert token: %w", err)
	}
	if upsert.Created() {
		metrics.TokensCreatedTotal.WithLabelValues(string(chain)).Inc()
		logger.InfoCtx(ctx, "Discovered new token",
			zap.String("chain", string(chain)),
			zap.String("contract", contract),
			zap.String("channel", ref.String()))
	}

	mentionedAt := r.clock.Now()
	if event.MentionedAt != nil && !event.MentionedAt.IsZero() {
		mentionedAt = event.MentionedAt.UTC()
	}

	var rawJSON datatypes.JSON
	if len(raw) > 0 {
		rawJSON = datatypes.JSON(raw)
	}

	recorded, err := r.store.RecordMention(ctx, store.CreateMentionInput{
		TokenID:     upsert.Token.ID,
		ChannelID:   channel.ID,
		MessageID:   event.MessageID,
		IsFromGroup: event.ChannelIsGroup,
		MarketCap:   event.MarketCapHint,
		Text:        event.Text,
		Raw:         rawJSON,
		MentionedAt: mentionedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record mention: %w", err)
	}

	result := &RecordResult{
		TokenID:        upsert.Token.ID,
		ChannelID:      channel.ID,
		TokenCreated:   upsert.Created(),
		MentionCreated: recorded.MentionCreated,
		NewPropagation: recorded.MarkCreated,
	}

	if recorded.MentionCreated {
		metrics.MentionsRecordedTotal.WithLabelValues(string(chain), "created").Inc()
	} else {
		metrics.MentionsRecordedTotal.WithLabelValues(string(chain), "duplicate").Inc()
	}

	// A repeat mention from a known channel leaves the counters alone. A redelivery
	// recomputes so a recompute lost after the first delivery is caught up.
	if !recorded.MarkCreated && recorded.MentionCreated {
		return result, nil
	}

	if recorded.MarkCreated {
		metrics.PropagationsTotal.WithLabelValues(string(chain)).Inc()
	}

	counters, err := r.aggregator.Recompute(ctx, upsert.Token.ID)
	if err != nil {
		metrics.ReachRecomputesTotal.WithLabelValues("mention", "error").Inc()
		return result, fmt.Errorf("failed to recompute reach: %w", err)
	}
	metrics.ReachRecomputesTotal.WithLabelValues("mention", "ok").Inc()
	result.Counters = counters

	logger.InfoCtx(ctx, "Recorded mention",
		zap.Int64("tokenID", result.TokenID),
		zap.String("channel", ref.String()),
		zap.Int64("messageID", event.MessageID),
		zap.Bool("newPropagation", result.NewPropagation),
		zap.Int64("spread", counters.SpreadCount),
		zap.Int64("reach", counters.CommunityReach))

	return result, nil
}

func symbolOf(event domain.MentionEvent) string {
	if event.Symbol == nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(*event.Symbol), "$")
}
