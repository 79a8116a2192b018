package mention_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/mention"
	"github.com/feral-file/tg-mention-indexer/internal/mocks"
	"github.com/feral-file/tg-mention-indexer/internal/reach"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

const popcat = "7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr"

var receivedAt = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// memoryLedger backs the mock store with the rows a scenario writes
type memoryLedger struct {
	channels map[string]*schema.Channel
	token    *schema.Token
	mentions map[[3]int64]bool
	marks    map[[2]int64]bool
	// applied is the last ApplyCounters write
	applied reach.Counters
	applies int
}

func newScenario(t *testing.T) (mention.Recorder, *memoryLedger) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(receivedAt).AnyTimes()

	momentum := "MomentumTrackerCN"
	groupID := int64(1234567890)
	l := &memoryLedger{
		channels: map[string]*schema.Channel{
			"@MomentumTrackerCN": {ID: 1, Username: &momentum, MemberCount: 800},
			"1234567890":         {ID: 2, TelegramID: &groupID, IsGroup: true, MemberCount: 1200},
		},
		mentions: map[[3]int64]bool{},
		marks:    map[[2]int64]bool{},
	}

	st.EXPECT().GetOrCreateChannel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ref domain.ChannelRef, _ *string, _ *domain.Chain) (*schema.Channel, error) {
			ch, ok := l.channels[ref.String()]
			if !ok {
				ch = &schema.Channel{ID: int64(len(l.channels) + 1)}
				l.channels[ref.String()] = ch
			}
			return ch, nil
		}).AnyTimes()

	st.EXPECT().UpsertTokenByContract(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.CreateTokenInput) (*store.UpsertTokenResult, error) {
			if l.token != nil {
				return &store.UpsertTokenResult{Token: l.token, Result: domain.UpsertExisting}, nil
			}
			l.token = &schema.Token{ID: 10, Chain: input.Chain, ContractAddress: input.ContractAddress, Symbol: input.Symbol}
			return &store.UpsertTokenResult{Token: l.token, Result: domain.UpsertCreated}, nil
		}).AnyTimes()

	st.EXPECT().RecordMention(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.CreateMentionInput) (*store.RecordMentionResult, error) {
			mentionKey := [3]int64{input.TokenID, input.ChannelID, input.MessageID}
			markKey := [2]int64{input.TokenID, input.ChannelID}
			result := &store.RecordMentionResult{
				Mention:        &schema.Mention{TokenID: input.TokenID, ChannelID: input.ChannelID, MessageID: input.MessageID},
				MentionCreated: !l.mentions[mentionKey],
				MarkCreated:    !l.marks[markKey],
			}
			l.mentions[mentionKey] = true
			l.marks[markKey] = true
			return result, nil
		}).AnyTimes()

	st.EXPECT().WithTokenLock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, fn store.TxFunc) error {
			return fn(st)
		}).AnyTimes()

	st.EXPECT().GetReachLedger(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tokenID int64) ([]store.LedgerEntry, error) {
			var ledger []store.LedgerEntry
			for _, ch := range l.channels {
				if l.marks[[2]int64{tokenID, ch.ID}] {
					ledger = append(ledger, store.LedgerEntry{ChannelID: ch.ID, MemberCount: ch.MemberCount})
				}
			}
			return ledger, nil
		}).AnyTimes()

	st.EXPECT().ApplyCounters(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, spread, reachCount int64) error {
			l.applied = reach.Counters{SpreadCount: spread, CommunityReach: reachCount}
			l.applies++
			return nil
		}).AnyTimes()

	return mention.NewRecorder(st, reach.NewAggregator(st), clock), l
}

func TestRecord_PropagationScenario(t *testing.T) {
	rec, l := newScenario(t)
	ctx := context.Background()

	// first sighting in a channel of 800 members
	result, err := rec.Record(ctx, domain.MentionEvent{
		Chain:           "SOL",
		ContractAddress: popcat,
		Symbol:          strPtr("$POPCAT"),
		ChannelID:       "@MomentumTrackerCN",
		MessageID:       100,
		Text:            "$POPCAT just launched",
	}, []byte(`{"message_id":100}`))
	require.NoError(t, err)
	assert.True(t, result.TokenCreated)
	assert.True(t, result.NewPropagation)
	require.NotNil(t, result.Counters)
	assert.Equal(t, reach.Counters{SpreadCount: 1, CommunityReach: 800}, *result.Counters)
	assert.Equal(t, "POPCAT", l.token.Symbol)

	// the same channel mentions it again
	result, err = rec.Record(ctx, domain.MentionEvent{
		Chain: "SOL", ContractAddress: popcat, ChannelID: "MomentumTrackerCN", MessageID: 101,
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.TokenCreated)
	assert.True(t, result.MentionCreated)
	assert.False(t, result.NewPropagation)
	assert.Nil(t, result.Counters)
	assert.Equal(t, 1, l.applies)

	// a group of 1200 members picks it up
	result, err = rec.Record(ctx, domain.MentionEvent{
		Chain: "SOL", ContractAddress: popcat, ChannelID: "1234567890", ChannelIsGroup: true, MessageID: 7,
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.NewPropagation)
	assert.Equal(t, reach.Counters{SpreadCount: 2, CommunityReach: 2000}, *result.Counters)
	assert.Equal(t, reach.Counters{SpreadCount: 2, CommunityReach: 2000}, l.applied)
	assert.Len(t, l.mentions, 3)
}

func TestRecord_RedeliveryIsIdempotent(t *testing.T) {
	rec, l := newScenario(t)
	ctx := context.Background()
	event := domain.MentionEvent{Chain: "SOL", ContractAddress: popcat, ChannelID: "@MomentumTrackerCN", MessageID: 100}

	_, err := rec.Record(ctx, event, nil)
	require.NoError(t, err)

	result, err := rec.Record(ctx, event, nil)
	require.NoError(t, err)
	assert.False(t, result.MentionCreated)
	assert.False(t, result.NewPropagation)
	// redelivery recomputes to the same values
	require.NotNil(t, result.Counters)
	assert.Equal(t, reach.Counters{SpreadCount: 1, CommunityReach: 800}, *result.Counters)
	assert.Len(t, l.mentions, 1)
	assert.Len(t, l.marks, 1)
}

func TestRecord_UnknownChannelIsRegistered(t *testing.T) {
	rec, l := newScenario(t)

	result, err := rec.Record(context.Background(), domain.MentionEvent{
		Chain: "SOL", ContractAddress: popcat, ChannelID: "brand_new_calls", MessageID: 1,
	}, nil)
	require.NoError(t, err)
	assert.Len(t, l.channels, 3)
	// no snapshot yet so it spreads without adding reach
	assert.Equal(t, reach.Counters{SpreadCount: 1, CommunityReach: 0}, *result.Counters)
}

func TestRecord_MentionTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	agg := mocks.NewMockReachAggregator(ctrl)
	clock := mocks.NewMockClock(ctrl)
	rec := mention.NewRecorder(st, agg, clock)

	sentAt := time.Date(2026, 5, 4, 18, 30, 0, 0, time.FixedZone("CST", 8*3600))

	clock.EXPECT().Now().Return(receivedAt)
	st.EXPECT().GetOrCreateChannel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&schema.Channel{ID: 1}, nil)
	st.EXPECT().UpsertTokenByContract(gomock.Any(), gomock.Any()).
		Return(&store.UpsertTokenResult{Token: &schema.Token{ID: 2}, Result: domain.UpsertExisting}, nil)
	st.EXPECT().RecordMention(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.CreateMentionInput) (*store.RecordMentionResult, error) {
			assert.Equal(t, sentAt.UTC(), input.MentionedAt)
			return &store.RecordMentionResult{MentionCreated: true}, nil
		})

	_, err := rec.Record(context.Background(), domain.MentionEvent{
		Chain: "SOL", ContractAddress: popcat, ChannelID: "alpha", MessageID: 2, MentionedAt: &sentAt,
	}, nil)
	require.NoError(t, err)
}

func TestRecord_NormalizesEVMContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	agg := mocks.NewMockReachAggregator(ctrl)
	clock := mocks.NewMockClock(ctrl)
	rec := mention.NewRecorder(st, agg, clock)

	clock.EXPECT().Now().Return(receivedAt)
	st.EXPECT().GetOrCreateChannel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&schema.Channel{ID: 1}, nil)
	st.EXPECT().UpsertTokenByContract(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.CreateTokenInput) (*store.UpsertTokenResult, error) {
			assert.Equal(t, domain.ChainEthereum, input.Chain)
			assert.Equal(t, "0xdAC17F958D2ee523a2206206994597C13D831ec7", input.ContractAddress)
			return &store.UpsertTokenResult{Token: &schema.Token{ID: 2}, Result: domain.UpsertCreated}, nil
		})
	st.EXPECT().RecordMention(gomock.Any(), gomock.Any()).
		Return(&store.RecordMentionResult{MentionCreated: true, MarkCreated: true}, nil)
	agg.EXPECT().Recompute(gomock.Any(), int64(2)).Return(&reach.Counters{SpreadCount: 1}, nil)

	result, err := rec.Record(context.Background(), domain.MentionEvent{
		Chain: "eth", ContractAddress: "0xdac17f958d2ee523a2206206994597c13d831ec7", ChannelID: "alpha", MessageID: 3,
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.TokenCreated)
}

func TestRecord_RecomputeFailureKeepsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	agg := mocks.NewMockReachAggregator(ctrl)
	clock := mocks.NewMockClock(ctrl)
	rec := mention.NewRecorder(st, agg, clock)

	clock.EXPECT().Now().Return(receivedAt)
	st.EXPECT().GetOrCreateChannel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&schema.Channel{ID: 1}, nil)
	st.EXPECT().UpsertTokenByContract(gomock.Any(), gomock.Any()).
		Return(&store.UpsertTokenResult{Token: &schema.Token{ID: 2}, Result: domain.UpsertExisting}, nil)
	st.EXPECT().RecordMention(gomock.Any(), gomock.Any()).
		Return(&store.RecordMentionResult{MentionCreated: true, MarkCreated: true}, nil)
	agg.EXPECT().Recompute(gomock.Any(), int64(2)).Return(nil, errors.New("db down"))

	result, err := rec.Record(context.Background(), domain.MentionEvent{
		Chain: "SOL", ContractAddress: popcat, ChannelID: "alpha", MessageID: 4,
	}, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.True(t, result.NewPropagation)
	assert.Nil(t, result.Counters)
}

func TestRecord_InvalidEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mention.NewRecorder(mocks.NewMockStore(ctrl), mocks.NewMockReachAggregator(ctrl), mocks.NewMockClock(ctrl))

	tests := []struct {
		name  string
		event domain.MentionEvent
		err   error
	}{
		{"missing chain", domain.MentionEvent{ContractAddress: popcat, ChannelID: "a", MessageID: 1}, domain.ErrInvalidMention},
		{"missing message id", domain.MentionEvent{Chain: "SOL", ContractAddress: popcat, ChannelID: "a"}, domain.ErrInvalidMention},
		{"unsupported chain", domain.MentionEvent{Chain: "DOGE", ContractAddress: popcat, ChannelID: "a", MessageID: 1}, domain.ErrUnsupportedChain},
		{"bad solana mint", domain.MentionEvent{Chain: "SOL", ContractAddress: "0OIl", ChannelID: "a", MessageID: 1}, domain.ErrInvalidContract},
		{"bad evm address", domain.MentionEvent{Chain: "ETH", ContractAddress: "0x123", ChannelID: "a", MessageID: 1}, domain.ErrInvalidContract},
		{"zero channel id", domain.MentionEvent{Chain: "SOL", ContractAddress: popcat, ChannelID: "0", MessageID: 1}, domain.ErrInvalidChannelRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rec.Record(context.Background(), tt.event, nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRecord_BlacklistedContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	bl := mocks.NewMockBlacklistRegistry(ctrl)

	// checked with the normalized chain and contract, before any store or aggregator call
	bl.EXPECT().IsBlacklisted(domain.ChainSolana, "So11111111111111111111111111111111111111112").Return(true)

	rec := mention.NewRecorder(mocks.NewMockStore(ctrl), mocks.NewMockReachAggregator(ctrl), mocks.NewMockClock(ctrl),
		mention.WithBlacklist(bl))

	result, err := rec.Record(context.Background(), domain.MentionEvent{
		Chain: "solana", ContractAddress: " So11111111111111111111111111111111111111112", ChannelID: "alpha", MessageID: 9,
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.Ignored)
	assert.False(t, result.MentionCreated)
}
