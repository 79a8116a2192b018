package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

// StoreTestSuite provides the interface for running store tests against different implementations
type StoreTestSuite struct {
	Store Store
	// InitDB should be called before each test to initialize the database
	InitDB func(t *testing.T) Store
	// CleanupDB should be called after each test to clean up the database
	CleanupDB func(t *testing.T)
}

const wrappedSOL = "So11111111111111111111111111111111111111112"

// =============================================================================
// Test Data Builders
// =============================================================================

func ptr[T any](v T) *T {
	return &v
}

// buildTestToken creates a test token input
func buildTestToken(chain domain.Chain, contract, symbol string, marketCap *float64) CreateTokenInput {
	return CreateTokenInput{
		Chain:           chain,
		ContractAddress: contract,
		Symbol:          symbol,
		MarketCap:       marketCap,
	}
}

// buildTestMention creates a mention input for the given token, channel and message
func buildTestMention(tokenID, channelID, messageID int64, marketCap *float64) CreateMentionInput {
	return CreateMentionInput{
		TokenID:     tokenID,
		ChannelID:   channelID,
		MessageID:   messageID,
		MarketCap:   marketCap,
		Text:        fmt.Sprintf("message %d", messageID),
		Raw:         datatypes.JSON(fmt.Sprintf(`{"message_id":%d}`, messageID)),
		MentionedAt: time.Now().UTC().Add(time.Duration(messageID) * time.Second),
	}
}

func mustCreateToken(t *testing.T, store Store, contract string) int64 {
	t.Helper()
	res, err := store.UpsertTokenByContract(context.Background(), buildTestToken(domain.ChainSolana, contract, "TEST", nil))
	require.NoError(t, err)
	require.True(t, res.Created())
	return res.Token.ID
}

func mustCreateChannel(t *testing.T, store Store, ref domain.ChannelRef, members int64) int64 {
	t.Helper()
	channel, _, err := store.UpsertChannelSnapshot(context.Background(), UpsertChannelInput{
		Ref:         ref,
		MemberCount: members,
	})
	require.NoError(t, err)
	return channel.ID
}

// =============================================================================
// Test: UpsertTokenByContract
// =============================================================================

func testUpsertTokenByContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("first call creates the token with seed market cap", func(t *testing.T) {
		res, err := store.UpsertTokenByContract(ctx, buildTestToken(domain.ChainSolana, wrappedSOL, "SOL", ptr(1_000_000.0)))
		require.NoError(t, err)
		require.NotNil(t, res)

		assert.Equal(t, domain.UpsertCreated, res.Result)
		assert.True(t, res.Created())
		assert.NotZero(t, res.Token.ID)
		assert.Equal(t, "SOL", res.Token.Symbol)
		require.NotNil(t, res.Token.FirstMarketCap)
		assert.Equal(t, 1_000_000.0, *res.Token.FirstMarketCap)
		assert.False(t, res.Token.FirstUpdate.IsZero())
		assert.Zero(t, res.Token.SpreadCount)
		assert.Zero(t, res.Token.CommunityReach)
	})

	t.Run("second call returns the existing row unmodified", func(t *testing.T) {
		first, err := store.GetTokenByContract(ctx, domain.ChainSolana, wrappedSOL)
		require.NoError(t, err)
		require.NotNil(t, first)

		res, err := store.UpsertTokenByContract(ctx, buildTestToken(domain.ChainSolana, wrappedSOL, "WSOL", ptr(9.0)))
		require.NoError(t, err)

		assert.Equal(t, domain.UpsertExisting, res.Result)
		assert.Equal(t, first.ID, res.Token.ID)
		assert.Equal(t, "SOL", res.Token.Symbol)
		assert.Equal(t, 1_000_000.0, *res.Token.FirstMarketCap)
		assert.True(t, first.FirstUpdate.Equal(res.Token.FirstUpdate))
	})

	t.Run("same contract on another chain is a different token", func(t *testing.T) {
		res, err := store.UpsertTokenByContract(ctx, buildTestToken(domain.ChainTon, wrappedSOL, "X", nil))
		require.NoError(t, err)
		assert.True(t, res.Created())
		assert.Nil(t, res.Token.FirstMarketCap)
	})

	t.Run("lookup of unknown contract returns nil", func(t *testing.T) {
		token, err := store.GetTokenByContract(ctx, domain.ChainEthereum, "0x0000000000000000000000000000000000000001")
		require.NoError(t, err)
		assert.Nil(t, token)

		token, err = store.GetTokenByID(ctx, -1)
		require.NoError(t, err)
		assert.Nil(t, token)
	})
}

// =============================================================================
// Test: ApplyMarketRefresh
// =============================================================================

func testApplyMarketRefresh(t *testing.T, store Store) {
	ctx := context.Background()
	tokenID := mustCreateToken(t, store, "Refresh1111111111111111111111111111111111111")

	t.Run("first refresh sets first market cap and first price", func(t *testing.T) {
		refreshedAt := time.Now().UTC().Truncate(time.Second)
		token, err := store.ApplyMarketRefresh(ctx, tokenID, MarketRefreshInput{
			Name:           ptr("Refresh Token"),
			MarketCap:      ptr(50_000.0),
			Price:          ptr(0.05),
			Liquidity:      ptr(12_000.0),
			Volume1h:       ptr(3_000.0),
			Volume24h:      ptr(48_000.0),
			PriceChange24h: ptr(-4.2),
			Buys1h:         10,
			Sells1h:        4,
			HoldersCount:   ptr(int64(321)),
			DexScreenerURL: ptr("https://dexscreener.com/solana/pair1"),
			RefreshedAt:    refreshedAt,
		})
		require.NoError(t, err)

		require.NotNil(t, token.FirstMarketCap)
		assert.Equal(t, 50_000.0, *token.FirstMarketCap)
		assert.Equal(t, 50_000.0, *token.MarketCap)
		assert.Nil(t, token.MarketCap1h)
		assert.Equal(t, 0.05, *token.FirstPrice)
		assert.Equal(t, int64(10), token.Buys1h)
		assert.Equal(t, int64(4), token.Sells1h)
		assert.Equal(t, int64(321), *token.HoldersCount)
		assert.Equal(t, 48_000.0, *token.Volume24h)
		assert.Equal(t, -4.2, *token.PriceChange24h)
		assert.Equal(t, "Refresh Token", *token.Name)
		assert.WithinDuration(t, refreshedAt, token.LastUpdate, time.Second)
	})

	t.Run("later refresh never overwrites first market cap", func(t *testing.T) {
		token, err := store.ApplyMarketRefresh(ctx, tokenID, MarketRefreshInput{
			Name:      ptr("Renamed"),
			MarketCap: ptr(75_000.0),
			Price:     ptr(0.09),
		})
		require.NoError(t, err)

		assert.Equal(t, 50_000.0, *token.FirstMarketCap)
		assert.Equal(t, 0.05, *token.FirstPrice)
		assert.Equal(t, 75_000.0, *token.MarketCap)
		require.NotNil(t, token.MarketCap1h)
		assert.Equal(t, 50_000.0, *token.MarketCap1h)
		assert.Equal(t, "Refresh Token", *token.Name)
		// Holder count and 24h fields are kept when the refresh has none
		assert.Equal(t, int64(321), *token.HoldersCount)
		assert.Equal(t, 48_000.0, *token.Volume24h)
	})

	t.Run("empty symbol is filled, existing symbol is kept", func(t *testing.T) {
		res, err := store.UpsertTokenByContract(ctx, buildTestToken(domain.ChainSolana, "Refresh2222222222222222222222222222222222222", "", nil))
		require.NoError(t, err)

		token, err := store.ApplyMarketRefresh(ctx, res.Token.ID, MarketRefreshInput{Symbol: ptr("NEW")})
		require.NoError(t, err)
		assert.Equal(t, "NEW", token.Symbol)

		token, err = store.ApplyMarketRefresh(ctx, tokenID, MarketRefreshInput{Symbol: ptr("NEW")})
		require.NoError(t, err)
		assert.Equal(t, "TEST", token.Symbol)
	})

	t.Run("refresh clears suspect_since", func(t *testing.T) {
		require.NoError(t, store.MarkTokenSuspect(ctx, tokenID, time.Now()))

		token, err := store.ApplyMarketRefresh(ctx, tokenID, MarketRefreshInput{MarketCap: ptr(1.0)})
		require.NoError(t, err)
		assert.Nil(t, token.SuspectSince)
	})

	t.Run("refresh does not touch counters", func(t *testing.T) {
		require.NoError(t, store.ApplyCounters(ctx, tokenID, 3, 900))

		token, err := store.ApplyMarketRefresh(ctx, tokenID, MarketRefreshInput{MarketCap: ptr(2.0)})
		require.NoError(t, err)
		assert.Equal(t, int64(3), token.SpreadCount)
		assert.Equal(t, int64(900), token.CommunityReach)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := store.ApplyMarketRefresh(ctx, -1, MarketRefreshInput{MarketCap: ptr(1.0)})
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})
}

// =============================================================================
// Test: ApplyCounters
// =============================================================================

func testApplyCounters(t *testing.T, store Store) {
	ctx := context.Background()

	res, err := store.UpsertTokenByContract(ctx, buildTestToken(domain.ChainSolana, "Counter111111111111111111111111111111111111", "CNT", ptr(10.0)))
	require.NoError(t, err)
	tokenID := res.Token.ID

	t.Run("writes both counters and nothing else", func(t *testing.T) {
		require.NoError(t, store.ApplyCounters(ctx, tokenID, 2, 2000))

		token, err := store.GetTokenByID(ctx, tokenID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), token.SpreadCount)
		assert.Equal(t, int64(2000), token.CommunityReach)
		assert.Equal(t, 10.0, *token.MarketCap)
		assert.Equal(t, "CNT", token.Symbol)
	})

	t.Run("last writer wins", func(t *testing.T) {
		require.NoError(t, store.ApplyCounters(ctx, tokenID, 1, 800))

		token, err := store.GetTokenByID(ctx, tokenID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), token.SpreadCount)
		assert.Equal(t, int64(800), token.CommunityReach)
	})

	t.Run("negative counters are rejected", func(t *testing.T) {
		assert.Error(t, store.ApplyCounters(ctx, tokenID, -1, 0))
	})

	t.Run("missing token", func(t *testing.T) {
		assert.ErrorIs(t, store.ApplyCounters(ctx, -1, 1, 1), domain.ErrTokenNotFound)
	})
}

// =============================================================================
// Test: WithTokenLock
// =============================================================================

func testWithTokenLock(t *testing.T, store Store) {
	ctx := context.Background()
	tokenID := mustCreateToken(t, store, "Lock1111111111111111111111111111111111111111")

	t.Run("writes inside the lock are committed", func(t *testing.T) {
		err := store.WithTokenLock(ctx, tokenID, func(tx Store) error {
			return tx.ApplyCounters(ctx, tokenID, 3, 900)
		})
		require.NoError(t, err)

		token, err := store.GetTokenByID(ctx, tokenID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), token.SpreadCount)
		assert.Equal(t, int64(900), token.CommunityReach)
	})

	t.Run("an error rolls the writes back", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithTokenLock(ctx, tokenID, func(tx Store) error {
			require.NoError(t, tx.ApplyCounters(ctx, tokenID, 9, 9))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		token, err := store.GetTokenByID(ctx, tokenID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), token.SpreadCount)
	})

	t.Run("missing token", func(t *testing.T) {
		called := false
		err := store.WithTokenLock(ctx, -1, func(Store) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
		assert.False(t, called)
	})
}

// =============================================================================
// Test: Channel directory
// =============================================================================

func testChannelDirectory(t *testing.T, store Store) {
	ctx := context.Background()
	channelRef := domain.ChannelRef{Username: "MomentumTrackerCN"}
	groupRef := domain.ChannelRef{TelegramID: 1234567890, IsGroup: true}

	t.Run("get or create registers unseen channel with zero members", func(t *testing.T) {
		channel, err := store.GetOrCreateChannel(ctx, channelRef, ptr("Momentum Tracker"), nil)
		require.NoError(t, err)
		assert.NotZero(t, channel.ID)
		assert.Equal(t, "MomentumTrackerCN", *channel.Username)
		assert.Nil(t, channel.TelegramID)
		assert.Zero(t, channel.MemberCount)
		assert.True(t, channel.IsActive)
		assert.False(t, channel.IsGroup)

		again, err := store.GetOrCreateChannel(ctx, channelRef, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, channel.ID, again.ID)
		assert.Equal(t, "Momentum Tracker", *again.Name)
	})

	t.Run("groups are keyed by telegram id", func(t *testing.T) {
		group, err := store.GetOrCreateChannel(ctx, groupRef, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, group.TelegramID)
		assert.Equal(t, int64(1234567890), *group.TelegramID)
		assert.Nil(t, group.Username)
		assert.True(t, group.IsGroup)
		assert.Equal(t, groupRef, group.Ref())
	})

	t.Run("unknown channel lookup returns nil", func(t *testing.T) {
		channel, err := store.GetChannelByRef(ctx, domain.ChannelRef{Username: "nobody_here"})
		require.NoError(t, err)
		assert.Nil(t, channel)
	})

	t.Run("snapshot reports member count changes", func(t *testing.T) {
		chain := domain.ChainSolana
		channel, changed, err := store.UpsertChannelSnapshot(ctx, UpsertChannelInput{
			Ref:         channelRef,
			Chain:       &chain,
			MemberCount: 800,
		})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, int64(800), channel.MemberCount)
		require.NotNil(t, channel.Chain)
		assert.Equal(t, domain.ChainSolana, *channel.Chain)

		_, changed, err = store.UpsertChannelSnapshot(ctx, UpsertChannelInput{Ref: channelRef, MemberCount: 800})
		require.NoError(t, err)
		assert.False(t, changed)

		fetched, err := store.GetChannelByRef(ctx, channelRef)
		require.NoError(t, err)
		assert.Equal(t, int64(800), fetched.MemberCount)
		assert.Equal(t, "Momentum Tracker", *fetched.Name)
	})

	t.Run("snapshot of unseen channel creates it", func(t *testing.T) {
		channel, changed, err := store.UpsertChannelSnapshot(ctx, UpsertChannelInput{
			Ref:         domain.ChannelRef{Username: "fresh_channel"},
			Name:        ptr("Fresh"),
			MemberCount: 42,
		})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, int64(42), channel.MemberCount)
	})

	t.Run("negative member count is rejected", func(t *testing.T) {
		_, _, err := store.UpsertChannelSnapshot(ctx, UpsertChannelInput{Ref: channelRef, MemberCount: -1})
		assert.Error(t, err)
	})

	t.Run("list orders by member count", func(t *testing.T) {
		_, _, err := store.UpsertChannelSnapshot(ctx, UpsertChannelInput{Ref: groupRef, MemberCount: 1200})
		require.NoError(t, err)

		channels, total, err := store.ListChannels(ctx, true, 10, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(3))
		require.GreaterOrEqual(t, len(channels), 3)
		for i := 1; i < len(channels); i++ {
			assert.GreaterOrEqual(t, channels[i-1].MemberCount, channels[i].MemberCount)
		}

		page, _, err := store.ListChannels(ctx, true, 1, 0)
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})
}

// =============================================================================
// Test: RecordMention
// =============================================================================

func testRecordMention(t *testing.T, store Store) {
	ctx := context.Background()
	tokenID := mustCreateToken(t, store, "Mention11111111111111111111111111111111111111")
	channelID := mustCreateChannel(t, store, domain.ChannelRef{Username: "mention_channel"}, 500)

	t.Run("first mention from a channel creates the ledger row", func(t *testing.T) {
		res, err := store.RecordMention(ctx, buildTestMention(tokenID, channelID, 1, ptr(100.0)))
		require.NoError(t, err)
		assert.True(t, res.MentionCreated)
		assert.True(t, res.MarkCreated)
		assert.NotZero(t, res.Mention.ID)
		assert.Equal(t, 100.0, *res.Mention.MarketCap)
	})

	t.Run("repeated mentions are recorded but never re-marked", func(t *testing.T) {
		const n = 5
		for i := int64(2); i < 2+n; i++ {
			res, err := store.RecordMention(ctx, buildTestMention(tokenID, channelID, i, nil))
			require.NoError(t, err)
			assert.True(t, res.MentionCreated)
			assert.False(t, res.MarkCreated)
		}

		mentions, total, err := store.GetMentionsByToken(ctx, tokenID, 100, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(n+1), total)
		assert.Len(t, mentions, n+1)

		ledger, err := store.GetReachLedger(ctx, tokenID)
		require.NoError(t, err)
		assert.Equal(t, []LedgerEntry{{ChannelID: channelID, MemberCount: 500}}, ledger)
	})

	t.Run("redelivered message does not duplicate the mention", func(t *testing.T) {
		res, err := store.RecordMention(ctx, buildTestMention(tokenID, channelID, 1, ptr(100.0)))
		require.NoError(t, err)
		assert.False(t, res.MentionCreated)
		assert.False(t, res.MarkCreated)
		assert.NotZero(t, res.Mention.ID)

		_, total, err := store.GetMentionsByToken(ctx, tokenID, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
	})

	t.Run("mention history is newest first and paginated", func(t *testing.T) {
		mentions, _, err := store.GetMentionsByToken(ctx, tokenID, 2, 0)
		require.NoError(t, err)
		require.Len(t, mentions, 2)
		assert.Equal(t, int64(6), mentions[0].MessageID)
		assert.Equal(t, int64(5), mentions[1].MessageID)

		mentions, _, err = store.GetMentionsByToken(ctx, tokenID, 2, 4)
		require.NoError(t, err)
		require.Len(t, mentions, 2)
		assert.Equal(t, int64(2), mentions[0].MessageID)
		assert.Equal(t, int64(1), mentions[1].MessageID)
	})
}

// =============================================================================
// Test: Reach ledger
// =============================================================================

func testReachLedger(t *testing.T, store Store) {
	ctx := context.Background()
	tokenID := mustCreateToken(t, store, "Ledger111111111111111111111111111111111111111")
	c1 := mustCreateChannel(t, store, domain.ChannelRef{Username: "ledger_c1"}, 500)
	c2 := mustCreateChannel(t, store, domain.ChannelRef{TelegramID: 555000111, IsGroup: true}, 300)

	_, err := store.RecordMention(ctx, buildTestMention(tokenID, c1, 10, nil))
	require.NoError(t, err)
	_, err = store.RecordMention(ctx, buildTestMention(tokenID, c2, 11, nil))
	require.NoError(t, err)
	_, err = store.RecordMention(ctx, buildTestMention(tokenID, c1, 12, nil))
	require.NoError(t, err)

	t.Run("ledger lists each distinct channel once with current members", func(t *testing.T) {
		ledger, err := store.GetReachLedger(ctx, tokenID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []LedgerEntry{
			{ChannelID: c1, MemberCount: 500},
			{ChannelID: c2, MemberCount: 300},
		}, ledger)
	})

	t.Run("member count update shows up without new ledger rows", func(t *testing.T) {
		_, changed, err := store.UpsertChannelSnapshot(ctx, UpsertChannelInput{
			Ref:         domain.ChannelRef{Username: "ledger_c1"},
			MemberCount: 700,
		})
		require.NoError(t, err)
		require.True(t, changed)

		ledger, err := store.GetReachLedger(ctx, tokenID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []LedgerEntry{
			{ChannelID: c1, MemberCount: 700},
			{ChannelID: c2, MemberCount: 300},
		}, ledger)
	})

	t.Run("tokens are found by channel", func(t *testing.T) {
		other := mustCreateToken(t, store, "Ledger222222222222222222222222222222222222222")
		_, err := store.RecordMention(ctx, buildTestMention(other, c1, 13, nil))
		require.NoError(t, err)

		ids, err := store.GetTokenIDsByChannel(ctx, c1)
		require.NoError(t, err)
		assert.Equal(t, []int64{tokenID, other}, ids)

		ids, err = store.GetTokenIDsByChannel(ctx, c2)
		require.NoError(t, err)
		assert.Equal(t, []int64{tokenID}, ids)
	})

	t.Run("token without mentions has an empty ledger", func(t *testing.T) {
		lonely := mustCreateToken(t, store, "Ledger333333333333333333333333333333333333333")
		ledger, err := store.GetReachLedger(ctx, lonely)
		require.NoError(t, err)
		assert.Empty(t, ledger)
	})
}

// =============================================================================
// Test: MarkTokenSuspect
// =============================================================================

func testMarkTokenSuspect(t *testing.T, store Store) {
	ctx := context.Background()
	tokenID := mustCreateToken(t, store, "Suspect11111111111111111111111111111111111111")

	first := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, store.MarkTokenSuspect(ctx, tokenID, first))
	require.NoError(t, store.MarkTokenSuspect(ctx, tokenID, time.Now().UTC()))

	token, err := store.GetTokenByID(ctx, tokenID)
	require.NoError(t, err)
	require.NotNil(t, token.SuspectSince)
	assert.WithinDuration(t, first, *token.SuspectSince, time.Second)

	assert.ErrorIs(t, store.MarkTokenSuspect(ctx, -1, time.Now()), domain.ErrTokenNotFound)
}

// =============================================================================
// Test: DeleteToken
// =============================================================================

func testDeleteToken(t *testing.T, store Store) {
	ctx := context.Background()
	tokenID := mustCreateToken(t, store, "Delete111111111111111111111111111111111111111")
	keepID := mustCreateToken(t, store, "Delete222222222222222222222222222222222222222")
	c1 := mustCreateChannel(t, store, domain.ChannelRef{Username: "delete_c1"}, 10)
	c2 := mustCreateChannel(t, store, domain.ChannelRef{Username: "delete_c2"}, 20)

	for i, channelID := range []int64{c1, c2, c1} {
		_, err := store.RecordMention(ctx, buildTestMention(tokenID, channelID, int64(100+i), nil))
		require.NoError(t, err)
	}
	_, err := store.RecordMention(ctx, buildTestMention(keepID, c1, 200, nil))
	require.NoError(t, err)

	snapshotAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err = store.CreateTokenHistory(ctx, []schema.TokenHistory{
		{TokenID: tokenID, SnapshotAt: snapshotAt},
		{TokenID: keepID, SnapshotAt: snapshotAt},
	})
	require.NoError(t, err)

	t.Run("removes ledger rows, mentions, history and the token", func(t *testing.T) {
		require.NoError(t, store.DeleteToken(ctx, tokenID))

		token, err := store.GetTokenByID(ctx, tokenID)
		require.NoError(t, err)
		assert.Nil(t, token)

		ledger, err := store.GetReachLedger(ctx, tokenID)
		require.NoError(t, err)
		assert.Empty(t, ledger)

		_, total, err := store.GetMentionsByToken(ctx, tokenID, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, total)

		history, err := store.GetTokenHistory(ctx, TokenHistoryFilter{TokenID: tokenID})
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("other tokens are untouched", func(t *testing.T) {
		ledger, err := store.GetReachLedger(ctx, keepID)
		require.NoError(t, err)
		assert.Len(t, ledger, 1)

		_, total, err := store.GetMentionsByToken(ctx, keepID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		ids, err := store.GetTokenIDsByChannel(ctx, c1)
		require.NoError(t, err)
		assert.Equal(t, []int64{keepID}, ids)

		history, err := store.GetTokenHistory(ctx, TokenHistoryFilter{TokenID: keepID})
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("deleting an absent token", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteToken(ctx, tokenID), domain.ErrTokenNotFound)
	})
}

// =============================================================================
// Test: Token history
// =============================================================================

func testTokenHistory(t *testing.T, store Store) {
	ctx := context.Background()
	tokenID := mustCreateToken(t, store, "History11111111111111111111111111111111111111")
	otherID := mustCreateToken(t, store, "History22222222222222222222222222222222222222")

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slots := []time.Time{day, day.Add(12 * time.Hour), day.Add(24 * time.Hour), day.Add(36 * time.Hour)}

	var snapshots []schema.TokenHistory
	for i, at := range slots {
		snapshots = append(snapshots, schema.TokenHistory{
			TokenID:        tokenID,
			Symbol:         "HIST",
			SnapshotAt:     at,
			MarketCap:      ptr(float64(1000 * (i + 1))),
			CommunityReach: int64(100 * (i + 1)),
			SpreadCount:    int64(i + 1),
			PriceChangePct: ptr(-1.5),
		})
	}
	snapshots = append(snapshots, schema.TokenHistory{TokenID: otherID, SnapshotAt: day})

	t.Run("inserts every snapshot", func(t *testing.T) {
		inserted, err := store.CreateTokenHistory(ctx, snapshots)
		require.NoError(t, err)
		assert.Equal(t, int64(5), inserted)
	})

	t.Run("same slot is not inserted twice", func(t *testing.T) {
		inserted, err := store.CreateTokenHistory(ctx, []schema.TokenHistory{
			{TokenID: tokenID, SnapshotAt: day, MarketCap: ptr(1.0)},
			{TokenID: tokenID, SnapshotAt: day.Add(48 * time.Hour), MarketCap: ptr(5000.0)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), inserted)

		history, err := store.GetTokenHistory(ctx, TokenHistoryFilter{TokenID: tokenID, Limit: 100})
		require.NoError(t, err)
		require.Len(t, history, 5)
		assert.Equal(t, 1000.0, *history[0].MarketCap)
	})

	t.Run("empty batch", func(t *testing.T) {
		inserted, err := store.CreateTokenHistory(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, inserted)
	})

	t.Run("oldest first within range", func(t *testing.T) {
		from := day.Add(12 * time.Hour)
		to := day.Add(36 * time.Hour)
		history, err := store.GetTokenHistory(ctx, TokenHistoryFilter{TokenID: tokenID, From: &from, To: &to, Limit: 100})
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.True(t, history[0].SnapshotAt.Equal(from))
		assert.True(t, history[1].SnapshotAt.Equal(day.Add(24*time.Hour)))
		assert.Equal(t, int64(200), history[0].CommunityReach)
		assert.Equal(t, "HIST", history[0].Symbol)
		assert.Equal(t, -1.5, *history[0].PriceChangePct)
	})

	t.Run("limit", func(t *testing.T) {
		history, err := store.GetTokenHistory(ctx, TokenHistoryFilter{TokenID: tokenID, Limit: 2})
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.True(t, history[0].SnapshotAt.Equal(day))
	})

	t.Run("unknown token", func(t *testing.T) {
		history, err := store.GetTokenHistory(ctx, TokenHistoryFilter{TokenID: -1})
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

// =============================================================================
// Test: ListTokens
// =============================================================================

func testListTokens(t *testing.T, store Store) {
	ctx := context.Background()

	low := mustCreateToken(t, store, "List1111111111111111111111111111111111111111")
	high := mustCreateToken(t, store, "List2222222222222222222222222222222222222222")
	require.NoError(t, store.ApplyCounters(ctx, low, 1, 100))
	require.NoError(t, store.ApplyCounters(ctx, high, 4, 5000))

	evm, err := store.UpsertTokenByContract(ctx, buildTestToken(domain.ChainEthereum, "0xdAC17F958D2ee523a2206206994597C13D831ec7", "USDT", nil))
	require.NoError(t, err)
	require.NoError(t, store.ApplyCounters(ctx, evm.Token.ID, 2, 3000))

	t.Run("default sort is community reach descending", func(t *testing.T) {
		tokens, total, err := store.ListTokens(ctx, TokenFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, tokens, 3)
		assert.Equal(t, high, tokens[0].ID)
		assert.Equal(t, evm.Token.ID, tokens[1].ID)
		assert.Equal(t, low, tokens[2].ID)
	})

	t.Run("chain filter", func(t *testing.T) {
		tokens, total, err := store.ListTokens(ctx, TokenFilter{Chains: []domain.Chain{domain.ChainEthereum}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, tokens, 1)
		assert.Equal(t, "USDT", tokens[0].Symbol)
	})

	t.Run("ascending spread with pagination", func(t *testing.T) {
		tokens, _, err := store.ListTokens(ctx, TokenFilter{SortBy: TokenSortSpreadCount, Asc: true, Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.Equal(t, evm.Token.ID, tokens[0].ID)
		assert.Equal(t, high, tokens[1].ID)
	})

	t.Run("keyset pagination by id", func(t *testing.T) {
		page, err := store.ListTokensAfterID(ctx, 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Less(t, page[0].ID, page[1].ID)

		rest, err := store.ListTokensAfterID(ctx, page[1].ID, 10)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Greater(t, rest[0].ID, page[1].ID)
	})
}

// RunStoreTests runs the store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"UpsertTokenByContract", testUpsertTokenByContract},
		{"ApplyMarketRefresh", testApplyMarketRefresh},
		{"ApplyCounters", testApplyCounters},
		{"WithTokenLock", testWithTokenLock},
		{"ChannelDirectory", testChannelDirectory},
		{"RecordMention", testRecordMention},
		{"ReachLedger", testReachLedger},
		{"MarkTokenSuspect", testMarkTokenSuspect},
		{"DeleteToken", testDeleteToken},
		{"TokenHistory", testTokenHistory},
		{"ListTokens", testListTokens},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
