package sweeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/mocks"
	"github.com/feral-file/tg-mention-indexer/internal/providers/dexscreener"
	"github.com/feral-file/tg-mention-indexer/internal/reaper"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
	"github.com/feral-file/tg-mention-indexer/internal/sweeper"
)

var refreshedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testRefresherMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	market    *mocks.MockDexScreenerClient
	holders   *mocks.MockHeliusClient
	reaper    *mocks.MockReaper
	clock     *mocks.MockClock
	refresher sweeper.Refresher
}

func setupTestRefresher(t *testing.T) *testRefresherMocks {
	ctrl := gomock.NewController(t)

	tm := &testRefresherMocks{
		ctrl:    ctrl,
		store:   mocks.NewMockStore(ctrl),
		market:  mocks.NewMockDexScreenerClient(ctrl),
		holders: mocks.NewMockHeliusClient(ctrl),
		reaper:  mocks.NewMockReaper(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().Now().Return(refreshedAt).AnyTimes()

	noRetry := func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1) }
	tm.refresher = sweeper.NewRefresher(tm.store, tm.market, tm.holders, tm.reaper, tm.clock, noRetry)
	return tm
}

func solToken() *schema.Token {
	return &schema.Token{ID: 1, Chain: domain.ChainSolana, ContractAddress: "So11111111111111111111111111111111111111112"}
}

func testProfile() *dexscreener.MarketProfile {
	symbol := "WSOL"
	mc := 1_500_000.0
	url := "https://dexscreener.com/solana/pair1"
	return &dexscreener.MarketProfile{Symbol: &symbol, MarketCap: &mc, Buys1h: 10, Sells1h: 4, URL: &url, PairCount: 2}
}

func TestRefresher_FoundAppliesProfileWithHolders(t *testing.T) {
	m := setupTestRefresher(t)
	token := solToken()
	profile := testProfile()

	m.market.EXPECT().GetTokenProfile(gomock.Any(), domain.ChainSolana, token.ContractAddress).Return(profile, nil)
	m.holders.EXPECT().GetHoldersCount(gomock.Any(), token.ContractAddress).Return(int64(321), nil)
	m.store.EXPECT().
		ApplyMarketRefresh(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, input store.MarketRefreshInput) (*schema.Token, error) {
			assert.Equal(t, refreshedAt, input.RefreshedAt)
			assert.Equal(t, 1_500_000.0, *input.MarketCap)
			assert.Equal(t, "WSOL", *input.Symbol)
			assert.Equal(t, int64(10), input.Buys1h)
			require.NotNil(t, input.HoldersCount)
			assert.Equal(t, int64(321), *input.HoldersCount)
			return &schema.Token{ID: 1, MarketCap: input.MarketCap}, nil
		})

	outcome, updated, err := m.refresher.Refresh(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sweeper.OutcomeUpdated, outcome)
	require.NotNil(t, updated)
	assert.Equal(t, 1_500_000.0, *updated.MarketCap)
}

func TestRefresher_HoldersFailureStillRefreshes(t *testing.T) {
	m := setupTestRefresher(t)
	token := solToken()

	m.market.EXPECT().GetTokenProfile(gomock.Any(), domain.ChainSolana, token.ContractAddress).Return(testProfile(), nil)
	m.holders.EXPECT().GetHoldersCount(gomock.Any(), token.ContractAddress).Return(int64(0), errors.New("helius down"))
	m.store.EXPECT().
		ApplyMarketRefresh(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, input store.MarketRefreshInput) (*schema.Token, error) {
			assert.Nil(t, input.HoldersCount)
			return &schema.Token{ID: 1}, nil
		})

	outcome, _, err := m.refresher.Refresh(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sweeper.OutcomeUpdated, outcome)
}

func TestRefresher_EVMTokenSkipsHolders(t *testing.T) {
	m := setupTestRefresher(t)
	token := &schema.Token{ID: 2, Chain: domain.ChainEthereum, ContractAddress: "0xdAC17F958D2ee523a2206206994597C13D831ec7"}

	m.market.EXPECT().GetTokenProfile(gomock.Any(), domain.ChainEthereum, token.ContractAddress).Return(testProfile(), nil)
	m.store.EXPECT().ApplyMarketRefresh(gomock.Any(), int64(2), gomock.Any()).Return(&schema.Token{ID: 2}, nil)

	outcome, _, err := m.refresher.Refresh(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sweeper.OutcomeUpdated, outcome)
}

func TestRefresher_EmptyHandsOverToReaper(t *testing.T) {
	tests := []struct {
		name     string
		outcome  *reaper.Outcome
		expected sweeper.Outcome
		applies  bool
	}{
		{name: "deleted", outcome: &reaper.Outcome{State: reaper.StateDeleted}, expected: sweeper.OutcomeDeleted},
		{name: "still suspect", outcome: &reaper.Outcome{State: reaper.StateSuspect}, expected: sweeper.OutcomeSuspected},
		{name: "back to active", outcome: &reaper.Outcome{State: reaper.StateActive, Profile: testProfile()}, expected: sweeper.OutcomeUpdated, applies: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTestRefresher(t)
			token := &schema.Token{ID: 3, Chain: domain.ChainBSC, ContractAddress: "0x55d398326f99059fF775485246999027B3197955"}

			m.market.EXPECT().GetTokenProfile(gomock.Any(), domain.ChainBSC, token.ContractAddress).Return(nil, domain.ErrNoPairs)
			m.reaper.EXPECT().Confirm(gomock.Any(), token).Return(tt.outcome, nil)
			if tt.applies {
				m.store.EXPECT().ApplyMarketRefresh(gomock.Any(), int64(3), gomock.Any()).Return(&schema.Token{ID: 3}, nil)
			}

			outcome, _, err := m.refresher.Refresh(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, outcome)
		})
	}
}

func TestRefresher_TransientFailureLeavesTokenAlone(t *testing.T) {
	m := setupTestRefresher(t)
	token := solToken()

	// no reaper call and no store writes
	m.market.EXPECT().GetTokenProfile(gomock.Any(), domain.ChainSolana, token.ContractAddress).
		Return(nil, &adapter.StatusError{StatusCode: 429})

	outcome, _, err := m.refresher.Refresh(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, sweeper.OutcomeFailed, outcome)
	assert.Equal(t, 429, adapter.StatusCode(err))
}

func TestRefresher_UnsupportedChainIsSkipped(t *testing.T) {
	m := setupTestRefresher(t)
	token := &schema.Token{ID: 4, Chain: domain.Chain("XYZ"), ContractAddress: "abc"}

	m.market.EXPECT().GetTokenProfile(gomock.Any(), domain.Chain("XYZ"), "abc").Return(nil, domain.ErrUnsupportedChain)

	outcome, _, err := m.refresher.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnsupportedChain)
	assert.Equal(t, sweeper.OutcomeSkipped, outcome)
}

func TestRefresher_TokenDeletedConcurrentlyIsSkipped(t *testing.T) {
	m := setupTestRefresher(t)
	token := solToken()

	m.market.EXPECT().GetTokenProfile(gomock.Any(), domain.ChainSolana, token.ContractAddress).Return(testProfile(), nil)
	m.holders.EXPECT().GetHoldersCount(gomock.Any(), token.ContractAddress).Return(int64(1), nil)
	m.store.EXPECT().ApplyMarketRefresh(gomock.Any(), int64(1), gomock.Any()).Return(nil, domain.ErrTokenNotFound)

	outcome, _, err := m.refresher.Refresh(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sweeper.OutcomeSkipped, outcome)
}

func TestRefreshInput(t *testing.T) {
	input := sweeper.RefreshInput(nil, refreshedAt)
	assert.Equal(t, refreshedAt, input.RefreshedAt)
	assert.Nil(t, input.MarketCap)

	profile := testProfile()
	input = sweeper.RefreshInput(profile, refreshedAt)
	assert.Same(t, profile.MarketCap, input.MarketCap)
	assert.Same(t, profile.URL, input.DexScreenerURL)
	assert.Equal(t, int64(4), input.Sells1h)
	assert.Nil(t, input.Volume24h)

	volume24h, change := 98_000.0, -7.5
	profile.Volume24h = &volume24h
	profile.PriceChange24h = &change
	input = sweeper.RefreshInput(profile, refreshedAt)
	assert.Equal(t, 98_000.0, *input.Volume24h)
	assert.Equal(t, -7.5, *input.PriceChange24h)
}

func setupTestSweeper(t *testing.T, batchSize int) (sweeper.MarketRefreshSweeper, *mocks.MockStore, *mocks.MockRefresher, *mocks.MockClock) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	refresher := mocks.NewMockRefresher(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(refreshedAt).AnyTimes()
	clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	s := sweeper.NewMarketRefreshSweeper(sweeper.MarketRefreshSweeperConfig{
		Interval:       time.Minute,
		BatchSize:      batchSize,
		WorkerPoolSize: 2,
	}, st, refresher, clock)
	return s, st, refresher, clock
}

func TestMarketRefreshSweeper_Name(t *testing.T) {
	s, _, _, _ := setupTestSweeper(t, 10)
	assert.Equal(t, "market-refresh-sweeper", s.Name())
}

func TestMarketRefreshSweeper_RunCycleCountsOutcomes(t *testing.T) {
	s, st, refresher, _ := setupTestSweeper(t, 2)

	gomock.InOrder(
		st.EXPECT().ListTokensAfterID(gomock.Any(), int64(0), 2).Return([]schema.Token{{ID: 1}, {ID: 2}}, nil),
		st.EXPECT().ListTokensAfterID(gomock.Any(), int64(2), 2).Return([]schema.Token{{ID: 5}}, nil),
	)

	outcomes := map[int64]sweeper.Outcome{
		1: sweeper.OutcomeUpdated,
		2: sweeper.OutcomeFailed,
		5: sweeper.OutcomeDeleted,
	}
	refresher.EXPECT().
		Refresh(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token *schema.Token) (sweeper.Outcome, *schema.Token, error) {
			outcome := outcomes[token.ID]
			if outcome == sweeper.OutcomeFailed {
				return outcome, nil, errors.New("dexscreener timeout")
			}
			return outcome, nil, nil
		}).
		Times(3)

	result, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, result.CycleID)
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, int64(1), result.Updated)
	assert.Equal(t, int64(1), result.Failed)
	assert.Equal(t, int64(1), result.Deleted)
	assert.Zero(t, result.Suspected)
	assert.Zero(t, result.Skipped)
}

func TestMarketRefreshSweeper_RunCycleListError(t *testing.T) {
	s, st, _, _ := setupTestSweeper(t, 2)

	st.EXPECT().ListTokensAfterID(gomock.Any(), int64(0), 2).Return(nil, errors.New("db down"))

	result, err := s.RunCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list tokens")
	assert.Zero(t, result.Total)
}

func TestMarketRefreshSweeper_StartStopsOnContextCancel(t *testing.T) {
	s, st, _, clock := setupTestSweeper(t, 2)
	ctx, cancel := context.WithCancel(context.Background())

	never := make(chan time.Time)
	clock.EXPECT().After(time.Minute).Return(never).AnyTimes()
	st.EXPECT().ListTokensAfterID(gomock.Any(), int64(0), 2).
		DoAndReturn(func(context.Context, int64, int) ([]schema.Token, error) {
			cancel()
			return nil, nil
		})

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
