package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/api/shared/dto"
	apierrors "github.com/feral-file/tg-mention-indexer/internal/api/shared/errors"
	"github.com/feral-file/tg-mention-indexer/internal/api/shared/types"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/sweeper"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetTokens lists tokens for the dashboard
	GetTokens(ctx context.Context, chains []domain.Chain, sortBy store.TokenSort, order types.Order, limit, offset int) (*dto.TokenListResponse, error)

	// GetToken retrieves a token by its natural key, nil if absent
	GetToken(ctx context.Context, chain domain.Chain, contractAddress string) (*dto.TokenResponse, error)

	// GetTokenMentions retrieves a token's mention timeline, nil if the token is absent
	GetTokenMentions(ctx context.Context, chain domain.Chain, contractAddress string, limit, offset int) (*dto.MentionListResponse, error)

	// GetTokenHistory retrieves a token's snapshots in [from, to), nil if the token is absent
	GetTokenHistory(ctx context.Context, chain domain.Chain, contractAddress string, from, to *time.Time, limit int) (*dto.TokenHistoryResponse, error)

	// GetChannels lists the channel directory by member count
	GetChannels(ctx context.Context, activeOnly bool, limit, offset int) (*dto.ChannelListResponse, error)

	// TriggerTokenIndexing gets or creates each token and refreshes its market data right away
	TriggerTokenIndexing(ctx context.Context, items []dto.IndexTokenItem) (*dto.TriggerIndexingResponse, error)
}

type executor struct {
	store     store.Store
	refresher sweeper.Refresher
	pool      pond.Pool
}

// NewExecutor creates the executor. refresher may be nil, in which case indexed tokens
// wait for the next refresh cycle.
func NewExecutor(st store.Store, refresher sweeper.Refresher, pool pond.Pool) Executor {
	return &executor{store: st, refresher: refresher, pool: pool}
}

func (e *executor) GetTokens(ctx context.Context, chains []domain.Chain, sortBy store.TokenSort, order types.Order, limit, offset int) (*dto.TokenListResponse, error) {
	tokens, total, err := e.store.ListTokens(ctx, store.TokenFilter{
		Chains: chains,
		SortBy: sortBy,
		Asc:    order.Asc(),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get tokens: %v", err))
	}

	resp := &dto.TokenListResponse{
		Tokens: make([]dto.TokenResponse, len(tokens)),
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}
	for i := range tokens {
		resp.Tokens[i] = *dto.MapTokenToDTO(&tokens[i])
	}
	return resp, nil
}

func (e *executor) GetToken(ctx context.Context, chain domain.Chain, contractAddress string) (*dto.TokenResponse, error) {
	token, err := e.store.GetTokenByContract(ctx, chain, contractAddress)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get token: %v", err))
	}
	if token == nil {
		return nil, nil
	}
	return dto.MapTokenToDTO(token), nil
}

func (e *executor) GetTokenMentions(ctx context.Context, chain domain.Chain, contractAddress string, limit, offset int) (*dto.MentionListResponse, error) {
	token, err := e.store.GetTokenByContract(ctx, chain, contractAddress)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get token: %v", err))
	}
	if token == nil {
		return nil, nil
	}

	mentions, total, err := e.store.GetMentionsByToken(ctx, token.ID, limit, offset)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get mentions: %v", err))
	}

	resp := &dto.MentionListResponse{
		Token:    *dto.MapTokenToDTO(token),
		Mentions: make([]dto.MentionResponse, len(mentions)),
		Total:    total,
		Offset:   offset,
		Limit:    limit,
	}
	for i := range mentions {
		resp.Mentions[i] = *dto.MapMentionToDTO(&mentions[i])
	}
	return resp, nil
}

func (e *executor) GetTokenHistory(ctx context.Context, chain domain.Chain, contractAddress string, from, to *time.Time, limit int) (*dto.TokenHistoryResponse, error) {
	token, err := e.store.GetTokenByContract(ctx, chain, contractAddress)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get token: %v", err))
	}
	if token == nil {
		return nil, nil
	}

	history, err := e.store.GetTokenHistory(ctx, store.TokenHistoryFilter{
		TokenID: token.ID,
		From:    from,
		To:      to,
		Limit:   limit,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get token history: %v", err))
	}

	resp := &dto.TokenHistoryResponse{
		Token:   *dto.MapTokenToDTO(token),
		History: make([]dto.TokenHistoryPoint, len(history)),
		Limit:   limit,
	}
	for i := range history {
		resp.History[i] = *dto.MapTokenHistoryToDTO(&history[i])
	}
	return resp, nil
}

func (e *executor) GetChannels(ctx context.Context, activeOnly bool, limit, offset int) (*dto.ChannelListResponse, error) {
	channels, total, err := e.store.ListChannels(ctx, activeOnly, limit, offset)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get channels: %v", err))
	}

	resp := &dto.ChannelListResponse{
		Channels: make([]dto.ChannelResponse, len(channels)),
		Total:    total,
		Offset:   offset,
		Limit:    limit,
	}
	for i := range channels {
		resp.Channels[i] = *dto.MapChannelToDTO(&channels[i])
	}
	return resp, nil
}

func (e *executor) TriggerTokenIndexing(ctx context.Context, items []dto.IndexTokenItem) (*dto.TriggerIndexingResponse, error) {
	results := make([]dto.IndexTokenResult, len(items))

	var mu sync.Mutex
	var firstErr error
	group := e.pool.NewGroup()
	for i, item := range items {
		group.Submit(func() {
			result, err := e.indexOne(ctx, item)
			results[i] = result
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
	}
	if err := group.Wait(); err != nil {
		return nil, apierrors.NewInternalError("Failed to index tokens", err.Error())
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return &dto.TriggerIndexingResponse{Results: results}, nil
}

// indexOne returns an error only for store failures. Market failures are reported in the result.
func (e *executor) indexOne(ctx context.Context, item dto.IndexTokenItem) (dto.IndexTokenResult, error) {
	result := dto.IndexTokenResult{Chain: item.Chain, ContractAddress: item.ContractAddress}

	symbol := ""
	if item.Symbol != nil {
		symbol = *item.Symbol
	}
	upsert, err := e.store.UpsertTokenByContract(ctx, store.CreateTokenInput{
		Chain:           domain.Chain(item.Chain),
		ContractAddress: item.ContractAddress,
		Symbol:          symbol,
		Name:            item.Name,
	})
	if err != nil {
		return result, apierrors.NewDatabaseError(fmt.Sprintf("Failed to upsert token: %v", err))
	}
	result.Created = upsert.Created()
	result.Token = dto.MapTokenToDTO(upsert.Token)

	if e.refresher == nil {
		result.Outcome = string(sweeper.OutcomeSkipped)
		return result, nil
	}

	outcome, updated, err := e.refresher.Refresh(ctx, upsert.Token)
	result.Outcome = string(outcome)
	if err != nil {
		result.Error = err.Error()
		logger.WarnCtx(ctx, "Immediate refresh failed",
			zap.String("chain", item.Chain),
			zap.String("contract", item.ContractAddress),
			zap.Error(err))
	}
	switch {
	case outcome == sweeper.OutcomeDeleted:
		result.Token = nil
	case updated != nil:
		result.Token = dto.MapTokenToDTO(updated)
	}

	return result, nil
}
