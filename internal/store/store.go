package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

// CreateTokenInput holds the natural key and seed fields for a get-or-create
type CreateTokenInput struct {
	Chain           domain.Chain
	ContractAddress string
	Symbol          string
	Name            *string
	// MarketCap seeds first_market_cap and market_cap on insert
	MarketCap *float64
}

// UpsertTokenResult is the outcome of UpsertTokenByContract
type UpsertTokenResult struct {
	Token  *schema.Token
	Result domain.UpsertResult
}

// Created reports whether the token row was inserted by this call
func (r UpsertTokenResult) Created() bool {
	return r.Result == domain.UpsertCreated
}

// MarketRefreshInput holds the market fields written by a successful refresh.
// Nil pointers leave the column unchanged.
type MarketRefreshInput struct {
	Symbol         *string
	Name           *string
	ImageURL       *string
	Website        *string
	Twitter        *string
	Telegram       *string
	MarketCap      *float64
	Price          *float64
	Liquidity      *float64
	Volume1h       *float64
	Volume24h      *float64
	PriceChange24h *float64
	Buys1h         int64
	Sells1h        int64
	HoldersCount   *int64
	DexScreenerURL *string
	RefreshedAt    time.Time
}

// CreateMentionInput holds the fields for recording a mention and its ledger entry
type CreateMentionInput struct {
	TokenID     int64
	ChannelID   int64
	MessageID   int64
	IsFromGroup bool
	MarketCap   *float64
	Text        string
	Raw         datatypes.JSON
	MentionedAt time.Time
}

// RecordMentionResult reports what RecordMention inserted
type RecordMentionResult struct {
	Mention *schema.Mention
	// MentionCreated is false when the (token, channel, message) triple was already recorded
	MentionCreated bool
	// MarkCreated is true when this call inserted the (token, channel) ledger row
	MarkCreated bool
}

// LedgerEntry is one distinct channel from the tokens_mark ledger joined with its current member count
type LedgerEntry struct {
	ChannelID   int64 `gorm:"column:channel_id"`
	MemberCount int64 `gorm:"column:member_count"`
}

// UpsertChannelInput holds the snapshot fields written by the discovery job
type UpsertChannelInput struct {
	Ref         domain.ChannelRef
	Name        *string
	Chain       *domain.Chain
	MemberCount int64
}

// TokenSort is a sortable token column
type TokenSort string

const (
	TokenSortCommunityReach TokenSort = "community_reach"
	TokenSortSpreadCount    TokenSort = "spread_count"
	TokenSortMarketCap      TokenSort = "market_cap"
	TokenSortFirstUpdate    TokenSort = "first_update"
)

// IsValid reports whether the sort column is supported
func (s TokenSort) IsValid() bool {
	switch s {
	case TokenSortCommunityReach, TokenSortSpreadCount, TokenSortMarketCap, TokenSortFirstUpdate:
		return true
	}
	return false
}

// TokenFilter narrows ListTokens
type TokenFilter struct {
	Chains []domain.Chain
	SortBy TokenSort
	Asc    bool
	Limit  int
	Offset int
}

// TokenHistoryFilter selects a token's snapshots in [From, To)
type TokenHistoryFilter struct {
	TokenID int64
	From    *time.Time
	To      *time.Time
	Limit   int
}

// TxFunc runs against a Store bound to an open transaction
type TxFunc func(tx Store) error

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// =========================================================================
	// Channel directory
	// =========================================================================

	// GetOrCreateChannel returns the channel for ref, registering it with member_count 0 when unseen
	GetOrCreateChannel(ctx context.Context, ref domain.ChannelRef, name *string, chain *domain.Chain) (*schema.Channel, error)
	// GetChannelByRef retrieves a channel by username or telegram id, nil if not registered
	GetChannelByRef(ctx context.Context, ref domain.ChannelRef) (*schema.Channel, error)
	// UpsertChannelSnapshot writes a discovery snapshot and reports whether member_count changed
	UpsertChannelSnapshot(ctx context.Context, input UpsertChannelInput) (*schema.Channel, bool, error)
	// ListChannels lists channels ordered by member count
	ListChannels(ctx context.Context, activeOnly bool, limit, offset int) ([]schema.Channel, int64, error)

	// =========================================================================
	// Tokens
	// =========================================================================

	// GetTokenByID retrieves a token by its internal ID, nil if absent
	GetTokenByID(ctx context.Context, tokenID int64) (*schema.Token, error)
	// GetTokenByContract retrieves a token by its natural key, nil if absent
	GetTokenByContract(ctx context.Context, chain domain.Chain, contractAddress string) (*schema.Token, error)
	// UpsertTokenByContract gets or creates a token by (chain, contract). Existing rows are returned unmodified.
	UpsertTokenByContract(ctx context.Context, input CreateTokenInput) (*UpsertTokenResult, error)
	// ApplyMarketRefresh writes market fields, bumps last_update and clears suspect_since.
	// first_market_cap and first_price are only filled while NULL.
	ApplyMarketRefresh(ctx context.Context, tokenID int64, input MarketRefreshInput) (*schema.Token, error)
	// ApplyCounters writes spread_count and community_reach without touching other columns
	ApplyCounters(ctx context.Context, tokenID int64, spreadCount, communityReach int64) error
	// MarkTokenSuspect sets suspect_since if it is not already set
	MarkTokenSuspect(ctx context.Context, tokenID int64, at time.Time) error
	// WithTokenLock runs fn in a transaction holding a row lock on the token.
	// Returns domain.ErrTokenNotFound when the token does not exist.
	WithTokenLock(ctx context.Context, tokenID int64, fn TxFunc) error
	// DeleteToken removes the token's ledger rows, mentions, history and the token itself in one transaction
	DeleteToken(ctx context.Context, tokenID int64) error
	// ListTokens lists tokens for the dashboard
	ListTokens(ctx context.Context, filter TokenFilter) ([]schema.Token, int64, error)
	// ListTokensAfterID returns up to limit tokens with id > afterID ordered by id
	ListTokensAfterID(ctx context.Context, afterID int64, limit int) ([]schema.Token, error)

	// =========================================================================
	// Mentions and ledger
	// =========================================================================

	// RecordMention inserts the mention row and inserts the (token, channel) ledger row if absent, in one transaction
	RecordMention(ctx context.Context, input CreateMentionInput) (*RecordMentionResult, error)
	// GetReachLedger returns the distinct channels that have mentioned a token with their current member counts
	GetReachLedger(ctx context.Context, tokenID int64) ([]LedgerEntry, error)
	// GetTokenIDsByChannel returns the ids of tokens a channel has ever mentioned
	GetTokenIDsByChannel(ctx context.Context, channelID int64) ([]int64, error)
	// GetMentionsByToken returns a token's mention history, newest first
	GetMentionsByToken(ctx context.Context, tokenID int64, limit, offset int) ([]schema.Mention, int64, error)

	// =========================================================================
	// Token history
	// =========================================================================

	// CreateTokenHistory inserts snapshots, skipping any (token, snapshot_at) already stored.
	// Returns the number of rows inserted.
	CreateTokenHistory(ctx context.Context, snapshots []schema.TokenHistory) (int64, error)
	// GetTokenHistory returns a token's snapshots, oldest first
	GetTokenHistory(ctx context.Context, filter TokenHistoryFilter) ([]schema.TokenHistory, error)
}
