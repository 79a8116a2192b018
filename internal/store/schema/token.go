package schema

import (
	"time"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
)

// Token represents the tokens table - one row per (chain, contract) mentioned on Telegram
type Token struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Chain is the short chain code (e.g., "SOL", "ETH")
	Chain domain.Chain `gorm:"column:chain;not null;type:text;uniqueIndex:idx_tokens_chain_contract,priority:1"`
	// ContractAddress is the normalized contract or mint address
	ContractAddress string `gorm:"column:contract_address;not null;type:text;uniqueIndex:idx_tokens_chain_contract,priority:2"`
	// Symbol is the token ticker
	Symbol string `gorm:"column:symbol;not null;type:text;default:''"`
	// Name is the token display name
	Name *string `gorm:"column:name;type:text"`
	// ImageURL points to the token logo
	ImageURL *string `gorm:"column:image_url;type:text"`
	// Website, Twitter and Telegram are social links reported by the market source
	Website  *string `gorm:"column:website;type:text"`
	Twitter  *string `gorm:"column:twitter;type:text"`
	Telegram *string `gorm:"column:telegram;type:text"`

	// MarketCap is the latest market cap in USD
	MarketCap *float64 `gorm:"column:market_cap;type:double precision"`
	// MarketCap1h is the market cap observed by the previous refresh
	MarketCap1h *float64 `gorm:"column:market_cap_1h;type:double precision"`
	// FirstMarketCap is captured on first enrichment and never overwritten
	FirstMarketCap *float64 `gorm:"column:first_market_cap;type:double precision"`
	// Price is the latest USD price
	Price *float64 `gorm:"column:price;type:double precision"`
	// FirstPrice is captured on first enrichment and never overwritten
	FirstPrice *float64 `gorm:"column:first_price;type:double precision"`
	// Liquidity is the deepest pool liquidity in USD
	Liquidity *float64 `gorm:"column:liquidity;type:double precision"`
	// Volume1h is the summed 1h volume across pairs
	Volume1h *float64 `gorm:"column:volume_1h;type:double precision"`
	// Volume24h is the summed 24h volume across pairs
	Volume24h *float64 `gorm:"column:volume_24h;type:double precision"`
	// PriceChange24h is the 24h price change in percent
	PriceChange24h *float64 `gorm:"column:price_change_24h;type:double precision"`
	// Buys1h and Sells1h are summed 1h transaction counts across pairs
	Buys1h  int64 `gorm:"column:buys_1h;not null;default:0"`
	Sells1h int64 `gorm:"column:sells_1h;not null;default:0"`
	// HoldersCount is the number of holder accounts when the chain supports it
	HoldersCount *int64 `gorm:"column:holders_count"`
	// DexScreenerURL links to the primary pair
	DexScreenerURL *string `gorm:"column:dexscreener_url;type:text"`

	// CommunityReach is the summed member count of distinct mentioning channels
	CommunityReach int64 `gorm:"column:community_reach;not null;default:0;index:idx_tokens_community_reach"`
	// SpreadCount is the number of distinct mentioning channels
	SpreadCount int64 `gorm:"column:spread_count;not null;default:0"`
	// LikesCount is the like counter surfaced on the dashboard
	LikesCount int64 `gorm:"column:likes_count;not null;default:0"`

	// SuspectSince is set when the market source first reported no pairs and cleared on the next successful refresh
	SuspectSince *time.Time `gorm:"column:suspect_since;type:timestamptz"`
	// FirstUpdate is the creation timestamp
	FirstUpdate time.Time `gorm:"column:first_update;not null;default:now();type:timestamptz;<-:create"`
	// LastUpdate is bumped on every successful market refresh
	LastUpdate time.Time `gorm:"column:last_update;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
