package schema

import "time"

// TokenHistory represents the token_history table - a point-in-time copy of a token's market
// fields and propagation counters, taken on the snapshot schedule
type TokenHistory struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID references the snapshotted token
	TokenID int64 `gorm:"column:token_id;not null;uniqueIndex:idx_token_history_token_snapshot,priority:1"`
	// Symbol is the token symbol at snapshot time
	Symbol string `gorm:"column:symbol;not null;type:text;default:''"`
	// SnapshotAt is the scheduled slot the snapshot belongs to
	SnapshotAt time.Time `gorm:"column:snapshot_at;not null;type:timestamptz;uniqueIndex:idx_token_history_token_snapshot,priority:2"`

	MarketCap      *float64 `gorm:"column:market_cap;type:double precision"`
	Price          *float64 `gorm:"column:price;type:double precision"`
	Liquidity      *float64 `gorm:"column:liquidity;type:double precision"`
	Volume1h       *float64 `gorm:"column:volume_1h;type:double precision"`
	Volume24h      *float64 `gorm:"column:volume_24h;type:double precision"`
	HoldersCount   *int64   `gorm:"column:holders_count"`
	Buys1h         int64    `gorm:"column:buys_1h;not null;default:0"`
	Sells1h        int64    `gorm:"column:sells_1h;not null;default:0"`
	CommunityReach int64    `gorm:"column:community_reach;not null;default:0"`
	SpreadCount    int64    `gorm:"column:spread_count;not null;default:0"`
	// MarketCapChangePct is the market cap change against first_market_cap in percent
	MarketCapChangePct *float64 `gorm:"column:market_cap_change_pct;type:double precision"`
	// PriceChangePct is the 24h price change reported by the market source
	PriceChangePct *float64 `gorm:"column:price_change_pct;type:double precision"`

	// CreatedAt is the timestamp when this record was stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TokenHistory model
func (TokenHistory) TableName() string {
	return "token_history"
}
