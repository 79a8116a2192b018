package schema

import (
	"time"
)

// TokenMark represents the tokens_mark table - the ledger of (token, channel) pairs already
// reflected in a token's spread_count and community_reach
type TokenMark struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID references the token
	TokenID int64 `gorm:"column:token_id;not null;uniqueIndex:idx_tokens_mark_token_channel,priority:1"`
	// ChannelID references the channel that contributed
	ChannelID int64 `gorm:"column:channel_id;not null;uniqueIndex:idx_tokens_mark_token_channel,priority:2;index:idx_tokens_mark_channel"`
	// MessageID is the message that produced the propagation event
	MessageID int64 `gorm:"column:message_id;not null"`
	// MarketCap is the market cap at the propagation event
	MarketCap *float64 `gorm:"column:market_cap;type:double precision"`
	// MentionTime is when the channel first mentioned the token
	MentionTime time.Time `gorm:"column:mention_time;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TokenMark model
func (TokenMark) TableName() string {
	return "tokens_mark"
}
