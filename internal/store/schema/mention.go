package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Mention represents the mentions table - the audit history of every detection of a token in a message
type Mention struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID references the mentioned token
	TokenID int64 `gorm:"column:token_id;not null;uniqueIndex:idx_mentions_token_channel_message,priority:1"`
	// ChannelID references the channel the message came from
	ChannelID int64 `gorm:"column:channel_id;not null;uniqueIndex:idx_mentions_token_channel_message,priority:2"`
	// MessageID is the Telegram message id within the channel
	MessageID int64 `gorm:"column:message_id;not null;uniqueIndex:idx_mentions_token_channel_message,priority:3"`
	// IsFromGroup is copied from the channel at mention time
	IsFromGroup bool `gorm:"column:is_from_group;not null;default:false"`
	// MarketCap is the market cap observed when the mention was detected
	MarketCap *float64 `gorm:"column:market_cap;type:double precision"`
	// Text is the message text
	Text string `gorm:"column:text;not null;type:text;default:''"`
	// Raw is the ingested event payload
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// MentionedAt is the message timestamp
	MentionedAt time.Time `gorm:"column:mentioned_at;not null;type:timestamptz;index:idx_mentions_token_time"`
	// CreatedAt is the timestamp when this record was stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Mention model
func (Mention) TableName() string {
	return "mentions"
}
