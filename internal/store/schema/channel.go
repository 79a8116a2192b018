package schema

import (
	"time"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
)

// Channel represents the channels table - monitored Telegram channels and groups.
// Channels are keyed by username. Groups lack usernames and are keyed by telegram_id.
type Channel struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Username is the public channel username without the leading @
	Username *string `gorm:"column:username;type:text;uniqueIndex"`
	// TelegramID is the numeric Telegram id, used for groups
	TelegramID *int64 `gorm:"column:telegram_id;uniqueIndex"`
	// Name is the channel display title
	Name *string `gorm:"column:name;type:text"`
	// Chain is the chain the channel mostly discusses, if known
	Chain *domain.Chain `gorm:"column:chain;type:text"`
	// IsGroup marks groups and supergroups
	IsGroup bool `gorm:"column:is_group;not null;default:false"`
	// MemberCount is the member count snapshot from the discovery job
	MemberCount int64 `gorm:"column:member_count;not null;default:0"`
	// IsActive marks channels still being monitored
	IsActive bool `gorm:"column:is_active;not null;default:true"`
	// CreatedAt is the timestamp when the channel was first seen
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last snapshot change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Channel model
func (Channel) TableName() string {
	return "channels"
}

// Ref returns the directory reference for the channel
func (c Channel) Ref() domain.ChannelRef {
	ref := domain.ChannelRef{IsGroup: c.IsGroup}
	if c.Username != nil {
		ref.Username = *c.Username
	} else if c.TelegramID != nil {
		ref.TelegramID = *c.TelegramID
	}
	return ref
}
