package dto

import (
	"time"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

// ChannelResponse is a directory entry
type ChannelResponse struct {
	ID          int64         `json:"id"`
	Ref         string        `json:"ref"`
	Username    *string       `json:"username"`
	TelegramID  *int64        `json:"telegram_id"`
	Name        *string       `json:"name"`
	Chain       *domain.Chain `json:"chain"`
	IsGroup     bool          `json:"is_group"`
	MemberCount int64         `json:"member_count"`
	IsActive    bool          `json:"is_active"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ChannelListResponse is a page of channels
type ChannelListResponse struct {
	Channels []ChannelResponse `json:"channels"`
	Total    int64             `json:"total"`
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
}

// MapChannelToDTO maps a channel row to its response
func MapChannelToDTO(ch *schema.Channel) *ChannelResponse {
	return &ChannelResponse{
		ID:          ch.ID,
		Ref:         ch.Ref().String(),
		Username:    ch.Username,
		TelegramID:  ch.TelegramID,
		Name:        ch.Name,
		Chain:       ch.Chain,
		IsGroup:     ch.IsGroup,
		MemberCount: ch.MemberCount,
		IsActive:    ch.IsActive,
		UpdatedAt:   ch.UpdatedAt,
	}
}

// MentionResponse is one entry of a token's mention timeline
type MentionResponse struct {
	ID                 int64     `json:"id"`
	ChannelID          int64     `json:"channel_id"`
	MessageID          int64     `json:"message_id"`
	IsFromGroup        bool      `json:"is_from_group"`
	MarketCap          *float64  `json:"market_cap"`
	MarketCapFormatted string    `json:"market_cap_formatted"`
	Text               string    `json:"text"`
	MentionedAt        time.Time `json:"mentioned_at"`
}

// MentionListResponse is a page of a token's mentions, newest first
type MentionListResponse struct {
	Token    TokenResponse     `json:"token"`
	Mentions []MentionResponse `json:"mentions"`
	Total    int64             `json:"total"`
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
}

// MapMentionToDTO maps a mention row to its response
func MapMentionToDTO(m *schema.Mention) *MentionResponse {
	return &MentionResponse{
		ID:                 m.ID,
		ChannelID:          m.ChannelID,
		MessageID:          m.MessageID,
		IsFromGroup:        m.IsFromGroup,
		MarketCap:          m.MarketCap,
		MarketCapFormatted: domain.FormatMarketCap(m.MarketCap),
		Text:               m.Text,
		MentionedAt:        m.MentionedAt,
	}
}
