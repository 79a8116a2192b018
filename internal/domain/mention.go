package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MentionEvent is a detected token mention published by the Telegram listener.
// One event is emitted per contract address found in a message.
type MentionEvent struct {
	Chain           string     `json:"chain"`                     // e.g. "SOL", "ETH"
	ContractAddress string     `json:"contract_address"`          // contract or mint address as seen in the message
	Symbol          *string    `json:"symbol,omitempty"`          // ticker if the message carried one
	Name            *string    `json:"name,omitempty"`            // token name if known
	ChannelID       string     `json:"channel_id"`                // username for channels, numeric id for groups
	ChannelName     *string    `json:"channel_name,omitempty"`    // display title
	ChannelIsGroup  bool       `json:"channel_is_group"`          // message came from a group or supergroup
	MessageID       int64      `json:"message_id"`                // Telegram message id within the channel
	Text            string     `json:"text"`                      // message text
	MarketCapHint   *float64   `json:"market_cap_hint,omitempty"` // market cap quoted in the message or observed at detection
	MentionedAt     *time.Time `json:"mentioned_at,omitempty"`    // message timestamp, defaults to receive time
}

// Validate checks the fields required to record a mention
func (e MentionEvent) Validate() error {
	if strings.TrimSpace(e.Chain) == "" {
		return fmt.Errorf("%w: chain is required", ErrInvalidMention)
	}
	if strings.TrimSpace(e.ContractAddress) == "" {
		return fmt.Errorf("%w: contract_address is required", ErrInvalidMention)
	}
	if strings.TrimSpace(e.ChannelID) == "" {
		return fmt.Errorf("%w: channel_id is required", ErrInvalidMention)
	}
	if e.MessageID <= 0 {
		return fmt.Errorf("%w: message_id must be positive", ErrInvalidMention)
	}
	if e.MarketCapHint != nil && *e.MarketCapHint < 0 {
		return fmt.Errorf("%w: market_cap_hint must not be negative", ErrInvalidMention)
	}
	return nil
}

// ChannelUpdateEvent is published by the channel discovery job when it refreshes a channel snapshot
type ChannelUpdateEvent struct {
	ChannelID      string  `json:"channel_id"`
	ChannelIsGroup bool    `json:"channel_is_group"`
	ChannelName    *string `json:"channel_name,omitempty"`
	Chain          *string `json:"chain,omitempty"`
	MemberCount    int64   `json:"member_count"`
}

// Validate checks the fields required to apply a channel update
func (e ChannelUpdateEvent) Validate() error {
	if strings.TrimSpace(e.ChannelID) == "" {
		return fmt.Errorf("%w: channel_id is required", ErrInvalidChannelRef)
	}
	if e.MemberCount < 0 {
		return fmt.Errorf("%w: member_count must not be negative: %d", ErrInvalidChannelUpdate, e.MemberCount)
	}
	return nil
}

// ChannelRef identifies a channel or group in the directory.
// Exactly one of Username or TelegramID is set.
type ChannelRef struct {
	Username   string
	TelegramID int64
	IsGroup    bool
}

// ParseChannelRef resolves a raw channel identifier. Numeric values (including the negative
// ids Telegram assigns to supergroups) become TelegramID, anything else is a username.
func ParseChannelRef(raw string, isGroup bool) (ChannelRef, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if raw == "" {
		return ChannelRef{}, ErrInvalidChannelRef
	}

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if id == 0 {
			return ChannelRef{}, fmt.Errorf("%w: zero id", ErrInvalidChannelRef)
		}
		return ChannelRef{TelegramID: id, IsGroup: isGroup}, nil
	}

	return ChannelRef{Username: raw, IsGroup: isGroup}, nil
}

// HasUsername reports whether the reference is keyed by username
func (r ChannelRef) HasUsername() bool {
	return r.Username != ""
}

func (r ChannelRef) String() string {
	if r.HasUsername() {
		return "@" + r.Username
	}
	return strconv.FormatInt(r.TelegramID, 10)
}
