package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelRef(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		isGroup  bool
		expected ChannelRef
		wantErr  bool
	}{
		{
			name:     "channel username",
			raw:      "MomentumTrackerCN",
			expected: ChannelRef{Username: "MomentumTrackerCN"},
		},
		{
			name:     "username with at sign",
			raw:      "@MomentumTrackerCN",
			expected: ChannelRef{Username: "MomentumTrackerCN"},
		},
		{
			name:     "group numeric id",
			raw:      "1234567890",
			isGroup:  true,
			expected: ChannelRef{TelegramID: 1234567890, IsGroup: true},
		},
		{
			name:     "supergroup negative id",
			raw:      "-1001234567890",
			isGroup:  true,
			expected: ChannelRef{TelegramID: -1001234567890, IsGroup: true},
		},
		{
			name:    "empty",
			raw:     "@",
			wantErr: true,
		},
		{
			name:    "zero id",
			raw:     "0",
			isGroup: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseChannelRef(tt.raw, tt.isGroup)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidChannelRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
		})
	}
}

func TestChannelRef_String(t *testing.T) {
	assert.Equal(t, "@MomentumTrackerCN", ChannelRef{Username: "MomentumTrackerCN"}.String())
	assert.Equal(t, "1234567890", ChannelRef{TelegramID: 1234567890, IsGroup: true}.String())
}

func TestMentionEvent_Validate(t *testing.T) {
	negative := -1.0
	valid := MentionEvent{
		Chain:           "SOL",
		ContractAddress: "So11111111111111111111111111111111111111112",
		ChannelID:       "MomentumTrackerCN",
		MessageID:       42,
	}

	require.NoError(t, valid.Validate())

	noChain := valid
	noChain.Chain = ""
	assert.ErrorIs(t, noChain.Validate(), ErrInvalidMention)

	noContract := valid
	noContract.ContractAddress = " "
	assert.ErrorIs(t, noContract.Validate(), ErrInvalidMention)

	noChannel := valid
	noChannel.ChannelID = ""
	assert.ErrorIs(t, noChannel.Validate(), ErrInvalidMention)

	noMessage := valid
	noMessage.MessageID = 0
	assert.ErrorIs(t, noMessage.Validate(), ErrInvalidMention)

	badHint := valid
	badHint.MarketCapHint = &negative
	assert.ErrorIs(t, badHint.Validate(), ErrInvalidMention)
}

func TestChannelUpdateEvent_Validate(t *testing.T) {
	require.NoError(t, ChannelUpdateEvent{ChannelID: "MomentumTrackerCN", MemberCount: 800}.Validate())
	assert.ErrorIs(t, ChannelUpdateEvent{MemberCount: 800}.Validate(), ErrInvalidChannelRef)
	assert.Error(t, ChannelUpdateEvent{ChannelID: "x", MemberCount: -5}.Validate())
}
