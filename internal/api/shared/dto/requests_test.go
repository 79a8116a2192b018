package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/feral-file/tg-mention-indexer/internal/api/shared/errors"
)

func TestTriggerTokenIndexingRequest_Validate(t *testing.T) {
	req := TriggerTokenIndexingRequest{Tokens: []IndexTokenItem{
		{Chain: "eth", ContractAddress: "0xdac17f958d2ee523a2206206994597c13d831ec7"},
		{Chain: "solana", ContractAddress: " 7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr"},
	}}

	require.NoError(t, req.Validate())
	assert.Equal(t, "ETH", req.Tokens[0].Chain)
	assert.Equal(t, "0xdAC17F958D2ee523a2206206994597C13D831ec7", req.Tokens[0].ContractAddress)
	assert.Equal(t, "SOL", req.Tokens[1].Chain)
	assert.Equal(t, "7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr", req.Tokens[1].ContractAddress)
}

func TestTriggerTokenIndexingRequest_ValidateErrors(t *testing.T) {
	many := make([]IndexTokenItem, 51)
	for i := range many {
		many[i] = IndexTokenItem{Chain: "ETH", ContractAddress: "0xdAC17F958D2ee523a2206206994597C13D831ec7"}
	}

	tests := []struct {
		name    string
		tokens  []IndexTokenItem
		details string
	}{
		{"empty", nil, "tokens is required"},
		{"too many", many, "maximum 50 tokens allowed"},
		{"unsupported chain", []IndexTokenItem{{Chain: "DOGE", ContractAddress: "abc"}}, "tokens[0]: unsupported chain"},
		{"bad contract", []IndexTokenItem{{Chain: "ETH", ContractAddress: "0x12"}}, "tokens[0]: invalid contract address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := TriggerTokenIndexingRequest{Tokens: tt.tokens}
			err := req.Validate()

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, apierrors.ErrCodeValidationFailed, apiErr.Code)
			assert.True(t, strings.HasPrefix(apiErr.Details, tt.details), apiErr.Details)
		})
	}
}
