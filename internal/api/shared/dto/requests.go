package dto

import (
	"fmt"

	"github.com/feral-file/tg-mention-indexer/internal/api/shared/constants"
	apierrors "github.com/feral-file/tg-mention-indexer/internal/api/shared/errors"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
)

// IndexTokenItem identifies one token to index
type IndexTokenItem struct {
	Chain           string  `json:"chain"`
	ContractAddress string  `json:"contract_address"`
	Symbol          *string `json:"symbol,omitempty"`
	Name            *string `json:"name,omitempty"`
}

// TriggerTokenIndexingRequest represents the request body for POST /tokens/index
type TriggerTokenIndexingRequest struct {
	Tokens []IndexTokenItem `json:"tokens"`
}

// Validate checks the request shape and normalizes each chain and contract in place
func (r *TriggerTokenIndexingRequest) Validate() error {
	if len(r.Tokens) == 0 {
		return apierrors.NewValidationError("tokens is required")
	}

	if len(r.Tokens) > constants.MAX_TOKENS_PER_INDEX_REQUEST {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d tokens allowed", constants.MAX_TOKENS_PER_INDEX_REQUEST))
	}

	for i := range r.Tokens {
		item := &r.Tokens[i]
		chain, err := domain.ParseChain(item.Chain)
		if err != nil {
			return apierrors.NewValidationError(fmt.Sprintf("tokens[%d]: %v", i, err))
		}
		contract, err := domain.NormalizeContract(chain, item.ContractAddress)
		if err != nil {
			return apierrors.NewValidationError(fmt.Sprintf("tokens[%d]: %v", i, err))
		}
		item.Chain = string(chain)
		item.ContractAddress = contract
	}

	return nil
}
