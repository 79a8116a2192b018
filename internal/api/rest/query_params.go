package rest

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/tg-mention-indexer/internal/api/shared/constants"
	"github.com/feral-file/tg-mention-indexer/internal/api/shared/types"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/store"
)

// ListTokensQueryParams holds query parameters for GET /tokens
type ListTokensQueryParams struct {
	// Chains accepts repeated or comma separated values: chain=SOL,ETH
	Chains []string        `form:"chain"`
	SortBy store.TokenSort `form:"sort_by"`
	Order  types.Order     `form:"order,default=desc"`

	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`

	// ParsedChains is filled by ParseListTokensQuery
	ParsedChains []domain.Chain `form:"-"`
}

// PageQueryParams holds the pagination of GET /tokens/:chain/:contract/mentions and GET /channels
type PageQueryParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset,default=0"`
}

// ListChannelsQueryParams holds query parameters for GET /channels
type ListChannelsQueryParams struct {
	PageQueryParams
	ActiveOnly bool `form:"active_only,default=true"`
}

// TokenHistoryQueryParams holds query parameters for GET /tokens/:chain/:contract/history
type TokenHistoryQueryParams struct {
	// From and To are inclusive UTC dates in YYYY-MM-DD
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit"`

	// FromTime is the start of From, ToTime the start of the day after To
	FromTime *time.Time `form:"-"`
	ToTime   *time.Time `form:"-"`
}

// ParseListTokensQuery parses query parameters for GET /tokens
func ParseListTokensQuery(c *gin.Context) (*ListTokensQueryParams, error) {
	var params ListTokensQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	for _, raw := range splitValues(params.Chains) {
		chain, err := domain.ParseChain(raw)
		if err != nil {
			return nil, err
		}
		params.ParsedChains = append(params.ParsedChains, chain)
	}

	if params.SortBy == "" {
		params.SortBy = constants.DEFAULT_TOKEN_SORT
	}
	if !params.SortBy.IsValid() {
		return nil, fmt.Errorf("unsupported sort_by: %s", params.SortBy)
	}
	params.Order = types.ParseOrder(string(params.Order))

	params.Limit = clampLimit(params.Limit, constants.DEFAULT_TOKENS_LIMIT)
	if params.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	return &params, nil
}

// ParsePageQuery parses limit and offset with the given default limit
func ParsePageQuery(c *gin.Context, defaultLimit int) (*PageQueryParams, error) {
	var params PageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	params.Limit = clampLimit(params.Limit, defaultLimit)
	if params.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}
	return &params, nil
}

// ParseListChannelsQuery parses query parameters for GET /channels
func ParseListChannelsQuery(c *gin.Context) (*ListChannelsQueryParams, error) {
	var params ListChannelsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	params.Limit = clampLimit(params.Limit, constants.DEFAULT_CHANNELS_LIMIT)
	if params.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}
	return &params, nil
}

// ParseTokenHistoryQuery parses query parameters for GET /tokens/:chain/:contract/history
func ParseTokenHistoryQuery(c *gin.Context) (*TokenHistoryQueryParams, error) {
	var params TokenHistoryQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.From != "" {
		from, err := time.ParseInLocation(constants.HISTORY_DATE_LAYOUT, params.From, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", params.From)
		}
		params.FromTime = &from
	}
	if params.To != "" {
		to, err := time.ParseInLocation(constants.HISTORY_DATE_LAYOUT, params.To, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", params.To)
		}
		end := to.AddDate(0, 0, 1)
		params.ToTime = &end
	}
	if params.FromTime != nil && params.ToTime != nil && !params.FromTime.Before(*params.ToTime) {
		return nil, fmt.Errorf("from must not be after to")
	}

	switch {
	case params.Limit <= 0:
		params.Limit = constants.DEFAULT_HISTORY_LIMIT
	case params.Limit > constants.MAX_HISTORY_LIMIT:
		params.Limit = constants.MAX_HISTORY_LIMIT
	}

	return &params, nil
}

// ParseTokenPath resolves the :chain and :contract path parameters to a natural key
func ParseTokenPath(c *gin.Context) (domain.Chain, string, error) {
	chain, err := domain.ParseChain(c.Param("chain"))
	if err != nil {
		return "", "", err
	}
	contract, err := domain.NormalizeContract(chain, c.Param("contract"))
	if err != nil {
		return "", "", err
	}
	return chain, contract, nil
}

func clampLimit(limit, defaultLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > constants.MAX_PAGE_SIZE {
		return constants.MAX_PAGE_SIZE
	}
	return limit
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
