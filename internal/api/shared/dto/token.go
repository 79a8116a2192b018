package dto

import (
	"time"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

// TokenResponse is a token row as served to the dashboard
type TokenResponse struct {
	ID                 int64        `json:"id"`
	Chain              domain.Chain `json:"chain"`
	ContractAddress    string       `json:"contract_address"`
	Symbol             string       `json:"symbol"`
	Name               *string      `json:"name"`
	ImageURL           *string      `json:"image_url"`
	Website            *string      `json:"website"`
	Twitter            *string      `json:"twitter"`
	Telegram           *string      `json:"telegram"`
	MarketCap          *float64     `json:"market_cap"`
	MarketCapFormatted string       `json:"market_cap_formatted"`
	MarketCap1h        *float64     `json:"market_cap_1h"`
	FirstMarketCap     *float64     `json:"first_market_cap"`
	Price              *float64     `json:"price"`
	FirstPrice         *float64     `json:"first_price"`
	Liquidity          *float64     `json:"liquidity"`
	Volume1h           *float64     `json:"volume_1h"`
	Volume24h          *float64     `json:"volume_24h"`
	PriceChange24h     *float64     `json:"price_change_24h"`
	Buys1h             int64        `json:"buys_1h"`
	Sells1h            int64        `json:"sells_1h"`
	HoldersCount       *int64       `json:"holders_count"`
	DexScreenerURL     *string      `json:"dexscreener_url"`
	CommunityReach     int64        `json:"community_reach"`
	SpreadCount        int64        `json:"spread_count"`
	LikesCount         int64        `json:"likes_count"`
	Suspect            bool         `json:"suspect"`
	FirstUpdate        time.Time    `json:"first_update"`
	LastUpdate         time.Time    `json:"last_update"`
}

// TokenListResponse is a page of tokens
type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
	Total  int64           `json:"total"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
}

// MapTokenToDTO maps a token row to its response
func MapTokenToDTO(token *schema.Token) *TokenResponse {
	return &TokenResponse{
		ID:                 token.ID,
		Chain:              token.Chain,
		ContractAddress:    token.ContractAddress,
		Symbol:             token.Symbol,
		Name:               token.Name,
		ImageURL:           token.ImageURL,
		Website:            token.Website,
		Twitter:            token.Twitter,
		Telegram:           token.Telegram,
		MarketCap:          token.MarketCap,
		MarketCapFormatted: domain.FormatMarketCap(token.MarketCap),
		MarketCap1h:        token.MarketCap1h,
		FirstMarketCap:     token.FirstMarketCap,
		Price:              token.Price,
		FirstPrice:         token.FirstPrice,
		Liquidity:          token.Liquidity,
		Volume1h:           token.Volume1h,
		Volume24h:          token.Volume24h,
		PriceChange24h:     token.PriceChange24h,
		Buys1h:             token.Buys1h,
		Sells1h:            token.Sells1h,
		HoldersCount:       token.HoldersCount,
		DexScreenerURL:     token.DexScreenerURL,
		CommunityReach:     token.CommunityReach,
		SpreadCount:        token.SpreadCount,
		LikesCount:         token.LikesCount,
		Suspect:            token.SuspectSince != nil,
		FirstUpdate:        token.FirstUpdate,
		LastUpdate:         token.LastUpdate,
	}
}
