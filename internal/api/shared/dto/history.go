package dto

import (
	"time"

	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

// TokenHistoryPoint is one snapshot of a token
type TokenHistoryPoint struct {
	SnapshotAt         time.Time `json:"snapshot_at"`
	Symbol             string    `json:"symbol"`
	MarketCap          *float64  `json:"market_cap"`
	Price              *float64  `json:"price"`
	Liquidity          *float64  `json:"liquidity"`
	Volume1h           *float64  `json:"volume_1h"`
	Volume24h          *float64  `json:"volume_24h"`
	HoldersCount       *int64    `json:"holders_count"`
	Buys1h             int64     `json:"buys_1h"`
	Sells1h            int64     `json:"sells_1h"`
	CommunityReach     int64     `json:"community_reach"`
	SpreadCount        int64     `json:"spread_count"`
	MarketCapChangePct *float64  `json:"market_cap_change_pct"`
	PriceChangePct     *float64  `json:"price_change_pct"`
}

// TokenHistoryResponse is a token with its snapshots, oldest first
type TokenHistoryResponse struct {
	Token   TokenResponse       `json:"token"`
	History []TokenHistoryPoint `json:"history"`
	Limit   int                 `json:"limit"`
}

// MapTokenHistoryToDTO maps a token_history row to its response
func MapTokenHistoryToDTO(h *schema.TokenHistory) *TokenHistoryPoint {
	return &TokenHistoryPoint{
		SnapshotAt:         h.SnapshotAt,
		Symbol:             h.Symbol,
		MarketCap:          h.MarketCap,
		Price:              h.Price,
		Liquidity:          h.Liquidity,
		Volume1h:           h.Volume1h,
		Volume24h:          h.Volume24h,
		HoldersCount:       h.HoldersCount,
		Buys1h:             h.Buys1h,
		Sells1h:            h.Sells1h,
		CommunityReach:     h.CommunityReach,
		SpreadCount:        h.SpreadCount,
		MarketCapChangePct: h.MarketCapChangePct,
		PriceChangePct:     h.PriceChangePct,
	}
}
