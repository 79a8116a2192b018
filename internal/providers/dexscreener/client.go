package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/ratelimit"
)

const PROVIDER_NAME = "dexscreener"

const pairPageURL = "https://dexscreener.com"

// Pair is one liquidity pool returned by the token-pairs endpoint
type Pair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	URL         string `json:"url"`
	PairAddress string `json:"pairAddress"`
	BaseToken   struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUsd string              `json:"priceUsd"`
	Txns     map[string]TxnCount `json:"txns"`
	Volume   map[string]float64  `json:"volume"`
	// PriceChange is keyed by window (m5, h1, h6, h24) in percent
	PriceChange map[string]float64 `json:"priceChange"`
	Liquidity   *struct {
		Usd float64 `json:"usd"`
	} `json:"liquidity"`
	Fdv       *float64  `json:"fdv"`
	MarketCap *float64  `json:"marketCap"`
	Info      *PairInfo `json:"info"`
}

// TxnCount holds buy and sell counts for a window
type TxnCount struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

// PairInfo holds the token profile attached to a pair
type PairInfo struct {
	ImageURL string `json:"imageUrl"`
	Websites []struct {
		Label string `json:"label"`
		URL   string `json:"url"`
	} `json:"websites"`
	Socials []struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"socials"`
}

// MarketProfile is the aggregate of every pair of a token
type MarketProfile struct {
	Symbol    *string
	Name      *string
	MarketCap *float64
	Price     *float64
	Liquidity *float64
	Volume1h  *float64
	Volume24h *float64
	// PriceChange24h is the first pair's 24h price change in percent
	PriceChange24h *float64
	Buys1h         int64
	Sells1h        int64
	URL            *string
	ImageURL       *string
	Website        *string
	Twitter        *string
	Telegram       *string
	PairCount      int
}

// Client defines the interface for DexScreener client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/dexscreener_client.go -package=mocks -mock_names=Client=MockDexScreenerClient
type Client interface {
	// GetTokenProfile returns the market profile of a token, or domain.ErrNoPairs when no pool trades it
	GetTokenProfile(ctx context.Context, chain domain.Chain, contractAddress string) (*MarketProfile, error)
}

// DexScreenerClient implements the DexScreener client
type DexScreenerClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	apiURL         string
}

// NewClient creates a new DexScreener client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, apiURL string) Client {
	return &DexScreenerClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		apiURL:         strings.TrimRight(apiURL, "/"),
	}
}

// GetTokenProfile fetches every pair of the token and aggregates them
func (c *DexScreenerClient) GetTokenProfile(ctx context.Context, chain domain.Chain, contractAddress string) (*MarketProfile, error) {
	chainID := chain.DexScreenerID()
	if chainID == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedChain, chain)
	}

	url := fmt.Sprintf("%s/token-pairs/v1/%s/%s", c.apiURL, chainID, contractAddress)

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, url, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call DexScreener API: %w", err)
	}

	var pairs []Pair
	if err := json.Unmarshal(respBody, &pairs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DexScreener response: %w", err)
	}

	if len(pairs) == 0 {
		return nil, domain.ErrNoPairs
	}

	return Aggregate(contractAddress, pairs), nil
}

// Aggregate folds the pairs into one profile: the largest market cap and liquidity,
// the first pair's price, price change and URL, and the 1h/24h activity summed over all pairs
func Aggregate(contractAddress string, pairs []Pair) *MarketProfile {
	profile := &MarketProfile{PairCount: len(pairs)}
	if len(pairs) == 0 {
		return profile
	}

	var volume, volume24h float64
	var hasVolume, hasVolume24h bool
	for _, pair := range pairs {
		if mc := pairMarketCap(pair); mc != nil && (profile.MarketCap == nil || *mc > *profile.MarketCap) {
			profile.MarketCap = mc
		}

		if pair.Liquidity != nil && (profile.Liquidity == nil || pair.Liquidity.Usd > *profile.Liquidity) {
			liq := pair.Liquidity.Usd
			profile.Liquidity = &liq
		}

		if profile.Price == nil && pair.PriceUsd != "" {
			if price, err := strconv.ParseFloat(pair.PriceUsd, 64); err == nil {
				profile.Price = &price
			}
		}

		if txns, ok := pair.Txns["h1"]; ok {
			profile.Buys1h += txns.Buys
			profile.Sells1h += txns.Sells
		}
		if v, ok := pair.Volume["h1"]; ok {
			volume += v
			hasVolume = true
		}
		if v, ok := pair.Volume["h24"]; ok {
			volume24h += v
			hasVolume24h = true
		}
		if profile.PriceChange24h == nil {
			if change, ok := pair.PriceChange["h24"]; ok {
				profile.PriceChange24h = &change
			}
		}

		if profile.URL == nil {
			if u := pairURL(pair); u != "" {
				profile.URL = &u
			}
		}

		if pair.Info != nil {
			applyInfo(profile, pair.Info)
		}
	}
	if hasVolume {
		profile.Volume1h = &volume
	}
	if hasVolume24h {
		profile.Volume24h = &volume24h
	}

	base := pairs[0].BaseToken
	for _, pair := range pairs {
		if strings.EqualFold(pair.BaseToken.Address, contractAddress) {
			base = pair.BaseToken
			break
		}
	}
	if base.Symbol != "" {
		profile.Symbol = &base.Symbol
	}
	if base.Name != "" {
		profile.Name = &base.Name
	}

	return profile
}

// pairMarketCap prefers marketCap and falls back to fdv
func pairMarketCap(pair Pair) *float64 {
	if pair.MarketCap != nil && *pair.MarketCap > 0 {
		return pair.MarketCap
	}
	if pair.Fdv != nil && *pair.Fdv > 0 {
		return pair.Fdv
	}
	return nil
}

func pairURL(pair Pair) string {
	if pair.URL != "" {
		return pair.URL
	}
	if pair.ChainID == "" || pair.PairAddress == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", pairPageURL, strings.ToLower(pair.ChainID), pair.PairAddress)
}

// applyInfo fills the image and socials that are still unset
func applyInfo(profile *MarketProfile, info *PairInfo) {
	if profile.ImageURL == nil && info.ImageURL != "" {
		image := info.ImageURL
		profile.ImageURL = &image
	}
	if profile.Website == nil && len(info.Websites) > 0 && info.Websites[0].URL != "" {
		website := info.Websites[0].URL
		profile.Website = &website
	}
	for _, social := range info.Socials {
		u := social.URL
		switch strings.ToLower(social.Type) {
		case "twitter", "x":
			if profile.Twitter == nil && u != "" {
				profile.Twitter = &u
			}
		case "telegram":
			if profile.Telegram == nil && u != "" {
				profile.Telegram = &u
			}
		}
	}
}
