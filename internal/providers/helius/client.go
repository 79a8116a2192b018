package helius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/ratelimit"
)

const PROVIDER_NAME = "helius"

const requestID = "tg-mention-indexer"

var ErrNoAPIKey = errors.New("no API key provided")

type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      string         `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TokenAccountsResponse is the DAS getTokenAccounts response
type TokenAccountsResponse struct {
	Result *struct {
		Total int64 `json:"total"`
		Limit int64 `json:"limit"`
		Page  int64 `json:"page"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

// Client defines the interface for Helius DAS client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/helius_client.go -package=mocks -mock_names=Client=MockHeliusClient
type Client interface {
	// GetHoldersCount returns the number of token accounts holding the mint
	GetHoldersCount(ctx context.Context, mint string) (int64, error)
}

// HeliusClient implements the Helius DAS client
type HeliusClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	apiURL         string
	apiKey         string
}

// NewClient creates a new Helius DAS client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, apiURL string, apiKey string) Client {
	return &HeliusClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		apiURL:         strings.TrimRight(apiURL, "/"),
		apiKey:         apiKey,
	}
}

// GetHoldersCount calls getTokenAccounts for the mint and returns result.total
func (c *HeliusClient) GetHoldersCount(ctx context.Context, mint string) (int64, error) {
	if c.apiKey == "" {
		return 0, ErrNoAPIKey
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      requestID,
		Method:  "getTokenAccounts",
		Params: map[string]any{
			"mint":  mint,
			"page":  1,
			"limit": 1000,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal getTokenAccounts request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/?api-key=%s", c.apiURL, url.QueryEscape(c.apiKey))

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.Post(ctx, endpoint, "application/json", body)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to call Helius API: %w", err)
	}

	var response TokenAccountsResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return 0, fmt.Errorf("failed to unmarshal Helius response: %w", err)
	}

	if response.Error != nil {
		return 0, fmt.Errorf("helius API error %d: %s", response.Error.Code, response.Error.Message)
	}
	if response.Result == nil {
		return 0, fmt.Errorf("helius API returned no result")
	}

	return response.Result.Total, nil
}
