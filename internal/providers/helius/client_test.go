package helius_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/tg-mention-indexer/internal/mocks"
	"github.com/feral-file/tg-mention-indexer/internal/providers/helius"
)

const mint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

func TestGetHoldersCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := helius.NewClient(httpClient, nil, "https://mainnet.helius-rpc.com/", "secret key")

	httpClient.EXPECT().
		Post(gomock.Any(), "https://mainnet.helius-rpc.com/?api-key=secret+key", "application/json", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ string, body []byte) ([]byte, error) {
			var req map[string]any
			require.NoError(t, json.Unmarshal(body, &req))
			assert.Equal(t, "getTokenAccounts", req["method"])
			params := req["params"].(map[string]any)
			assert.Equal(t, mint, params["mint"])
			return []byte(`{"jsonrpc":"2.0","id":"x","result":{"total":1234,"limit":1000,"page":1}}`), nil
		})

	count, err := client.GetHoldersCount(context.Background(), mint)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), count)
}

func TestGetHoldersCount_NoAPIKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := helius.NewClient(mocks.NewMockHTTPClient(ctrl), nil, "https://mainnet.helius-rpc.com", "")

	_, err := client.GetHoldersCount(context.Background(), mint)
	assert.ErrorIs(t, err, helius.ErrNoAPIKey)
}

func TestGetHoldersCount_RPCError(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := helius.NewClient(httpClient, nil, "https://mainnet.helius-rpc.com", "key")

	httpClient.EXPECT().Post(gomock.Any(), gomock.Any(), "application/json", gomock.Any()).
		Return([]byte(`{"jsonrpc":"2.0","id":"x","error":{"code":-32602,"message":"invalid mint"}}`), nil)

	_, err := client.GetHoldersCount(context.Background(), mint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mint")
}

func TestGetHoldersCount_MissingResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := helius.NewClient(httpClient, nil, "https://mainnet.helius-rpc.com", "key")

	httpClient.EXPECT().Post(gomock.Any(), gomock.Any(), "application/json", gomock.Any()).
		Return([]byte(`{"jsonrpc":"2.0","id":"x"}`), nil)

	_, err := client.GetHoldersCount(context.Background(), mint)
	assert.Error(t, err)
}
