package scenario_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolprobe/internal/config"
	"toolprobe/internal/discovery"
	"toolprobe/internal/scenario"
	"toolprobe/internal/testing/mock"
)

func discoverMock(t *testing.T, tools ...mock.ToolConfig) *discovery.Session {
	t.Helper()
	srv := mock.StartTestServer(t, "ccxt", tools...)

	shared := config.ProcessConfig{Servers: map[string]config.ServerConnection{
		config.ServerCCXT: {Transport: config.TransportStreamableHTTP, URL: srv.Endpoint()},
	}}
	cfg, err := config.FullConfiguration(shared)
	require.NoError(t, err)

	session, err := discovery.Discover(context.Background(), cfg, discovery.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestDiagnosticSuite_ListExchanges(t *testing.T) {
	session := discoverMock(t, mock.TextTool("list-exchanges", `["binance", "bybit", "okx"]`))

	results, err := scenario.NewRunner(session.Catalog()).Run(context.Background(), scenario.DiagnosticSuite())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Success)
	assert.Equal(t, []any{"binance", "bybit", "okx"}, r.Data)
	assert.Empty(t, r.Error)
	assert.Equal(t, config.ServerCCXT, r.Server)
	assert.Equal(t, `["binance", "bybit", "okx"]`, r.RawResponse)
}

func TestDiagnosticSuite_ErrorText(t *testing.T) {
	session := discoverMock(t, mock.TextTool("list-exchanges", "Error: connection refused"))

	results, err := scenario.NewRunner(session.Catalog()).Run(context.Background(), scenario.DiagnosticSuite())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].Success)
	assert.Equal(t, "Error: connection refused", results[0].Error)
	assert.Nil(t, results[0].Data)
}

func TestDiagnosticSuite_ToolLevelError(t *testing.T) {
	session := discoverMock(t, mock.ErrorTool("list-exchanges", "exchange registry unavailable"))

	results, err := scenario.NewRunner(session.Catalog()).Run(context.Background(), scenario.DiagnosticSuite())
	require.NoError(t, err)
	assert.False(t, results[0].Success)
	assert.Equal(t, "exchange registry unavailable", results[0].Error)
	assert.Nil(t, results[0].RawResponse)
}

func TestPublicToolsSuite_MissingTicker(t *testing.T) {
	session := discoverMock(t,
		mock.ToolConfig{Name: "get-market-types", Responses: []mock.ToolResponse{
			{Condition: map[string]any{"exchange": "bybit"}, Response: map[string]any{"marketTypes": []any{"spot", "swap"}}},
		}},
		mock.ToolConfig{Name: "get-ohlcv", Responses: []mock.ToolResponse{
			{Condition: map[string]any{"limit": 5, "timeframe": "5m"}, Response: "OHLCV {{ .symbol }}: 5 candles"},
		}},
	)
	suite := scenario.PublicToolsSuite()

	t.Run("stops at the missing tool", func(t *testing.T) {
		results, err := scenario.NewRunner(session.Catalog()).Run(context.Background(), suite)

		var notFound *scenario.ToolNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "get-ticker", notFound.Tool)

		require.Len(t, results, 2)
		assert.True(t, results[0].Success)
		assert.True(t, results[1].Success)
		assert.Equal(t, "OHLCV BTC/USDT:USDT: 5 candles", results[1].Data)
	})

	t.Run("records the missing tool and continues", func(t *testing.T) {
		results, err := scenario.NewRunner(session.Catalog(), scenario.WithContinueOnError(true)).
			Run(context.Background(), suite)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.True(t, results[0].Success)
		assert.True(t, results[1].Success)
		assert.False(t, results[2].Success)
		assert.Contains(t, results[2].Error, `tool "get-ticker" not found`)
	})
}
