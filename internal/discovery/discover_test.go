package discovery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolprobe/internal/config"
	"toolprobe/internal/testing/mock"
)

func configFor(t *testing.T, servers map[string]string) config.Configuration {
	t.Helper()
	shared := config.ProcessConfig{Servers: map[string]config.ServerConnection{}}
	for id, url := range servers {
		shared.Servers[id] = config.ServerConnection{Transport: config.TransportStreamableHTTP, URL: url}
	}
	cfg, err := config.FullConfiguration(shared)
	require.NoError(t, err)
	return cfg
}

func TestDiscover_AgainstMockServer(t *testing.T) {
	srv := mock.StartTestServer(t, "ccxt",
		mock.TextTool("list-exchanges", `["binance", "bybit", "okx"]`),
		mock.ErrorTool("get-ticker", "Error: symbol not found"),
		mock.ToolConfig{Name: "get-market-types", Responses: []mock.ToolResponse{
			{Kind: mock.KindStructured, Response: map[string]any{"marketTypes": []any{"spot", "swap"}}},
		}},
		mock.ToolConfig{Name: "get-chart", Responses: []mock.ToolResponse{{Kind: mock.KindImage}}},
	)

	ctx := context.Background()
	session, err := Discover(ctx, configFor(t, map[string]string{config.ServerCCXT: srv.Endpoint()}), Options{})
	require.NoError(t, err)
	defer session.Close()

	catalog := session.Catalog()
	assert.Equal(t, []string{"get-chart", "get-market-types", "get-ticker", "list-exchanges"}, catalog.Names())

	h, ok := catalog.Lookup("list-exchanges")
	require.True(t, ok)
	assert.Equal(t, config.ServerCCXT, h.Server())
	raw, err := h.Invoke(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, `["binance", "bybit", "okx"]`, raw)

	h, _ = catalog.Lookup("get-ticker")
	_, err = h.Invoke(ctx, map[string]any{"symbol": "X"})
	var callErr *ToolCallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "Error: symbol not found", callErr.Message)

	h, _ = catalog.Lookup("get-market-types")
	raw, err = h.Invoke(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"marketTypes": []any{"spot", "swap"}}, raw)

	h, _ = catalog.Lookup("get-chart")
	raw, err = h.Invoke(ctx, nil)
	require.NoError(t, err)
	contents, ok := raw.([]mcp.Content)
	require.True(t, ok, "expected content slice, got %T", raw)
	assert.Len(t, contents, 1)

	assert.NoError(t, session.Close())
	assert.NoError(t, session.Close())
}

func TestDiscover_MergesServers(t *testing.T) {
	a := mock.StartTestServer(t, "a", mock.TextTool("get-ticker", "t"))
	b := mock.StartTestServer(t, "b", mock.TextTool("send-message", "ok"))

	session, err := Discover(context.Background(), configFor(t, map[string]string{
		config.ServerCCXT:     a.Endpoint(),
		config.ServerTelegram: b.Endpoint(),
	}), Options{})
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, []string{"get-ticker", "send-message"}, session.Catalog().Names())
	h, _ := session.Catalog().Lookup("send-message")
	assert.Equal(t, config.ServerTelegram, h.Server())
}

func TestDiscover_Unreachable(t *testing.T) {
	cfg, err := config.MinimalConfiguration("127.0.0.1", 1)
	require.NoError(t, err)

	session, err := Discover(context.Background(), cfg, Options{InitTimeout: 2 * time.Second})
	assert.Nil(t, session)

	var discErr *DiscoveryError
	require.True(t, errors.As(err, &discErr))
	assert.Equal(t, config.ServerCCXT, discErr.Server)
	assert.Equal(t, "http://127.0.0.1:1/mcp/", discErr.URL)
	assert.Contains(t, err.Error(), "tool discovery failed for mcp-server-ccxt")
}

func TestDiscover_DuplicateToolAcrossServers(t *testing.T) {
	a := mock.StartTestServer(t, "a", mock.TextTool("get-ticker", "a"))
	b := mock.StartTestServer(t, "b", mock.TextTool("get-ticker", "b"))

	session, err := Discover(context.Background(), configFor(t, map[string]string{
		"server-a": a.Endpoint(),
		"server-b": b.Endpoint(),
	}), Options{})
	assert.Nil(t, session)

	var discErr *DiscoveryError
	require.True(t, errors.As(err, &discErr))
	assert.Equal(t, "server-b", discErr.Server)
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestDiscover_ProtectedServerHeaders(t *testing.T) {
	srv := mock.StartProtectedTestServer(t, "protected", "Authorization", "Bearer s3cret",
		mock.TextTool("get-ticker", "t"))

	shared := config.ProcessConfig{Servers: map[string]config.ServerConnection{
		config.ServerCCXT: {
			Transport: config.TransportStreamableHTTP,
			URL:       srv.Endpoint(),
			Headers:   map[string]string{"Authorization": "Bearer s3cret"},
		},
	}}
	cfg, err := config.FullConfiguration(shared)
	require.NoError(t, err)

	session, err := Discover(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, session.Catalog().Len())
	require.NoError(t, session.Close())

	_, err = Discover(context.Background(), configFor(t, map[string]string{config.ServerCCXT: srv.Endpoint()}), Options{})
	var discErr *DiscoveryError
	assert.True(t, errors.As(err, &discErr))
}

type fakeClient struct {
	tools   []mcp.Tool
	listErr error
	closed  atomic.Int32
}

func (f *fakeClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return f.tools, f.listErr
}

func (f *fakeClient) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(name), nil
}

func (f *fakeClient) Close() error {
	f.closed.Add(1)
	return nil
}

func TestDiscover_ClosesSessionsOnFailure(t *testing.T) {
	good := &fakeClient{tools: []mcp.Tool{mcp.NewTool("get-ticker")}}
	bad := &fakeClient{listErr: errors.New("malformed tools/list response")}

	connector := ConnectorFunc(func(ctx context.Context, server string, conn config.ServerConnection) (Client, error) {
		if server == "bad" {
			return bad, nil
		}
		return good, nil
	})

	_, err := Discover(context.Background(), configFor(t, map[string]string{
		"bad":  "http://bad:1/mcp/",
		"good": "http://good:1/mcp/",
	}), Options{Connector: connector})

	var discErr *DiscoveryError
	require.True(t, errors.As(err, &discErr))
	assert.Equal(t, "bad", discErr.Server)
	assert.Equal(t, int32(1), bad.closed.Load())
	// The good session may or may not have been opened before the group was cancelled.
	assert.LessOrEqual(t, good.closed.Load(), int32(1))
}

func TestDiscover_RejectsUnnamedTool(t *testing.T) {
	c := &fakeClient{tools: []mcp.Tool{{Name: ""}}}
	connector := ConnectorFunc(func(ctx context.Context, server string, conn config.ServerConnection) (Client, error) {
		return c, nil
	})

	_, err := Discover(context.Background(), configFor(t, map[string]string{"s": "http://s:1/mcp/"}), Options{Connector: connector})
	assert.ErrorIs(t, err, ErrInvalidToolList)
	assert.Equal(t, int32(1), c.closed.Load())
}

func TestDiscover_WarmUpHonoursCancellation(t *testing.T) {
	var connects atomic.Int32
	connector := ConnectorFunc(func(ctx context.Context, server string, conn config.ServerConnection) (Client, error) {
		connects.Add(1)
		return &fakeClient{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Discover(ctx, configFor(t, map[string]string{"s": "http://s:1/mcp/"}), Options{
		WarmUp:    time.Minute,
		Connector: connector,
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, connects.Load())
}

func TestDiscover_EmptyConfiguration(t *testing.T) {
	_, err := Discover(context.Background(), config.Configuration{}, Options{})
	var discErr *DiscoveryError
	require.True(t, errors.As(err, &discErr))
	assert.ErrorIs(t, err, ErrNoServers)
}
