package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"toolprobe/internal/config"
	"toolprobe/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	// DefaultInitTimeout bounds the initialize handshake of one server.
	DefaultInitTimeout = 30 * time.Second
	// DefaultClientName is reported to servers during initialize.
	DefaultClientName = "toolprobe"

	protocolVersion = "2024-11-05"
)

// Client is one open session with a tool server.
type Client interface {
	// ListTools returns all tools advertised by the server.
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	// CallTool executes a tool and returns the raw result.
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
	// Close shuts the session down.
	Close() error
}

// Connector establishes sessions for configured servers.
type Connector interface {
	Connect(ctx context.Context, server string, conn config.ServerConnection) (Client, error)
}

// ConnectorFunc adapts a function into a Connector.
type ConnectorFunc func(ctx context.Context, server string, conn config.ServerConnection) (Client, error)

// Connect implements Connector.
func (f ConnectorFunc) Connect(ctx context.Context, server string, conn config.ServerConnection) (Client, error) {
	return f(ctx, server, conn)
}

// StreamableHTTPConnector opens mcp-go streamable HTTP sessions.
type StreamableHTTPConnector struct {
	ClientName    string
	ClientVersion string
	InitTimeout   time.Duration
}

// Connect creates the client and performs the initialize handshake.
func (c StreamableHTTPConnector) Connect(ctx context.Context, server string, conn config.ServerConnection) (Client, error) {
	if conn.Transport != config.TransportStreamableHTTP {
		return nil, fmt.Errorf("unsupported transport %q", conn.Transport)
	}

	hc := &streamableHTTPClient{url: conn.URL, headers: conn.Headers}
	if err := hc.initialize(ctx, c.clientInfo(), c.initTimeout()); err != nil {
		return nil, err
	}
	logging.Debug("Discovery", "Connected to %s at %s", server, conn.URL)
	return hc, nil
}

func (c StreamableHTTPConnector) clientInfo() mcp.Implementation {
	info := mcp.Implementation{Name: c.ClientName, Version: c.ClientVersion}
	if info.Name == "" {
		info.Name = DefaultClientName
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

func (c StreamableHTTPConnector) initTimeout() time.Duration {
	if c.InitTimeout <= 0 {
		return DefaultInitTimeout
	}
	return c.InitTimeout
}

// streamableHTTPClient implements Client over the streamable HTTP transport.
type streamableHTTPClient struct {
	url     string
	headers map[string]string

	mu     sync.RWMutex
	client *client.Client
}

func (c *streamableHTTPClient) initialize(ctx context.Context, info mcp.Implementation, timeout time.Duration) error {
	var opts []transport.StreamableHTTPCOption
	if len(c.headers) > 0 {
		opts = append(opts, transport.WithHTTPHeaders(c.headers))
		logging.Debug("Discovery", "Configured %d custom headers for %s", len(c.headers), c.url)
	}

	mcpClient, err := client.NewStreamableHttpClient(c.url, opts...)
	if err != nil {
		return fmt.Errorf("failed to create StreamableHTTP client: %w", err)
	}

	if err := mcpClient.Start(ctx); err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to start StreamableHTTP transport: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	initResult, err := mcpClient.Initialize(initCtx, mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: protocolVersion,
			ClientInfo:      info,
			Capabilities:    mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to initialize MCP protocol: %w", err)
	}

	c.mu.Lock()
	c.client = mcpClient
	c.mu.Unlock()

	logging.Debug("Discovery", "StreamableHTTP client initialized. Server: %s, Version: %s",
		initResult.ServerInfo.Name, initResult.ServerInfo.Version)
	return nil
}

func (c *streamableHTTPClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}
	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return result.Tools, nil
}

func (c *streamableHTTPClient) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}
	result, err := c.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call tool: %w", err)
	}
	return result, nil
}

func (c *streamableHTTPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// remoteHandle is a ToolHandle backed by a Client.
type remoteHandle struct {
	name   string
	server string
	client Client
}

func (h *remoteHandle) Name() string   { return h.name }
func (h *remoteHandle) Server() string { return h.server }

func (h *remoteHandle) Invoke(ctx context.Context, args map[string]any) (any, error) {
	result, err := h.client.CallTool(ctx, h.name, args)
	if err != nil {
		return nil, err
	}
	return UnwrapResult(h.name, result)
}
