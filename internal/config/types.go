package config

import (
	"sort"
)

// TransportStreamableHTTP is the only transport the harness speaks.
const TransportStreamableHTTP = "streamable_http"

// Known server identifiers, mirroring the agent's client configuration.
const (
	ServerTelegram    = "mcp-server-telegram"
	ServerTradingView = "mcp-server-tradingview"
	ServerCoinglass   = "mcp-server-coinglass"
	ServerCCXT        = "mcp-server-ccxt"
)

// ServerConnection describes how to reach one tool server.
type ServerConnection struct {
	// Transport is the transport kind, currently always TransportStreamableHTTP.
	Transport string `yaml:"transport" json:"transport"`
	// URL is the full MCP endpoint, e.g. http://localhost:8004/mcp/.
	URL string `yaml:"url" json:"url"`
	// Headers are sent with every request, e.g. an Authorization header.
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// ProcessConfig is the shared process configuration the full configuration is
// derived from. It is a plain value; callers construct it explicitly.
type ProcessConfig struct {
	Servers map[string]ServerConnection `yaml:"servers"`
}

// Configuration is an immutable server-identifier → connection mapping.
// The zero value is an empty configuration.
type Configuration struct {
	servers map[string]ServerConnection
}

// Servers returns the server identifiers in sorted order.
func (c Configuration) Servers() []string {
	ids := make([]string, 0, len(c.servers))
	for id := range c.servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns the connection for a server identifier.
func (c Configuration) Get(id string) (ServerConnection, bool) {
	conn, ok := c.servers[id]
	return conn, ok
}

// Len returns the number of configured servers.
func (c Configuration) Len() int {
	return len(c.servers)
}

// AsMap returns a copy of the underlying mapping.
func (c Configuration) AsMap() map[string]ServerConnection {
	out := make(map[string]ServerConnection, len(c.servers))
	for id, conn := range c.servers {
		out[id] = conn
	}
	return out
}
