package config

import "fmt"

const (
	// DefaultHost is used when neither --host nor CCXT_HOST is set.
	DefaultHost = "localhost"
	// DefaultPort is the CCXT tool server's well-known port.
	DefaultPort = 8004

	// EnvHost overrides the default host of the minimal configuration.
	EnvHost = "CCXT_HOST"
	// EnvPort overrides the default port of the minimal configuration.
	EnvPort = "CCXT_PORT"
)

// defaultPorts holds the local ports the agent's start script assigns.
var defaultPorts = map[string]int{
	ServerTelegram:    8001,
	ServerTradingView: 8002,
	ServerCoinglass:   8003,
	ServerCCXT:        DefaultPort,
}

// EndpointURL builds the MCP endpoint for a host and port.
func EndpointURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d/mcp/", host, port)
}

// DefaultProcessConfig returns the agent's built-in server list, all on localhost.
func DefaultProcessConfig() ProcessConfig {
	servers := make(map[string]ServerConnection, len(defaultPorts))
	for id, port := range defaultPorts {
		servers[id] = ServerConnection{
			Transport: TransportStreamableHTTP,
			URL:       EndpointURL(DefaultHost, port),
		}
	}
	return ProcessConfig{Servers: servers}
}
