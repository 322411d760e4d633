package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FullConfiguration returns a configuration entry for every server in shared.
// It fails when shared lists no servers or any entry is invalid.
func FullConfiguration(shared ProcessConfig) (Configuration, error) {
	if len(shared.Servers) == 0 {
		return Configuration{}, newConfigurationError("servers", nil, "no servers configured")
	}

	servers := make(map[string]ServerConnection, len(shared.Servers))
	for id, conn := range shared.Servers {
		if err := validateConnection(id, conn); err != nil {
			return Configuration{}, err
		}
		servers[id] = conn
	}
	return Configuration{servers: servers}, nil
}

// MinimalConfiguration addresses the CCXT tool server directly at host:port.
func MinimalConfiguration(host string, port int) (Configuration, error) {
	if strings.TrimSpace(host) == "" {
		return Configuration{}, newConfigurationError("host", host, "must be a non-empty string")
	}
	if port <= 0 || port > 65535 {
		return Configuration{}, newConfigurationError("port", port, "must be between 1 and 65535")
	}

	return Configuration{
		servers: map[string]ServerConnection{
			ServerCCXT: {
				Transport: TransportStreamableHTTP,
				URL:       EndpointURL(host, port),
			},
		},
	}, nil
}

// Require returns an error unless the configuration contains every id.
func (c Configuration) Require(ids ...string) error {
	for _, id := range ids {
		if _, ok := c.servers[id]; !ok {
			return newConfigurationError("servers", id, "required server entry is missing")
		}
	}
	return nil
}

func validateConnection(id string, conn ServerConnection) error {
	if strings.TrimSpace(id) == "" {
		return newConfigurationError("servers", id, "server identifier must not be empty")
	}
	if conn.Transport != TransportStreamableHTTP {
		return newConfigurationError(fmt.Sprintf("servers.%s.transport", id), conn.Transport,
			"unsupported transport, only %q is supported", TransportStreamableHTTP)
	}
	u, err := url.Parse(conn.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return newConfigurationError(fmt.Sprintf("servers.%s.url", id), conn.URL, "must be an absolute http(s) URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return newConfigurationError(fmt.Sprintf("servers.%s.url", id), conn.URL, "scheme must be http or https")
	}
	return nil
}
