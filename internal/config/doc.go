// Package config builds the connection configuration toolprobe hands to tool
// discovery.
//
// A Configuration maps a server identifier to a ServerConnection (transport
// kind plus endpoint URL). Two constructors exist:
//
//   - FullConfiguration covers every server the agent client knows about. It
//     is derived from an explicitly constructed ProcessConfig so that the
//     harness can catch drift between its view and the agent's view without
//     sharing mutable global state.
//   - MinimalConfiguration addresses a single CCXT tool server by host and
//     port, for focused runs.
//
// ProcessConfig is loaded from a servers.yaml file layered over built-in
// defaults:
//
//	servers:
//	  mcp-server-ccxt:
//	    transport: streamable_http
//	    url: http://localhost:8004/mcp/
//
// Default host and port for the minimal configuration come from CCXT_HOST and
// CCXT_PORT, optionally seeded from a .env file in the working directory.
//
// Nothing in this package performs network I/O.
package config
