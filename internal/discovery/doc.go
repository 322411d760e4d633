// Package discovery connects to configured MCP tool servers and produces a
// ToolCatalog: one invocable ToolHandle per advertised tool name.
//
// Discover opens one session per configured server concurrently, lists the
// tools of each and merges them into a single snapshot. Any failure (an
// unreachable server, a failed handshake, a malformed tool list or a tool
// name advertised twice) aborts discovery with a *DiscoveryError and closes
// whatever sessions were opened. A partial catalog is never returned.
//
// A ToolHandle's Invoke performs one tools/call and unwraps the result:
// text content is joined with newlines and returned as a string, a tool
// error becomes a Go error, structured content without text is returned as
// is, and anything else is returned as the raw content slice. Callers decide
// whether a response is well formed; this package does not.
package discovery
