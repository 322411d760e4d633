package discovery

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTool is wrapped when two servers advertise the same tool name.
	ErrDuplicateTool = errors.New("duplicate tool name")
	// ErrInvalidToolList is wrapped when a server advertises a tool without a name.
	ErrInvalidToolList = errors.New("invalid tool list")
	// ErrNoServers is returned when the configuration is empty.
	ErrNoServers = errors.New("no servers configured")
)

// DiscoveryError reports that the catalog could not be built. Server and URL
// identify the server that failed, when known.
type DiscoveryError struct {
	Server string
	URL    string
	Cause  error
}

func (e *DiscoveryError) Error() string {
	if e.Server == "" {
		return fmt.Sprintf("tool discovery failed: %v", e.Cause)
	}
	return fmt.Sprintf("tool discovery failed for %s (%s): %v", e.Server, e.URL, e.Cause)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// ToolCallError is returned by Invoke when the server flags the call result
// as an error. Its message is the text content of the result.
type ToolCallError struct {
	Tool    string
	Message string
}

func (e *ToolCallError) Error() string {
	return e.Message
}
