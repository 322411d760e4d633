package scenario

import (
	"fmt"
	"strings"
	"time"
)

// Kinds of failure reported to the telemetry observer.
const (
	ErrorKindToolNotFound   = "tool_not_found"
	ErrorKindInvocation     = "invocation"
	ErrorKindCancelled      = "cancelled"
	ErrorKindClassification = "classification"
	ErrorKindExpectation    = "expectation"
)

// Definition is one predefined check.
type Definition struct {
	// Name identifies the scenario in reports. It defaults to Tool.
	Name string
	// Tool is the catalog name of the tool to invoke.
	Tool string
	// Args are passed to the tool as is.
	Args map[string]any
	// Expect, if set, is checked against the decoded payload of a
	// successful classification.
	Expect Expectation
	// RequireStringResponse accepts any string response as success without
	// decoding it, and fails any other response type.
	RequireStringResponse bool
	// Timeout bounds this invocation, overriding the runner's call timeout.
	Timeout time.Duration
}

// DisplayName returns Name, or Tool when Name is empty.
func (d Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Tool
}

// InvocationResult records the outcome of one scenario. Error is set exactly
// when Success is false; Data is only set when Success is true.
type InvocationResult struct {
	ToolName    string
	Server      string
	Scenario    string
	Success     bool
	StartedAt   time.Time
	Duration    time.Duration
	RawResponse any
	Error       string
	Data        any
}

// ToolNotFoundError reports a scenario whose tool is not in the catalog.
type ToolNotFoundError struct {
	Tool      string
	Available []string
}

func (e *ToolNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("tool %q not found: catalog is empty", e.Tool)
	}
	return fmt.Sprintf("tool %q not found, available tools: %s", e.Tool, strings.Join(e.Available, ", "))
}
