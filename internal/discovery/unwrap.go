package discovery

import (
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrNilResult is returned when a client yields neither a result nor an error.
var ErrNilResult = errors.New("tool call returned no result")

// UnwrapResult maps a tools/call result onto the value handed to callers:
//
//   - IsError set: a *ToolCallError carrying the joined text content;
//   - any text content: the text blocks joined with "\n", as a string;
//   - structured content only: the structured value;
//   - otherwise: the content slice itself.
func UnwrapResult(tool string, result *mcp.CallToolResult) (any, error) {
	if result == nil {
		return nil, ErrNilResult
	}

	var texts []string
	for _, content := range result.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			texts = append(texts, tc.Text)
		}
	}

	if result.IsError {
		msg := strings.Join(texts, "\n")
		if msg == "" {
			msg = "tool " + tool + " reported an error without a message"
		}
		return nil, &ToolCallError{Tool: tool, Message: msg}
	}

	if len(texts) > 0 {
		return strings.Join(texts, "\n"), nil
	}
	if result.StructuredContent != nil {
		return result.StructuredContent, nil
	}
	return result.Content, nil
}
