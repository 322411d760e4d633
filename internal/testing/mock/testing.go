package mock

import (
	"context"
	"testing"
)

// StartTestServer starts a mock HTTP server exposing tools and stops it when
// the test finishes.
func StartTestServer(t testing.TB, name string, tools ...ToolConfig) *HTTPServer {
	t.Helper()
	return startTestServer(t, NewHTTPServer(NewServer(name, tools...)))
}

// StartProtectedTestServer is StartTestServer with a required request header.
func StartProtectedTestServer(t testing.TB, name, header, value string, tools ...ToolConfig) *HTTPServer {
	t.Helper()
	return startTestServer(t, NewHTTPServer(NewServer(name, tools...)).RequireHeader(header, value))
}

func startTestServer(t testing.TB, s *HTTPServer) *HTTPServer {
	t.Helper()
	if _, err := s.Start(context.Background()); err != nil {
		t.Fatalf("failed to start mock server: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Stop(context.Background())
	})
	return s
}

// TextTool returns a tool that always answers with text.
func TextTool(name, text string) ToolConfig {
	return ToolConfig{Name: name, Responses: []ToolResponse{{Response: text}}}
}

// ErrorTool returns a tool that always reports a tool-level error.
func ErrorTool(name, message string) ToolConfig {
	return ToolConfig{Name: name, Responses: []ToolResponse{{Error: message}}}
}
