package mock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"toolprobe/pkg/logging"
)

// placeholderPNG is a 1x1 transparent PNG, base64 encoded.
const placeholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// Server represents a mock MCP tool server for testing
type Server struct {
	name         string
	toolHandlers map[string]*ToolHandler
	mcpServer    *server.MCPServer
}

// NewServer creates a mock MCP server exposing tools.
func NewServer(name string, tools ...ToolConfig) *Server {
	mcpServer := server.NewMCPServer(
		fmt.Sprintf("mock-%s", name),
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		name:         name,
		toolHandlers: make(map[string]*ToolHandler, len(tools)),
		mcpServer:    mcpServer,
	}

	for _, toolConfig := range tools {
		s.toolHandlers[toolConfig.Name] = NewToolHandler(toolConfig)
		tool := mcp.NewTool(toolConfig.Name, mcp.WithDescription(toolConfig.Description))
		mcpServer.AddTool(tool, s.createToolHandler(toolConfig.Name))
	}

	logging.Debug("MockServer", "Mock MCP server '%s' initialized with %d tools", name, len(s.toolHandlers))
	return s
}

// NewServerFromFile creates a new mock MCP server from a YAML file with a
// top-level "tools" list.
func NewServerFromFile(configPath string) (*Server, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock config file %s: %w", configPath, err)
	}

	var configData struct {
		Tools []ToolConfig `yaml:"tools"`
	}
	if err := yaml.Unmarshal(content, &configData); err != nil {
		return nil, fmt.Errorf("failed to parse mock config file %s: %w", configPath, err)
	}

	name := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
	return NewServer(name, configData.Tools...), nil
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.name
}

// createToolHandler creates an MCP tool handler function for the given tool name
func (s *Server) createToolHandler(toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		handler, exists := s.toolHandlers[toolName]
		if !exists {
			return mcp.NewToolResultError(fmt.Sprintf("tool %s not found", toolName)), nil
		}

		reply, err := handler.HandleCall(ctx, request.GetArguments())
		if err != nil {
			return nil, err
		}

		switch {
		case reply.Error != "":
			return mcp.NewToolResultError(reply.Error), nil
		case reply.Kind == KindStructured:
			return &mcp.CallToolResult{
				Content:           []mcp.Content{},
				StructuredContent: reply.Value,
			}, nil
		case reply.Kind == KindImage:
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewImageContent(placeholderPNG, "image/png")},
			}, nil
		default:
			return mcp.NewToolResultText(reply.Text), nil
		}
	}
}
