package mock

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"toolprobe/pkg/logging"
)

// HTTPServer serves a mock MCP server over the streamable HTTP transport on
// a loopback address.
type HTTPServer struct {
	mockServer    *Server
	httpServer    *http.Server
	listener      net.Listener
	port          int
	headers       map[string]string
	mu            sync.RWMutex
	running       bool
	shutdownError error
}

// NewHTTPServer creates a new HTTP mock server from an existing mock server
func NewHTTPServer(mockServer *Server) *HTTPServer {
	return &HTTPServer{
		mockServer: mockServer,
		headers:    make(map[string]string),
	}
}

// RequireHeader makes every request without header name set to value fail
// with 401. It must be called before Start.
func (s *HTTPServer) RequireHeader(name, value string) *HTTPServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers[name] = value
	return s
}

// Start starts the HTTP server on a dynamically allocated port.
// Returns the port number the server is listening on.
func (s *HTTPServer) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.port, nil
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port

	var handler http.Handler = server.NewStreamableHTTPServer(s.mockServer.mcpServer)
	if len(s.headers) > 0 {
		handler = requireHeaders(s.headers, handler)
	}
	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv, port := s.httpServer, s.port
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.mu.Lock()
			s.shutdownError = err
			s.mu.Unlock()
			logging.Error("MockServer", err, "Mock HTTP server on port %d failed", port)
		}
	}()

	s.running = true
	logging.Debug("MockServer", "Mock HTTP server '%s' started on port %d", s.mockServer.name, s.port)

	return s.port, nil
}

// Stop gracefully shuts down the HTTP server
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	shutdownCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		// Force close if graceful shutdown fails
		s.httpServer.Close()
		logging.Warn("MockServer", "Force closed mock HTTP server: %v", err)
	}

	s.running = false
	s.httpServer = nil
	return nil
}

// Port returns the port the server is listening on
func (s *HTTPServer) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.port
}

// IsRunning returns whether the server is currently running
func (s *HTTPServer) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Endpoint returns the MCP endpoint URL, empty when not running.
func (s *HTTPServer) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return ""
	}
	return fmt.Sprintf("http://127.0.0.1:%d/mcp/", s.port)
}

// GetError returns any error that occurred during server operation
func (s *HTTPServer) GetError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shutdownError
}

func requireHeaders(headers map[string]string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, value := range headers {
			if r.Header.Get(name) != value {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
