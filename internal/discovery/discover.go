package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"toolprobe/internal/config"
	"toolprobe/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// Options tune Discover. The zero value connects with the default
// streamable HTTP connector and no warm-up.
type Options struct {
	// WarmUp is waited before connecting, giving freshly started servers
	// time to listen. Zero skips it.
	WarmUp time.Duration
	// InitTimeout bounds each initialize handshake.
	InitTimeout time.Duration
	// ClientName and ClientVersion are reported to servers.
	ClientName    string
	ClientVersion string
	// Connector overrides session establishment.
	Connector Connector
}

func (o Options) connector() Connector {
	if o.Connector != nil {
		return o.Connector
	}
	return StreamableHTTPConnector{
		ClientName:    o.ClientName,
		ClientVersion: o.ClientVersion,
		InitTimeout:   o.InitTimeout,
	}
}

// Session owns the sessions opened by Discover and the catalog built from
// them.
type Session struct {
	catalog   Catalog
	clients   []Client
	closeOnce sync.Once
	closeErr  error
}

// Catalog returns the discovered tools.
func (s *Session) Catalog() Catalog {
	return s.catalog
}

// Close closes every underlying session. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = closeAll(s.clients)
	})
	return s.closeErr
}

type serverTools struct {
	client Client
	names  []string
}

// Discover connects to every server in cfg and builds the tool catalog.
// If ctx is cancelled the context error is returned as is; every other
// failure is a *DiscoveryError.
func Discover(ctx context.Context, cfg config.Configuration, opts Options) (*Session, error) {
	if cfg.Len() == 0 {
		return nil, &DiscoveryError{Cause: ErrNoServers}
	}

	if opts.WarmUp > 0 {
		logging.Info("Discovery", "Waiting %s for tool servers to start", opts.WarmUp)
		if err := sleep(ctx, opts.WarmUp); err != nil {
			return nil, err
		}
	}

	connector := opts.connector()
	ids := cfg.Servers()
	found := make([]serverTools, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		conn, _ := cfg.Get(id)
		g.Go(func() error {
			logging.Debug("Discovery", "Connecting to %s at %s", id, conn.URL)
			c, err := connector.Connect(gctx, id, conn)
			if err != nil {
				return &DiscoveryError{Server: id, URL: conn.URL, Cause: err}
			}
			found[i].client = c

			tools, err := c.ListTools(gctx)
			if err != nil {
				return &DiscoveryError{Server: id, URL: conn.URL, Cause: err}
			}
			for _, tool := range tools {
				if strings.TrimSpace(tool.Name) == "" {
					return &DiscoveryError{Server: id, URL: conn.URL,
						Cause: fmt.Errorf("%w: tool without a name", ErrInvalidToolList)}
				}
				found[i].names = append(found[i].names, tool.Name)
			}
			return nil
		})
	}

	clients := func() []Client {
		out := make([]Client, 0, len(found))
		for _, f := range found {
			if f.client != nil {
				out = append(out, f.client)
			}
		}
		return out
	}

	if err := g.Wait(); err != nil {
		_ = closeAll(clients())
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	var handles []ToolHandle
	owner := make(map[string]string)
	for i, id := range ids {
		for _, name := range found[i].names {
			if first, dup := owner[name]; dup {
				_ = closeAll(clients())
				conn, _ := cfg.Get(id)
				return nil, &DiscoveryError{Server: id, URL: conn.URL,
					Cause: fmt.Errorf("%w: %q already advertised by %s", ErrDuplicateTool, name, first)}
			}
			owner[name] = id
			handles = append(handles, &remoteHandle{name: name, server: id, client: found[i].client})
		}
	}

	catalog, err := NewCatalog(handles...)
	if err != nil {
		_ = closeAll(clients())
		return nil, &DiscoveryError{Cause: err}
	}

	logging.Info("Discovery", "Discovered %d tools from %d servers", catalog.Len(), len(ids))
	logging.Info("Discovery", "Available tools: %s", strings.Join(catalog.Names(), ", "))

	return &Session{catalog: catalog, clients: clients()}, nil
}

func closeAll(clients []Client) error {
	var errs []error
	for _, c := range clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
