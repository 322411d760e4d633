package discovery

import (
	"context"
	"fmt"
	"sort"
)

// ToolHandle is an invocable tool. Handles are owned by the Session that
// discovered them and are only valid until it is closed.
type ToolHandle interface {
	// Name is the tool name as advertised by its server.
	Name() string
	// Server is the identifier of the server advertising the tool.
	Server() string
	// Invoke calls the tool once with args and returns the unwrapped response.
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Catalog is an immutable mapping from tool name to handle.
type Catalog struct {
	tools map[string]ToolHandle
}

// NewCatalog builds a catalog from handles. Two handles with the same name
// are rejected with ErrDuplicateTool.
func NewCatalog(handles ...ToolHandle) (Catalog, error) {
	tools := make(map[string]ToolHandle, len(handles))
	for _, h := range handles {
		if existing, ok := tools[h.Name()]; ok {
			return Catalog{}, fmt.Errorf("%w: %q is advertised by both %s and %s",
				ErrDuplicateTool, h.Name(), existing.Server(), h.Server())
		}
		tools[h.Name()] = h
	}
	return Catalog{tools: tools}, nil
}

// Lookup returns the handle for name.
func (c Catalog) Lookup(name string) (ToolHandle, bool) {
	h, ok := c.tools[name]
	return h, ok
}

// Names returns all tool names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tools.
func (c Catalog) Len() int {
	return len(c.tools)
}

// InvokeFunc is the signature of a tool invocation.
type InvokeFunc func(ctx context.Context, args map[string]any) (any, error)

type funcHandle struct {
	name   string
	server string
	fn     InvokeFunc
}

// NewFuncHandle adapts fn into a ToolHandle. It is used to embed local tools
// in a catalog and by tests.
func NewFuncHandle(name, server string, fn InvokeFunc) ToolHandle {
	return &funcHandle{name: name, server: server, fn: fn}
}

func (h *funcHandle) Name() string   { return h.name }
func (h *funcHandle) Server() string { return h.server }

func (h *funcHandle) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return h.fn(ctx, args)
}
