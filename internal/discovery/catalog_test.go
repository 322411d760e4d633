package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v any) InvokeFunc {
	return func(ctx context.Context, args map[string]any) (any, error) { return v, nil }
}

func TestCatalog(t *testing.T) {
	catalog, err := NewCatalog(
		NewFuncHandle("get-ticker", "ccxt", constant("t")),
		NewFuncHandle("get-ohlcv", "ccxt", constant("o")),
		NewFuncHandle("list-exchanges", "ccxt", constant("l")),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, catalog.Len())
	assert.Equal(t, []string{"get-ohlcv", "get-ticker", "list-exchanges"}, catalog.Names())

	h, ok := catalog.Lookup("get-ticker")
	require.True(t, ok)
	assert.Equal(t, "ccxt", h.Server())

	got, err := h.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "t", got)

	_, ok = catalog.Lookup("missing")
	assert.False(t, ok)
}

func TestCatalog_Duplicate(t *testing.T) {
	_, err := NewCatalog(
		NewFuncHandle("get-ticker", "a", constant(nil)),
		NewFuncHandle("get-ticker", "b", constant(nil)),
	)
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestCatalog_ZeroValue(t *testing.T) {
	var catalog Catalog
	assert.Equal(t, 0, catalog.Len())
	assert.Empty(t, catalog.Names())
	_, ok := catalog.Lookup("x")
	assert.False(t, ok)
}
