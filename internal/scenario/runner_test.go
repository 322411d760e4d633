package scenario

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolprobe/internal/classify"
	"toolprobe/internal/discovery"
)

func returning(v any, err error) discovery.InvokeFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		return v, err
	}
}

func mustCatalog(t *testing.T, handles ...discovery.ToolHandle) discovery.Catalog {
	t.Helper()
	catalog, err := discovery.NewCatalog(handles...)
	require.NoError(t, err)
	return catalog
}

func TestRunner_PreservesOrderAndLength(t *testing.T) {
	catalog := mustCatalog(t,
		discovery.NewFuncHandle("json", "s", returning(`{"a": 1}`, nil)),
		discovery.NewFuncHandle("text", "s", returning("plain text", nil)),
		discovery.NewFuncHandle("err-text", "s", returning("Error: boom", nil)),
		discovery.NewFuncHandle("raises", "s", returning(nil, errors.New("connection reset"))),
		discovery.NewFuncHandle("number", "s", returning(42, nil)),
	)

	defs := []Definition{
		{Tool: "raises"},
		{Tool: "json"},
		{Tool: "number"},
		{Tool: "missing"},
		{Tool: "err-text"},
		{Tool: "text"},
	}

	results, err := NewRunner(catalog, WithContinueOnError(true)).Run(context.Background(), defs)
	require.NoError(t, err)
	require.Len(t, results, len(defs))

	for i, def := range defs {
		assert.Equal(t, def.Tool, results[i].ToolName)
		assert.Equal(t, def.Tool, results[i].Scenario)
	}

	want := []bool{false, true, false, false, false, true}
	for i, w := range want {
		assert.Equal(t, w, results[i].Success, "result %d (%s)", i, defs[i].Tool)
	}

	for _, r := range results {
		// Error and Data are never both set.
		if r.Success {
			assert.Empty(t, r.Error)
		} else {
			assert.NotEmpty(t, r.Error)
			assert.Nil(t, r.Data)
		}
	}

	assert.Equal(t, "connection reset", results[0].Error)
	assert.Nil(t, results[0].RawResponse)
	assert.Equal(t, map[string]any{"a": float64(1)}, results[1].Data)
	assert.Equal(t, "Unexpected result type: int: 42", results[2].Error)
	assert.Contains(t, results[3].Error, `tool "missing" not found`)
	assert.Equal(t, "Error: boom", results[4].Error)
	assert.Equal(t, "plain text", results[5].Data)
}

func TestRunner_ToolNotFoundStopsWithoutContinueOnError(t *testing.T) {
	catalog := mustCatalog(t,
		discovery.NewFuncHandle("list-exchanges", "s", returning(`["binance"]`, nil)),
		discovery.NewFuncHandle("get-ohlcv", "s", returning("ok", nil)),
	)

	defs := []Definition{{Tool: "list-exchanges"}, {Tool: "get-ticker"}, {Tool: "get-ohlcv"}}
	results, err := NewRunner(catalog).Run(context.Background(), defs)

	var notFound *ToolNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "get-ticker", notFound.Tool)
	assert.Equal(t, []string{"get-ohlcv", "list-exchanges"}, notFound.Available)

	// Results recorded before the missing tool are kept intact.
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, []any{"binance"}, results[0].Data)
}

func TestRunner_RecordsDurationOnEveryPath(t *testing.T) {
	slow := func(v any, err error) discovery.InvokeFunc {
		return func(ctx context.Context, args map[string]any) (any, error) {
			time.Sleep(5 * time.Millisecond)
			return v, err
		}
	}
	catalog := mustCatalog(t,
		discovery.NewFuncHandle("ok", "s", slow("fine", nil)),
		discovery.NewFuncHandle("fails", "s", slow(nil, errors.New("nope"))),
	)

	results, err := NewRunner(catalog).Run(context.Background(), []Definition{{Tool: "ok"}, {Tool: "fails"}})
	require.NoError(t, err)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Duration, 5*time.Millisecond)
		assert.False(t, r.StartedAt.IsZero())
	}
}

func TestRunner_PassesArguments(t *testing.T) {
	var got map[string]any
	catalog := mustCatalog(t, discovery.NewFuncHandle("get-ticker", "s",
		func(ctx context.Context, args map[string]any) (any, error) {
			got = args
			return "ok", nil
		}))

	args := map[string]any{"exchange": "bybit", "symbol": "BTC/USDT:USDT"}
	_, err := NewRunner(catalog).Run(context.Background(), []Definition{{Tool: "get-ticker", Args: args}})
	require.NoError(t, err)
	assert.Equal(t, args, got)
}

func TestRunner_Expectations(t *testing.T) {
	catalog := mustCatalog(t,
		discovery.NewFuncHandle("get-market-types", "s", returning(`{"marketTypes": ["spot", "swap"]}`, nil)),
		discovery.NewFuncHandle("broken-market-types", "s", returning(`{"types": "spot"}`, nil)),
	)

	defs := []Definition{
		{Tool: "get-market-types", Expect: ObjectWithListKey("marketTypes")},
		{Tool: "broken-market-types", Expect: ObjectWithListKey("marketTypes")},
	}
	results, err := NewRunner(catalog).Run(context.Background(), defs)
	require.NoError(t, err)

	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Nil(t, results[1].Data)
	assert.Equal(t, `expectation failed: key "marketTypes" is missing`, results[1].Error)
	assert.Equal(t, `{"types": "spot"}`, results[1].RawResponse)
}

func TestRunner_RequireStringResponse(t *testing.T) {
	catalog := mustCatalog(t,
		discovery.NewFuncHandle("get-ohlcv", "s", returning("1700000000,27000 failed candle count 0", nil)),
		discovery.NewFuncHandle("get-ticker", "s", returning(map[string]any{"last": 1.0}, nil)),
	)

	defs := []Definition{
		{Tool: "get-ohlcv", RequireStringResponse: true},
		{Tool: "get-ticker", RequireStringResponse: true},
	}
	results, err := NewRunner(catalog).Run(context.Background(), defs)
	require.NoError(t, err)

	// Any string passes without marker inspection.
	assert.True(t, results[0].Success)
	assert.Equal(t, "1700000000,27000 failed candle count 0", results[0].Data)

	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "Unexpected result type: map[string]interface {}")
}

func TestRunner_CustomClassifier(t *testing.T) {
	catalog := mustCatalog(t, discovery.NewFuncHandle("t", "s", returning("0 failed orders", nil)))
	runner := NewRunner(catalog, WithClassifier(classify.Classifier{Marker: func(string) bool { return false }}))

	results, err := runner.Run(context.Background(), []Definition{{Tool: "t"}})
	require.NoError(t, err)
	assert.True(t, results[0].Success)
}

func TestRunner_CancelledBeforeStart(t *testing.T) {
	calls := 0
	catalog := mustCatalog(t, discovery.NewFuncHandle("t", "s",
		func(ctx context.Context, args map[string]any) (any, error) {
			calls++
			return "ok", nil
		}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewRunner(catalog).Run(ctx, []Definition{{Tool: "t"}, {Tool: "t"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Zero(t, calls)
}

func TestRunner_CancelledMidCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := mustCatalog(t,
		discovery.NewFuncHandle("first", "s", returning("ok", nil)),
		discovery.NewFuncHandle("blocks", "s", func(ctx context.Context, args map[string]any) (any, error) {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		}),
		discovery.NewFuncHandle("never", "s", returning("ok", nil)),
	)

	results, err := NewRunner(catalog).Run(ctx, []Definition{{Tool: "first"}, {Tool: "blocks"}, {Tool: "never"}})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, context.Canceled.Error(), results[1].Error)
}

func TestRunner_CallTimeout(t *testing.T) {
	catalog := mustCatalog(t, discovery.NewFuncHandle("slow", "s",
		func(ctx context.Context, args map[string]any) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}))

	results, err := NewRunner(catalog, WithCallTimeout(10*time.Millisecond)).Run(context.Background(),
		[]Definition{{Tool: "slow"}, {Tool: "slow", Timeout: 5 * time.Millisecond}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Success)
		assert.Equal(t, context.DeadlineExceeded.Error(), r.Error)
	}
}

func TestToolNotFoundError_Message(t *testing.T) {
	assert.Equal(t, `tool "x" not found: catalog is empty`, (&ToolNotFoundError{Tool: "x"}).Error())
	assert.Equal(t, `tool "x" not found, available tools: a, b`,
		(&ToolNotFoundError{Tool: "x", Available: []string{"a", "b"}}).Error())
}
