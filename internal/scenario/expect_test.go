package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectations(t *testing.T) {
	list := []any{"binance", "bybit"}
	obj := map[string]any{"marketTypes": []any{"spot"}, "count": float64(1)}

	tests := []struct {
		name   string
		expect Expectation
		data   any
		ok     bool
	}{
		{"string ok", IsString(), "x", true},
		{"string on list", IsString(), list, false},
		{"list ok", IsList(), list, true},
		{"list on object", IsList(), obj, false},
		{"object ok", IsObject(), obj, true},
		{"object on null", IsObject(), nil, false},
		{"list key ok", ObjectWithListKey("marketTypes"), obj, true},
		{"list key wrong type", ObjectWithListKey("count"), obj, false},
		{"list key missing", ObjectWithListKey("nope"), obj, false},
		{"list key on list", ObjectWithListKey("marketTypes"), list, false},
		{"min items list", MinItems(2), list, true},
		{"min items short", MinItems(3), list, false},
		{"min items string", MinItems(1), "a", true},
		{"min items number", MinItems(1), float64(3), false},
		{"all ok", All(IsList(), MinItems(1)), list, true},
		{"all fails", All(IsList(), MinItems(5)), list, false},
		{"any of ok", AnyOf(IsList(), IsString()), "text", true},
		{"any of fails", AnyOf(IsList(), IsString()), obj, false},
		{"any of empty", AnyOf(), obj, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expect.Check(tt.data)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAnyOf_JoinsMessages(t *testing.T) {
	err := AnyOf(IsList(), IsString()).Check(float64(1))
	assert.EqualError(t, err, "expected a list, got number or expected a string, got number")
}

func TestJSONSchema(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []any{"marketTypes"},
		"properties": map[string]any{
			"marketTypes": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string"},
			},
		},
	}

	expect, err := JSONSchema(schema)
	require.NoError(t, err)

	assert.NoError(t, expect.Check(map[string]any{"marketTypes": []any{"spot", "swap"}}))
	assert.Error(t, expect.Check(map[string]any{"marketTypes": []any{}}))
	assert.Error(t, expect.Check(map[string]any{"other": true}))
	assert.Error(t, expect.Check("not an object"))
}

func TestJSONSchema_Invalid(t *testing.T) {
	_, err := JSONSchema(map[string]any{"type": 12})
	assert.Error(t, err)
}
