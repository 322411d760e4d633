package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Expectation checks the decoded payload of a successful response.
type Expectation interface {
	Check(data any) error
}

// ExpectFunc adapts a function into an Expectation.
type ExpectFunc func(data any) error

// Check implements Expectation.
func (f ExpectFunc) Check(data any) error {
	return f(data)
}

// IsString expects a string payload.
func IsString() Expectation {
	return ExpectFunc(func(data any) error {
		if _, ok := data.(string); !ok {
			return fmt.Errorf("expected a string, got %s", typeName(data))
		}
		return nil
	})
}

// IsList expects a list payload.
func IsList() Expectation {
	return ExpectFunc(func(data any) error {
		if _, ok := data.([]any); !ok {
			return fmt.Errorf("expected a list, got %s", typeName(data))
		}
		return nil
	})
}

// IsObject expects an object payload.
func IsObject() Expectation {
	return ExpectFunc(func(data any) error {
		if _, ok := data.(map[string]any); !ok {
			return fmt.Errorf("expected an object, got %s", typeName(data))
		}
		return nil
	})
}

// ObjectWithListKey expects an object whose key holds a list.
func ObjectWithListKey(key string) Expectation {
	return ExpectFunc(func(data any) error {
		obj, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected an object with key %q, got %s", key, typeName(data))
		}
		value, ok := obj[key]
		if !ok {
			return fmt.Errorf("key %q is missing", key)
		}
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("key %q holds %s, expected a list", key, typeName(value))
		}
		return nil
	})
}

// MinItems expects a list, string or object with at least n elements.
func MinItems(n int) Expectation {
	return ExpectFunc(func(data any) error {
		var size int
		switch v := data.(type) {
		case []any:
			size = len(v)
		case map[string]any:
			size = len(v)
		case string:
			size = len([]rune(v))
		default:
			return fmt.Errorf("cannot count items of %s", typeName(data))
		}
		if size < n {
			return fmt.Errorf("expected at least %d items, got %d", n, size)
		}
		return nil
	})
}

// All expects every expectation to hold.
func All(expectations ...Expectation) Expectation {
	return ExpectFunc(func(data any) error {
		for _, e := range expectations {
			if err := e.Check(data); err != nil {
				return err
			}
		}
		return nil
	})
}

// AnyOf expects at least one expectation to hold.
func AnyOf(expectations ...Expectation) Expectation {
	return ExpectFunc(func(data any) error {
		if len(expectations) == 0 {
			return nil
		}
		msgs := make([]string, 0, len(expectations))
		for _, e := range expectations {
			err := e.Check(data)
			if err == nil {
				return nil
			}
			msgs = append(msgs, err.Error())
		}
		return errors.New(strings.Join(msgs, " or "))
	})
}

// JSONSchema compiles schema (a decoded JSON Schema document) into an
// expectation validating the payload against it.
func JSONSchema(schema any) (Expectation, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON schema: %w", err)
	}

	return ExpectFunc(func(data any) error {
		result, err := compiled.Validate(gojsonschema.NewGoLoader(data))
		if err != nil {
			return fmt.Errorf("schema validation failed: %w", err)
		}
		if !result.Valid() {
			var msgs []string
			for _, e := range result.Errors() {
				msgs = append(msgs, e.String())
			}
			return fmt.Errorf("schema validation errors: %s", strings.Join(msgs, "; "))
		}
		return nil
	}), nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
