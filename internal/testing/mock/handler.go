package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"toolprobe/pkg/logging"
)

// ToolHandler handles mock tool calls with configurable responses
type ToolHandler struct {
	config ToolConfig
}

// Reply is what a mock tool answers with after rendering.
type Reply struct {
	Kind  string
	Text  string
	Value interface{}
	Error string
}

// NewToolHandler creates a new mock tool handler
func NewToolHandler(config ToolConfig) *ToolHandler {
	return &ToolHandler{config: config}
}

// HandleCall selects the first response whose condition matches args and
// renders it. A configured delay honours ctx.
func (h *ToolHandler) HandleCall(ctx context.Context, args map[string]interface{}) (Reply, error) {
	logging.Debug("MockServer", "Mock tool '%s' called with args: %v", h.config.Name, args)

	var selected *ToolResponse
	for i := range h.config.Responses {
		if matchesCondition(h.config.Responses[i].Condition, args) {
			selected = &h.config.Responses[i]
			break
		}
	}
	if selected == nil {
		return Reply{}, fmt.Errorf("no response configured for tool %s", h.config.Name)
	}

	if selected.Delay != "" {
		d, err := time.ParseDuration(selected.Delay)
		if err != nil {
			return Reply{}, fmt.Errorf("invalid delay %q for tool %s: %w", selected.Delay, h.config.Name, err)
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		case <-timer.C:
		}
	}

	if selected.Error != "" {
		msg, err := render(selected.Error, args)
		if err != nil {
			return Reply{}, fmt.Errorf("failed to render error message: %w", err)
		}
		return Reply{Error: msg}, nil
	}

	kind := selected.Kind
	if kind == "" {
		kind = KindText
	}

	switch kind {
	case KindStructured:
		return Reply{Kind: kind, Value: normalize(selected.Response)}, nil
	case KindImage:
		return Reply{Kind: kind}, nil
	case KindText:
	default:
		return Reply{}, fmt.Errorf("unknown response kind %q for tool %s", kind, h.config.Name)
	}

	switch v := selected.Response.(type) {
	case nil:
		return Reply{Kind: kind}, nil
	case string:
		text, err := render(v, args)
		if err != nil {
			return Reply{}, fmt.Errorf("failed to render response: %w", err)
		}
		return Reply{Kind: kind, Text: text}, nil
	case map[string]interface{}, []interface{}, map[interface{}]interface{}:
		data, err := json.Marshal(normalize(v))
		if err != nil {
			return Reply{Kind: kind, Text: fmt.Sprintf("%v", v)}, nil
		}
		return Reply{Kind: kind, Text: string(data)}, nil
	default:
		return Reply{Kind: kind, Text: fmt.Sprintf("%v", v)}, nil
	}
}

func render(text string, args map[string]interface{}) (string, error) {
	tmpl, err := template.New("response").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, args); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// normalize converts YAML's map[interface{}]interface{} into JSON-friendly maps.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalize(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

func matchesCondition(condition map[string]interface{}, args map[string]interface{}) bool {
	for key, expected := range condition {
		actual, exists := args[key]
		if !exists || !valuesEqual(expected, actual) {
			return false
		}
	}
	return true
}

// valuesEqual compares two values for equality, handling type conversions
func valuesEqual(expected, actual interface{}) bool {
	if reflect.DeepEqual(expected, actual) {
		return true
	}
	return fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
}
