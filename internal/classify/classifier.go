package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	pkgstrings "toolprobe/pkg/strings"
)

// DefaultMarkers are the substrings the default marker treats as error text.
var DefaultMarkers = []string{"error", "failed"}

// ErrorMarker reports whether a non-JSON text response describes a failure.
type ErrorMarker func(text string) bool

// KeywordMarker returns an ErrorMarker matching any of words, case-insensitively.
func KeywordMarker(words ...string) ErrorMarker {
	lowered := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(w); w != "" {
			lowered = append(lowered, w)
		}
	}
	return func(text string) bool {
		text = strings.ToLower(text)
		for _, w := range lowered {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

// Classification is the verdict for one raw response.
// Data is only set on success and Error only on failure.
type Classification struct {
	Success bool
	Data    any
	Error   string
}

// Classifier classifies raw responses. The zero value uses the default
// keyword marker.
type Classifier struct {
	Marker ErrorMarker
}

var defaultMarker = KeywordMarker(DefaultMarkers...)

// Classify classifies raw with the default marker.
func Classify(raw any) Classification {
	return Classifier{}.Classify(raw)
}

// Classify classifies raw. It is pure and never panics.
func (c Classifier) Classify(raw any) Classification {
	text, ok := raw.(string)
	if !ok {
		return Classification{Error: unexpectedType(raw)}
	}

	if data, err := decodeJSON(text); err == nil {
		return Classification{Success: true, Data: data}
	}

	marker := c.Marker
	if marker == nil {
		marker = defaultMarker
	}
	if marker(text) {
		return Classification{Error: text}
	}
	return Classification{Success: true, Data: text}
}

func unexpectedType(raw any) string {
	typeName := "nil"
	if raw != nil {
		typeName = fmt.Sprintf("%T", raw)
	}
	return fmt.Sprintf("Unexpected result type: %s: %s", typeName, pkgstrings.Preview(raw, pkgstrings.PreviewMaxLen))
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON decodes exactly one JSON document from text.
func decodeJSON(text string) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("decode panic: %v", r)
		}
	}()

	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errTrailingData
	}
	return data, nil
}
