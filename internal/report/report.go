// Package report renders scenario results for humans and machines.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"toolprobe/internal/scenario"
	pkgstrings "toolprobe/pkg/strings"
)

// Format is the desired output format
type Format string

const (
	FormatText  Format = "text"  // Boxed plain-text blocks
	FormatTable Format = "table" // Rich table output
	FormatJSON  Format = "json"  // JSON output
)

// SampleSize is the number of list items shown in data previews.
const SampleSize = 5

// Options configures the formatter behavior
type Options struct {
	Format Format
	Color  bool
}

// Report is everything a formatter renders.
type Report struct {
	Title     string
	RunID     string
	Target    string
	StartedAt time.Time
	Duration  time.Duration
	Results   []scenario.InvocationResult
}

// Formatter renders a report to w.
type Formatter interface {
	Render(w io.Writer, rep Report) error
}

// ParseFormat validates a --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, table or json)", s)
	}
}

// NewFormatter creates the formatter for options.Format.
func NewFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatTable:
		return NewTableFormatter(options)
	case FormatText:
		fallthrough
	default:
		return NewTextFormatter(options)
	}
}

// Summary counts passed and failed results.
func Summary(results []scenario.InvocationResult) (passed, failed int) {
	for _, r := range results {
		if r.Success {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// AllPassed reports whether no result failed.
func AllPassed(results []scenario.InvocationResult) bool {
	_, failed := Summary(results)
	return failed == 0
}

// formatSeconds renders a duration as seconds with millisecond precision.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// describeData summarizes a decoded payload on one line, plus an optional
// sample line for lists.
func describeData(data any) (summary, sample string) {
	switch v := data.(type) {
	case nil:
		return "null", ""
	case []any:
		summary = fmt.Sprintf("%d items", len(v))
		if len(v) == 0 {
			return summary, ""
		}
		n := min(len(v), SampleSize)
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = pkgstrings.SingleLine(fmt.Sprintf("%v", v[i]), 60)
		}
		sample = strings.Join(parts, ", ")
		if len(v) > n {
			sample += ", ..."
		}
		return summary, sample
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("object with %d keys: %s", len(keys),
			pkgstrings.Truncate(strings.Join(keys, ", "), pkgstrings.PreviewMaxLen)), ""
	case string:
		return pkgstrings.SingleLine(v, pkgstrings.PreviewMaxLen), ""
	default:
		return pkgstrings.Preview(v, pkgstrings.PreviewMaxLen), ""
	}
}
