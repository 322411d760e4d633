package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"

	pkgstrings "toolprobe/pkg/strings"
)

const boxWidth = 60

// TextFormatter renders one boxed block per result followed by totals.
type TextFormatter struct {
	options Options
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(options Options) *TextFormatter {
	return &TextFormatter{options: options}
}

// Render implements Formatter.
func (f *TextFormatter) Render(w io.Writer, rep Report) error {
	var b strings.Builder
	heavy := strings.Repeat("=", boxWidth)
	light := strings.Repeat("-", boxWidth)

	title := rep.Title
	if title == "" {
		title = "Test Results Summary"
	}
	fmt.Fprintf(&b, "%s\n%s\n%s\n", heavy, title, heavy)
	if rep.RunID != "" {
		fmt.Fprintf(&b, "Run:    %s\n", rep.RunID)
	}
	if rep.Target != "" {
		fmt.Fprintf(&b, "Target: %s\n", rep.Target)
	}
	if !rep.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Started: %s\n", rep.StartedAt.UTC().Format(time.RFC3339))
	}

	for _, r := range rep.Results {
		b.WriteString(light + "\n")
		tool := r.ToolName
		if r.Scenario != "" && r.Scenario != r.ToolName {
			tool = fmt.Sprintf("%s (%s)", r.ToolName, r.Scenario)
		}
		fmt.Fprintf(&b, "Tool: %s\n", tool)
		fmt.Fprintf(&b, "Execution Time: %s\n", formatSeconds(r.Duration))

		if r.Success {
			fmt.Fprintf(&b, "Status: %s\n", f.color(text.FgGreen, "SUCCESS"))
			summary, sample := describeData(r.Data)
			fmt.Fprintf(&b, "Data: %s\n", summary)
			if sample != "" {
				fmt.Fprintf(&b, "Sample: %s\n", sample)
			}
		} else {
			fmt.Fprintf(&b, "Status: %s\n", f.color(text.FgRed, "FAILURE"))
			fmt.Fprintf(&b, "Error: %s\n", pkgstrings.SingleLine(r.Error, pkgstrings.PreviewMaxLen))
		}
	}

	passed, failed := Summary(rep.Results)
	fmt.Fprintf(&b, "%s\n", heavy)
	fmt.Fprintf(&b, "Total: %d  Passed: %s  Failed: %s",
		len(rep.Results),
		f.color(text.FgGreen, fmt.Sprint(passed)),
		f.color(text.FgRed, fmt.Sprint(failed)))
	if rep.Duration > 0 {
		fmt.Fprintf(&b, "  Duration: %s", formatSeconds(rep.Duration))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TextFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}
