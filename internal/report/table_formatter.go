package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	pkgstrings "toolprobe/pkg/strings"
)

const detailWidth = 80

// TableFormatter renders results as a single table.
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) *TableFormatter {
	return &TableFormatter{options: options}
}

// Render implements Formatter.
func (f *TableFormatter) Render(w io.Writer, rep Report) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	if rep.Title != "" {
		t.SetTitle(rep.Title)
	}

	t.AppendHeader(table.Row{
		f.color(text.FgHiCyan, "TOOL"),
		f.color(text.FgHiCyan, "SCENARIO"),
		f.color(text.FgHiCyan, "STATUS"),
		f.color(text.FgHiCyan, "DURATION"),
		f.color(text.FgHiCyan, "DETAIL"),
	})

	for _, r := range rep.Results {
		status := f.color(text.FgGreen, "SUCCESS")
		var detail string
		if r.Success {
			detail, _ = describeData(r.Data)
		} else {
			status = f.color(text.FgRed, "FAILURE")
			detail = r.Error
		}
		t.AppendRow(table.Row{
			r.ToolName,
			r.Scenario,
			status,
			formatSeconds(r.Duration),
			pkgstrings.SingleLine(detail, detailWidth),
		})
	}

	passed, failed := Summary(rep.Results)
	t.AppendFooter(table.Row{
		"TOTAL", len(rep.Results),
		fmt.Sprintf("%d passed, %d failed", passed, failed),
		formatSeconds(rep.Duration), "",
	})

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}
