package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONFormatter renders the report as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonReport struct {
	Title           string       `json:"title,omitempty"`
	RunID           string       `json:"run_id,omitempty"`
	Target          string       `json:"target,omitempty"`
	StartedAt       *time.Time   `json:"started_at,omitempty"`
	DurationSeconds float64      `json:"duration_seconds"`
	Total           int          `json:"total"`
	Passed          int          `json:"passed"`
	Failed          int          `json:"failed"`
	Results         []jsonResult `json:"results"`
}

type jsonResult struct {
	Tool            string  `json:"tool"`
	Server          string  `json:"server,omitempty"`
	Scenario        string  `json:"scenario,omitempty"`
	Success         bool    `json:"success"`
	DurationSeconds float64 `json:"duration_seconds"`
	Error           string  `json:"error,omitempty"`
	Data            any     `json:"data,omitempty"`
	RawResponse     any     `json:"raw_response,omitempty"`
}

// Render implements Formatter.
func (f *JSONFormatter) Render(w io.Writer, rep Report) error {
	passed, failed := Summary(rep.Results)
	out := jsonReport{
		Title:           rep.Title,
		RunID:           rep.RunID,
		Target:          rep.Target,
		DurationSeconds: rep.Duration.Seconds(),
		Total:           len(rep.Results),
		Passed:          passed,
		Failed:          failed,
		Results:         make([]jsonResult, 0, len(rep.Results)),
	}
	if !rep.StartedAt.IsZero() {
		started := rep.StartedAt.UTC()
		out.StartedAt = &started
	}

	for _, r := range rep.Results {
		out.Results = append(out.Results, jsonResult{
			Tool:            r.ToolName,
			Server:          r.Server,
			Scenario:        r.Scenario,
			Success:         r.Success,
			DurationSeconds: r.Duration.Seconds(),
			Error:           r.Error,
			Data:            r.Data,
			RawResponse:     r.RawResponse,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
