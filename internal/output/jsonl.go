package output

import (
	"encoding/json"
	"io"

	"github.com/ancients-collective/harden/internal/types"
)

// JSONLFormatter writes a report as newline-delimited JSON.
// The first line is a header with host and summary information;
// each following line is one rule result.
type JSONLFormatter struct{}

// Write renders the report as JSONL: header line + one line per rule.
func (f *JSONLFormatter) Write(w io.Writer, report *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	header := struct {
		Type      string              `json:"type"`
		Title     string              `json:"title"`
		Timestamp string              `json:"timestamp"`
		Host      string              `json:"host"`
		SessionID string              `json:"session_id,omitempty"`
		System    *types.ReportSystem `json:"system,omitempty"`
		Summary   types.Summary       `json:"summary"`
	}{
		Type:      "header",
		Title:     report.Title,
		Timestamp: report.Timestamp,
		Host:      report.Host,
		SessionID: report.SessionID,
		System:    report.System,
		Summary:   report.Summary,
	}
	if err := enc.Encode(header); err != nil {
		return err
	}

	for _, sec := range report.Sections {
		for _, r := range sec.Results {
			line := struct {
				Type   string           `json:"type"`
				Result types.RuleResult `json:"result"`
			}{
				Type:   "result",
				Result: r,
			}
			if err := enc.Encode(line); err != nil {
				return err
			}
		}
	}

	return nil
}
