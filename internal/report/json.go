package report

import (
	"encoding/json"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// jsonOutput is the JSON structure for output.
type jsonOutput struct {
	GeneratedAt   string        `json:"generated_at"`
	TotalFiles    int           `json:"total_files"`
	TotalFindings int           `json:"total_findings"`
	Summary       jsonSummary   `json:"summary"`
	Findings      []jsonFinding `json:"findings"`
	Ignored       []jsonIgnored `json:"ignored,omitempty"`
}

type jsonSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Ignored  int `json:"ignored,omitempty"`
}

type jsonFinding struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
	Code      string `json:"code"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

type jsonIgnored struct {
	URL    string `json:"url"`
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Reason string `json:"reason"`
	Rule   string `json:"rule"`
}

// Format implements Formatter.
func (*JSONFormatter) Format(report *Report) ([]byte, error) {
	out := jsonOutput{
		GeneratedAt:   report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		TotalFiles:    len(report.Files),
		TotalFindings: report.TotalFindings,
		Summary: jsonSummary{
			Errors:   report.Summary.Errors,
			Warnings: report.Summary.Warnings,
			Ignored:  report.Summary.Ignored,
		},
		Findings: make([]jsonFinding, 0, len(report.Findings)),
	}

	for _, f := range report.Findings {
		out.Findings = append(out.Findings, jsonFinding{
			File:      f.File,
			Line:      f.Line,
			Character: f.Character,
			Code:      f.Code,
			Severity:  string(f.Severity),
			Message:   f.Message,
		})
	}

	for _, ig := range report.Ignored {
		out.Ignored = append(out.Ignored, jsonIgnored(ig))
	}

	return json.MarshalIndent(out, "", "  ")
}
