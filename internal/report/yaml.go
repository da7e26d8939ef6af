package report

import (
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct{}

// yamlOutput is the YAML structure for output.
type yamlOutput struct {
	GeneratedAt   string        `yaml:"generated_at"`
	Findings      []yamlFinding `yaml:"findings"`
	Ignored       []yamlIgnored `yaml:"ignored,omitempty"`
	Summary       yamlSummary   `yaml:"summary"`
	TotalFiles    int           `yaml:"total_files"`
	TotalFindings int           `yaml:"total_findings"`
}

type yamlSummary struct {
	Errors   int `yaml:"errors"`
	Warnings int `yaml:"warnings"`
	Ignored  int `yaml:"ignored,omitempty"`
}

type yamlFinding struct {
	File      string `yaml:"file"`
	Severity  string `yaml:"severity"`
	Code      string `yaml:"code"`
	Message   string `yaml:"message"`
	Line      int    `yaml:"line"`
	Character int    `yaml:"character"`
}

type yamlIgnored struct {
	URL    string `yaml:"url"`
	File   string `yaml:"file"`
	Reason string `yaml:"reason"`
	Rule   string `yaml:"rule"`
	Line   int    `yaml:"line,omitempty"`
}

// Format implements Formatter.
func (*YAMLFormatter) Format(report *Report) ([]byte, error) {
	out := yamlOutput{
		GeneratedAt:   report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		TotalFiles:    len(report.Files),
		TotalFindings: report.TotalFindings,
		Summary: yamlSummary{
			Errors:   report.Summary.Errors,
			Warnings: report.Summary.Warnings,
			Ignored:  report.Summary.Ignored,
		},
		Findings: make([]yamlFinding, 0, len(report.Findings)),
	}

	for _, f := range report.Findings {
		out.Findings = append(out.Findings, yamlFinding{
			File:      f.File,
			Line:      f.Line,
			Character: f.Character,
			Code:      f.Code,
			Severity:  string(f.Severity),
			Message:   f.Message,
		})
	}

	for _, ig := range report.Ignored {
		out.Ignored = append(out.Ignored, yamlIgnored(ig))
	}

	return yaml.Marshal(out)
}
