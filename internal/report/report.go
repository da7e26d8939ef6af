// Package report formats diagnostics.Diagnostic findings for output, and
// writes them to files or stdout. Generalized from the teacher's link-check
// report package: same Formatter interface, InferFormat, and WriteToFile
// shape, rebuilt around diagnostics findings instead of link-check results.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leonardomso/gomdls/internal/diagnostics"
	"github.com/leonardomso/gomdls/internal/helpers"
)

// Format identifies an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXML      Format = "xml"
	FormatJUnit    Format = "junit"
	FormatMarkdown Format = "markdown"
)

// ValidFormats lists all supported format names.
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatXML), string(FormatJUnit), string(FormatMarkdown)}
}

// IsValidFormat reports whether s names a supported format.
func IsValidFormat(s string) bool {
	for _, f := range ValidFormats() {
		if f == s {
			return true
		}
	}
	return false
}

// Severity classifies a Finding for exit-code and summary purposes.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// severityFor maps a diagnostic code to its reporting severity. The two
// link-definition hygiene codes are advisory; everything else blocks CI.
func severityFor(code diagnostics.Code) Severity {
	switch code {
	case diagnostics.CodeUnusedLinkDefinition, diagnostics.CodeDuplicateLinkDefinition:
		return SeverityWarning
	default:
		return SeverityError
	}
}

func messageFor(code diagnostics.Code) string {
	switch code {
	case diagnostics.CodeNoSuchReference:
		return "reference has no matching link definition"
	case diagnostics.CodeNoSuchHeaderInOwnFile:
		return "fragment does not match any heading in this document"
	case diagnostics.CodeNoSuchFile:
		return "linked file does not exist"
	case diagnostics.CodeNoSuchHeaderInFile:
		return "fragment does not match any heading in the linked file"
	case diagnostics.CodeUnusedLinkDefinition:
		return "link definition is never referenced"
	case diagnostics.CodeDuplicateLinkDefinition:
		return "link definition reference is declared more than once"
	default:
		return string(code)
	}
}

// Finding is a single diagnostic, flattened to a reportable shape.
type Finding struct {
	File      string
	Line      int // 1-based
	Character int // 1-based
	Code      string
	Severity  Severity
	Message   string
}

// IgnoredLink records a link suppressed by an ignoreLinks glob rule.
type IgnoredLink struct {
	URL    string
	File   string
	Line   int
	Reason string
	Rule   string
}

// Summary totals a Report's findings by severity.
type Summary struct {
	Errors      int
	Warnings    int
	Ignored     int
	UniqueFiles int
}

// HasErrors reports whether any error-severity finding was recorded, the
// signal the lint command's exit code is built from.
func (s Summary) HasErrors() bool {
	return s.Errors > 0
}

// Report is the top-level structure every Formatter renders.
type Report struct {
	GeneratedAt   time.Time
	Files         []string
	TotalFindings int
	Summary       Summary
	Findings      []Finding
	Ignored       []IgnoredLink
}

// New builds a Report from per-document diagnostics, preserving the file
// order callers discovered documents in.
func New(files []string, byFile map[string][]diagnostics.Diagnostic, ignored []IgnoredLink) *Report {
	r := &Report{
		Files:   files,
		Ignored: ignored,
	}
	for _, file := range files {
		for _, d := range byFile[file] {
			sev := severityFor(d.Code)
			switch sev {
			case SeverityError:
				r.Summary.Errors++
			case SeverityWarning:
				r.Summary.Warnings++
			}
			r.Findings = append(r.Findings, Finding{
				File:      file,
				Line:      d.Range.Start.Line + 1,
				Character: d.Range.Start.Character + 1,
				Code:      string(d.Code),
				Severity:  sev,
				Message:   messageFor(d.Code),
			})
		}
	}
	r.Summary.Ignored = len(ignored)
	r.TotalFindings = len(r.Findings)

	findingFiles := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		findingFiles[i] = f.File
	}
	r.Summary.UniqueFiles = helpers.CountUniqueStrings(findingFiles)

	return r
}

// Formatter renders a Report to bytes.
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// GetFormatter returns the Formatter for format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatText:
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatXML:
		return &XMLFormatter{}, nil
	case FormatJUnit:
		return &JUnitFormatter{}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatReport formats report using the named format.
func FormatReport(report *Report, format Format) ([]byte, error) {
	f, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}
	return f.Format(report)
}

// InferFormat derives a Format from filename's extension.
func InferFormat(filename string) (Format, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".junit.xml"):
		return FormatJUnit, nil
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML, nil
	case strings.HasSuffix(lower, ".xml"):
		return FormatXML, nil
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return FormatMarkdown, nil
	case strings.HasSuffix(lower, ".txt"):
		return FormatText, nil
	default:
		return "", fmt.Errorf("cannot infer format from filename: %s", filename)
	}
}

// WriteToFile infers filename's format, renders report, and writes it.
func WriteToFile(report *Report, filename string) error {
	format, err := InferFormat(filename)
	if err != nil {
		return err
	}
	data, err := FormatReport(report, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filename, data, 0o600)
}
