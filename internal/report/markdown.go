package report

import (
	"fmt"
	"strings"

	"github.com/leonardomso/gomdls/internal/helpers"
)

// MarkdownFormatter formats reports as Markdown.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(report.Findings)*160 + 400)

	b.WriteString("# Markdown Lint Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Files Scanned:** %d  \n", len(report.Files))
	fmt.Fprintf(&b, "**Findings:** %d\n\n", report.TotalFindings)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Severity | Count |\n")
	b.WriteString("|----------|-------|\n")
	fmt.Fprintf(&b, "| Errors | %d |\n", report.Summary.Errors)
	fmt.Fprintf(&b, "| Warnings | %d |\n", report.Summary.Warnings)
	fmt.Fprintf(&b, "| Files Affected | %d |\n", report.Summary.UniqueFiles)
	if report.Summary.Ignored > 0 {
		fmt.Fprintf(&b, "| Ignored | %d |\n", report.Summary.Ignored)
	}
	b.WriteString("\n")

	errors := findingsBySeverity(report.Findings, SeverityError)
	if len(errors) > 0 {
		fmt.Fprintf(&b, "## Errors (%d)\n\n", len(errors))
		b.WriteString("| Code | File | Line | Message |\n")
		b.WriteString("|------|------|------|---------|\n")
		for _, f := range errors {
			fmt.Fprintf(&b, "| `%s` | %s | %d | %s |\n", f.Code, f.File, f.Line, escapeMarkdown(f.Message))
		}
		b.WriteString("\n")
	}

	warnings := findingsBySeverity(report.Findings, SeverityWarning)
	if len(warnings) > 0 {
		fmt.Fprintf(&b, "## Warnings (%d)\n\n", len(warnings))
		b.WriteString("| Code | File | Line | Message |\n")
		b.WriteString("|------|------|------|---------|\n")
		for _, f := range warnings {
			fmt.Fprintf(&b, "| `%s` | %s | %d | %s |\n", f.Code, f.File, f.Line, escapeMarkdown(f.Message))
		}
		b.WriteString("\n")
	}

	if len(report.Ignored) > 0 {
		fmt.Fprintf(&b, "## Ignored Links (%d)\n\n", len(report.Ignored))
		b.WriteString("| URL | File | Line | Reason | Rule |\n")
		b.WriteString("|-----|------|------|--------|------|\n")
		for _, ig := range report.Ignored {
			fmt.Fprintf(&b, "| %s | %s | %d | %s | `%s` |\n",
				escapeMarkdown(helpers.TruncateURL(ig.URL, 60)), ig.File, ig.Line, ig.Reason, ig.Rule)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func findingsBySeverity(findings []Finding, sev Severity) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// escapeMarkdown escapes characters that would break a markdown table cell.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
