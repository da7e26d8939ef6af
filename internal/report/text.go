package report

import (
	"fmt"
	"strings"
)

// TextFormatter formats a Report as human-readable lines, one per finding,
// in the style of a compiler's diagnostic output.
type TextFormatter struct{}

// Format implements Formatter.
func (*TextFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	for _, f := range report.Findings {
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s [%s]\n", f.File, f.Line, f.Character, f.Severity, f.Message, f.Code)
	}

	if len(report.Findings) == 0 {
		b.WriteString("no problems found\n")
		return []byte(b.String()), nil
	}

	fmt.Fprintf(&b, "\n%d error(s), %d warning(s)", report.Summary.Errors, report.Summary.Warnings)
	if report.Summary.Ignored > 0 {
		fmt.Fprintf(&b, ", %d ignored", report.Summary.Ignored)
	}
	b.WriteString("\n")

	return []byte(b.String()), nil
}
