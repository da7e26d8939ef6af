package report

import (
	"encoding/xml"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

// xmlOutput is the XML structure for output.
type xmlOutput struct {
	Ignored       *xmlIgnored `xml:"ignored,omitempty"`
	XMLName       xml.Name    `xml:"report"`
	GeneratedAt   string      `xml:"generated_at,attr"`
	Findings      xmlFindings `xml:"findings"`
	Summary       xmlSummary  `xml:"summary"`
	TotalFiles    int         `xml:"total_files,attr"`
	TotalFindings int         `xml:"total_findings,attr"`
}

type xmlSummary struct {
	Errors   int `xml:"errors"`
	Warnings int `xml:"warnings"`
	Ignored  int `xml:"ignored,omitempty"`
}

type xmlFindings struct {
	Findings []xmlFinding `xml:"finding"`
}

type xmlFinding struct {
	File      string `xml:"file,attr"`
	Severity  string `xml:"severity,attr"`
	Code      string `xml:"code,attr"`
	Message   string `xml:"message"`
	Line      int    `xml:"line,attr"`
	Character int    `xml:"character,attr"`
}

type xmlIgnored struct {
	Items []xmlIgnoredItem `xml:"item"`
}

type xmlIgnoredItem struct {
	URL    string `xml:"url"`
	File   string `xml:"file"`
	Reason string `xml:"reason"`
	Rule   string `xml:"rule"`
	Line   int    `xml:"line,omitempty"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *Report) ([]byte, error) {
	out := xmlOutput{
		GeneratedAt:   report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		TotalFiles:    len(report.Files),
		TotalFindings: report.TotalFindings,
		Summary: xmlSummary{
			Errors:   report.Summary.Errors,
			Warnings: report.Summary.Warnings,
			Ignored:  report.Summary.Ignored,
		},
		Findings: xmlFindings{
			Findings: make([]xmlFinding, 0, len(report.Findings)),
		},
	}

	for _, f := range report.Findings {
		out.Findings.Findings = append(out.Findings.Findings, xmlFinding{
			File:      f.File,
			Line:      f.Line,
			Character: f.Character,
			Code:      f.Code,
			Severity:  string(f.Severity),
			Message:   f.Message,
		})
	}

	if len(report.Ignored) > 0 {
		out.Ignored = &xmlIgnored{Items: make([]xmlIgnoredItem, len(report.Ignored))}
		for i, ig := range report.Ignored {
			out.Ignored.Items[i] = xmlIgnoredItem(ig)
		}
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
