package report

import (
	"encoding/xml"
	"fmt"
)

// JUnitFormatter formats reports as JUnit XML for CI integration. Only
// error-severity findings are emitted as failing test cases; warnings pass
// silently the way a linter's "info" level would.
type JUnitFormatter struct{}

type junitTestSuites struct {
	XMLName   xml.Name         `xml:"testsuites"`
	Name      string           `xml:"name,attr"`
	Tests     int              `xml:"tests,attr"`
	Failures  int              `xml:"failures,attr"`
	TestSuite []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Format implements Formatter.
func (*JUnitFormatter) Format(report *Report) ([]byte, error) {
	byFile := map[string][]Finding{}
	for _, f := range report.Findings {
		if f.Severity != SeverityError {
			continue
		}
		byFile[f.File] = append(byFile[f.File], f)
	}

	totalTests := 0
	totalFailures := 0
	for _, findings := range byFile {
		totalTests += len(findings)
		totalFailures += len(findings)
	}

	suites := junitTestSuites{
		Name:     "gomdls-lint",
		Tests:    totalTests,
		Failures: totalFailures,
	}

	for _, file := range report.Files {
		findings, ok := byFile[file]
		if !ok {
			continue
		}
		suite := junitTestSuite{Name: file, Tests: len(findings), Failures: len(findings)}
		for _, f := range findings {
			suite.TestCases = append(suite.TestCases, junitTestCase{
				Name:      fmt.Sprintf("%s:%d", f.Code, f.Line),
				ClassName: fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Character),
				Failure: &junitFailure{
					Message: f.Message,
					Type:    f.Code,
					Content: fmt.Sprintf("%s:%d:%d: %s", f.File, f.Line, f.Character, f.Message),
				},
			})
		}
		suites.TestSuite = append(suites.TestSuite, suite)
	}

	if len(suites.TestSuite) == 0 {
		suites.TestSuite = append(suites.TestSuite, junitTestSuite{Name: "all-documents", Tests: 0})
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
