package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leonardomso/gomdls/internal/diagnostics"
	"github.com/leonardomso/gomdls/internal/report"
)

var (
	lintFormat        string
	lintOutput        string
	lintIgnorePattern []string
)

// lintCmd represents the lint command.
var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Validate links across a markdown workspace",
	Long: `Scan a directory for markdown files and validate every link: broken
file references, dangling header fragments, unresolved link reference
definitions, and duplicate or unused link definitions.

If no path is provided, scans the current directory.

Exit codes:
  0 - no error-severity findings (warnings are still reported)
  1 - at least one error-severity finding

Examples:
  mdls lint                          # Lint the current directory
  mdls lint ./docs                   # Lint a specific directory
  mdls lint --format=json            # Machine-readable output
  mdls lint --format=junit -o out.xml
  mdls lint --ignore-pattern="*.local/*"`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFormat, "format", "f", "text",
		fmt.Sprintf("output format: %v", report.ValidFormats()))
	lintCmd.Flags().StringVarP(&lintOutput, "output", "o", "",
		"write the report to a file instead of stdout (format inferred from extension unless --format is set)")
	lintCmd.Flags().StringSliceVar(&lintIgnorePattern, "ignore-pattern", nil,
		"glob patterns of link targets to ignore (can be repeated or comma-separated)")
}

func runLint(cmd *cobra.Command, args []string) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	ws, cfg, err := openWorkspace(path)
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	cfg.Diagnostics.IgnoreLinks = append(cfg.Diagnostics.IgnoreLinks, lintIgnorePattern...)

	ctx := context.Background()
	docs, err := ws.AllMarkdownDocuments(ctx)
	if err != nil {
		fatalf("Error scanning %s: %v", path, err)
	}

	eng := diagnostics.NewEngine(ws, cfg)
	files := make([]string, 0, len(docs))
	byFile := map[string][]diagnostics.Diagnostic{}
	var ignored []report.IgnoredLink
	for _, doc := range docs {
		diags, ign, err := eng.Validate(ctx, doc)
		if err != nil {
			fatalf("Error validating %s: %v", doc.URI, err)
		}
		key := doc.URI.String()
		files = append(files, key)
		byFile[key] = diags
		for _, reason := range ign {
			ignored = append(ignored, report.IgnoredLink{
				URL: reason.URL, File: reason.File, Line: reason.Line,
				Reason: reason.Type, Rule: reason.Rule,
			})
		}
	}

	rep := report.New(files, byFile, ignored)
	rep.GeneratedAt = time.Now()

	formatExplicit := cmd.Flags().Changed("format")
	if formatExplicit && !report.IsValidFormat(lintFormat) {
		fatalf("Error: invalid --format %q (valid values: %v)", lintFormat, report.ValidFormats())
	}

	switch {
	case lintOutput != "" && formatExplicit:
		out, err := report.FormatReport(rep, report.Format(lintFormat))
		if err != nil {
			fatalf("Error formatting report: %v", err)
		}
		if err := os.WriteFile(lintOutput, out, 0o600); err != nil {
			fatalf("Error writing %s: %v", lintOutput, err)
		}
	case lintOutput != "":
		if err := report.WriteToFile(rep, lintOutput); err != nil {
			fatalf("Error writing %s: %v", lintOutput, err)
		}
	default:
		out, err := report.FormatReport(rep, report.Format(lintFormat))
		if err != nil {
			fatalf("Error formatting report: %v", err)
		}
		os.Stdout.Write(out)
	}

	if rep.Summary.HasErrors() {
		os.Exit(1)
	}
}
