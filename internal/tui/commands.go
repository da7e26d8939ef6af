package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/diagnostics"
	"github.com/leonardomso/gomdls/internal/report"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// ValidateWorkspaceCmd scans ws for markdown documents and runs the
// diagnostics engine over each, returning every finding in one batch.
// Validation is local computation, not network I/O, so unlike the
// link-checker's per-URL streaming this runs to completion in a single
// command rather than dribbling out one message per document.
func ValidateWorkspaceCmd(ws workspace.Workspace, cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		docs, err := ws.AllMarkdownDocuments(ctx)
		if err != nil {
			return ValidatedMsg{Err: err}
		}

		eng := diagnostics.NewEngine(ws, cfg)
		files := make([]string, 0, len(docs))
		byFile := map[string][]diagnostics.Diagnostic{}
		var ignored []report.IgnoredLink
		for _, doc := range docs {
			diags, ign, err := eng.Validate(ctx, doc)
			if err != nil {
				return ValidatedMsg{Err: err}
			}
			key := doc.URI.String()
			files = append(files, key)
			byFile[key] = diags
			for _, reason := range ign {
				ignored = append(ignored, report.IgnoredLink{
					URL:    reason.URL,
					File:   reason.File,
					Line:   reason.Line,
					Reason: reason.Type,
					Rule:   reason.Rule,
				})
			}
		}

		rep := report.New(files, byFile, ignored)
		return ValidatedMsg{Findings: rep.Findings}
	}
}
