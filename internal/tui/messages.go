package tui

import "github.com/leonardomso/gomdls/internal/report"

// ValidatedMsg is sent once the workspace has been scanned and every
// document validated against the diagnostics engine.
type ValidatedMsg struct {
	Err      error
	Findings []report.Finding
}
