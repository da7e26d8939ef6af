package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/fsworkspace"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// loadConfig resolves process-wide configuration for a workspace rooted at
// root, honoring --no-config.
func loadConfig(root string) (*config.Config, error) {
	if noConfig {
		return config.Default(), nil
	}
	return config.FindAndLoad(root)
}

// openWorkspace builds a filesystem workspace rooted at root, loading
// configuration first so excludePaths and markdown extensions apply to
// enumeration.
func openWorkspace(root string) (workspace.Workspace, *config.Config, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return fsworkspace.New(cfg, root), cfg, nil
}

// openDocument opens a single markdown file as a *mdtext.Document, using ws
// to resolve it the same way a workspace-wide scan would.
func openDocument(ws workspace.Workspace, fsPath string) (*mdtext.Document, error) {
	abs, err := filepath.Abs(fsPath)
	if err != nil {
		return nil, err
	}
	uri := mduri.File(filepath.ToSlash(abs))
	doc, ok := ws.OpenMarkdownDocument(uri)
	if !ok {
		return nil, fmt.Errorf("not a markdown document: %s", fsPath)
	}
	return doc, nil
}
