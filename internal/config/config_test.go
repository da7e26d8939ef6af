package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".mdlsrc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromMissingFileReturnsDefault(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().MarkdownFileExtensions, cfg.MarkdownFileExtensions)
	assert.Equal(t, StyleAuto, cfg.PreferredMdPathExtensionStyle)
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
markdownFileExtensions: ["md"]
excludePaths: ["**/node_modules/**", "vendor/**"]
preferredMdPathExtensionStyle: removeExtension
diagnostics:
  validateFileLinks: false
  ignoreLinks: ["*.local/*"]
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"md"}, cfg.MarkdownFileExtensions)
	assert.Len(t, cfg.ExcludePaths, 2)
	assert.Equal(t, StyleRemoveExtension, cfg.PreferredMdPathExtensionStyle)
	assert.False(t, cfg.Diagnostics.ValidateFileLinksOrDefault())
	assert.True(t, cfg.Diagnostics.ValidateReferencesOrDefault())
	assert.Contains(t, cfg.Diagnostics.IgnoreLinks, "*.local/*")
}

func TestValidateRejectsBadStyle(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "preferredMdPathExtensionStyle: bogus\n")
	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestValidateRejectsBadGlob(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "excludePaths: [\"[\"]\n")
	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestFindAndLoadWalksUpToParent(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".mdlsrc.yaml"), []byte("markdownFileExtensions: [\"md\"]\n"), 0o644))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	cfg, err := FindAndLoad(sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"md"}, cfg.MarkdownFileExtensions)
}

func TestValidateMarkdownFileLinkFragmentsFollowsFragmentLinksByDefault(t *testing.T) {
	t.Parallel()
	d := Diagnostics{ValidateFragmentLinks: boolPtr(false)}
	assert.False(t, d.ValidateMarkdownFileLinkFragmentsOrDefault())
}

func boolPtr(b bool) *bool { return &b }
