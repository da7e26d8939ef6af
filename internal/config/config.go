// Package config loads process-wide, immutable-per-session configuration
// from a .mdlsrc.yaml file, per spec.md §6 (External interfaces).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the default configuration file name.
const DefaultConfigFileName = ".mdlsrc.yaml"

// ExtensionStyle controls how a rename rewrite expresses a markdown link's
// file extension, one of "auto" | "includeExtension" | "removeExtension".
type ExtensionStyle string

const (
	StyleAuto              ExtensionStyle = "auto"
	StyleIncludeExtension  ExtensionStyle = "includeExtension"
	StyleRemoveExtension   ExtensionStyle = "removeExtension"
)

var validStyles = []ExtensionStyle{StyleAuto, StyleIncludeExtension, StyleRemoveExtension}

// Diagnostics holds the validate* toggles and ignore-glob list consumed by
// the diagnostics engine (spec.md §4.12).
type Diagnostics struct {
	ValidateReferences                   *bool    `yaml:"validateReferences"`
	ValidateFragmentLinks                *bool    `yaml:"validateFragmentLinks"`
	ValidateFileLinks                    *bool    `yaml:"validateFileLinks"`
	ValidateMarkdownFileLinkFragments    *bool    `yaml:"validateMarkdownFileLinkFragments"`
	ValidateUnusedLinkDefinitions        *bool    `yaml:"validateUnusedLinkDefinitions"`
	ValidateDuplicateLinkDefinitions     *bool    `yaml:"validateDuplicateLinkDefinitions"`
	IgnoreLinks                          []string `yaml:"ignoreLinks"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// ValidateReferencesOrDefault reports the effective setting, defaulting to true.
func (d Diagnostics) ValidateReferencesOrDefault() bool { return boolOr(d.ValidateReferences, true) }

// ValidateFragmentLinksOrDefault reports the effective setting, defaulting to true.
func (d Diagnostics) ValidateFragmentLinksOrDefault() bool {
	return boolOr(d.ValidateFragmentLinks, true)
}

// ValidateFileLinksOrDefault reports the effective setting, defaulting to true.
func (d Diagnostics) ValidateFileLinksOrDefault() bool { return boolOr(d.ValidateFileLinks, true) }

// ValidateMarkdownFileLinkFragmentsOrDefault reports the effective setting.
// Disabling own-fragment validation disables this by default too, per
// spec.md §4.12.
func (d Diagnostics) ValidateMarkdownFileLinkFragmentsOrDefault() bool {
	if d.ValidateMarkdownFileLinkFragments != nil {
		return *d.ValidateMarkdownFileLinkFragments
	}
	return d.ValidateFragmentLinksOrDefault()
}

// ValidateUnusedLinkDefinitionsOrDefault reports the effective setting.
func (d Diagnostics) ValidateUnusedLinkDefinitionsOrDefault() bool {
	return boolOr(d.ValidateUnusedLinkDefinitions, false)
}

// ValidateDuplicateLinkDefinitionsOrDefault reports the effective setting.
func (d Diagnostics) ValidateDuplicateLinkDefinitionsOrDefault() bool {
	return boolOr(d.ValidateDuplicateLinkDefinitions, false)
}

// Config is the complete, process-wide configuration surface (spec.md §6).
type Config struct {
	// MarkdownFileExtensions is an ordered list without leading dots; the
	// first entry is the default used for link ".md" fallback and rename
	// extension decisions.
	MarkdownFileExtensions []string `yaml:"markdownFileExtensions"`

	// KnownLinkedToFileExtensions lists extensions to skip ".md" fallback on
	// (known non-markdown link targets, e.g. images).
	KnownLinkedToFileExtensions []string `yaml:"knownLinkedToFileExtensions"`

	// ExcludePaths are glob patterns matched against URI paths during
	// workspace enumeration.
	ExcludePaths []string `yaml:"excludePaths"`

	// PreferredMdPathExtensionStyle controls rename-rewrite extension
	// handling; see ExtensionStyle.
	PreferredMdPathExtensionStyle ExtensionStyle `yaml:"preferredMdPathExtensionStyle"`

	Diagnostics Diagnostics `yaml:"diagnostics"`
}

// Default returns the zero-config defaults: markdown/markdown-extension
// files recognized by convention, no excludes, auto extension style.
func Default() *Config {
	return &Config{
		MarkdownFileExtensions:      []string{"md", "markdown", "mdx"},
		KnownLinkedToFileExtensions: []string{"png", "jpg", "jpeg", "gif", "svg", "pdf", "txt"},
		PreferredMdPathExtensionStyle: StyleAuto,
	}
}

// Load reads configuration from .mdlsrc.yaml in the current directory,
// falling back to Default() if the file does not exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFileName)
}

// LoadFrom reads configuration from a specific path, falling back to
// Default() if the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(loaded.MarkdownFileExtensions) > 0 {
		cfg.MarkdownFileExtensions = loaded.MarkdownFileExtensions
	}
	if len(loaded.KnownLinkedToFileExtensions) > 0 {
		cfg.KnownLinkedToFileExtensions = loaded.KnownLinkedToFileExtensions
	}
	if len(loaded.ExcludePaths) > 0 {
		cfg.ExcludePaths = loaded.ExcludePaths
	}
	if loaded.PreferredMdPathExtensionStyle != "" {
		cfg.PreferredMdPathExtensionStyle = loaded.PreferredMdPathExtensionStyle
	}
	cfg.Diagnostics = loaded.Diagnostics

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindAndLoad searches for a config file starting from startDir and walking
// up to parent directories until one is found or the filesystem root is
// reached.
func FindAndLoad(startDir string) (*Config, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return LoadFrom(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate reports an error if any configured value is invalid.
func (c *Config) Validate() error {
	if c.PreferredMdPathExtensionStyle != "" {
		valid := false
		for _, s := range validStyles {
			if c.PreferredMdPathExtensionStyle == s {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid preferredMdPathExtensionStyle %q: valid values are %v", c.PreferredMdPathExtensionStyle, validStyles)
		}
	}
	for _, p := range c.ExcludePaths {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid excludePaths pattern %q: %w", p, err)
		}
	}
	for _, p := range c.Diagnostics.IgnoreLinks {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid diagnostics.ignoreLinks pattern %q: %w", p, err)
		}
	}
	return nil
}

// DefaultMarkdownExtension returns the first configured markdown extension,
// used for ".md" fallback when resolving internal links.
func (c *Config) DefaultMarkdownExtension() string {
	if len(c.MarkdownFileExtensions) == 0 {
		return "md"
	}
	return c.MarkdownFileExtensions[0]
}

// IsMarkdownExtension reports whether ext (without leading dot) is one of
// the configured markdown extensions.
func (c *Config) IsMarkdownExtension(ext string) bool {
	for _, e := range c.MarkdownFileExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// IsKnownNonMarkdownExtension reports whether ext should skip ".md"
// fallback because it's a known non-markdown link target.
func (c *Config) IsKnownNonMarkdownExtension(ext string) bool {
	for _, e := range c.KnownLinkedToFileExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ExcludeGlobs compiles ExcludePaths into matchers, skipping any pattern
// that fails to compile (Validate should be called first to catch those).
func (c *Config) ExcludeGlobs() []glob.Glob {
	out := make([]glob.Glob, 0, len(c.ExcludePaths))
	for _, p := range c.ExcludePaths {
		if g, err := glob.Compile(p); err == nil {
			out = append(out, g)
		}
	}
	return out
}
