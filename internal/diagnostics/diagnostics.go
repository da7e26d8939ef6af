// Package diagnostics implements the diagnostics engine (C12): four
// validation classes over a document's links and a bounded-concurrency stat
// fan-out whose cached results are dropped on file create/delete events.
// See spec.md §4.12.
package diagnostics

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/filter"
	"github.com/leonardomso/gomdls/internal/links"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/toc"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// Code identifies a diagnostic's contract-stable class.
type Code string

const (
	CodeNoSuchReference         Code = "no-such-reference"
	CodeNoSuchHeaderInOwnFile   Code = "no-such-header-in-own-file"
	CodeNoSuchFile              Code = "no-such-file"
	CodeNoSuchHeaderInFile      Code = "no-such-header-in-file"
	CodeUnusedLinkDefinition    Code = "unused-link-definition"
	CodeDuplicateLinkDefinition Code = "duplicate-link-definition"
)

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Code  Code
	Range mdtext.Range
}

// Options mirrors spec.md §4.12's input options.
type Options struct {
	ValidateReferences                bool
	ValidateFragmentLinks             bool
	ValidateFileLinks                 bool
	ValidateMarkdownFileLinkFragments bool
	ValidateUnusedLinkDefinitions     bool
	ValidateDuplicateLinkDefinitions  bool
	IgnoreLinks                       []string
}

// OptionsFromConfig derives Options from the process-wide config.
func OptionsFromConfig(cfg *config.Config) Options {
	d := cfg.Diagnostics
	return Options{
		ValidateReferences:                d.ValidateReferencesOrDefault(),
		ValidateFragmentLinks:             d.ValidateFragmentLinksOrDefault(),
		ValidateFileLinks:                 d.ValidateFileLinksOrDefault(),
		ValidateMarkdownFileLinkFragments: d.ValidateMarkdownFileLinkFragmentsOrDefault(),
		ValidateUnusedLinkDefinitions:     d.ValidateUnusedLinkDefinitionsOrDefault(),
		ValidateDuplicateLinkDefinitions:  d.ValidateDuplicateLinkDefinitionsOrDefault(),
		IgnoreLinks:                       d.IgnoreLinks,
	}
}

// StatCache memoizes path existence lookups shared across diagnostics runs.
type StatCache struct {
	ws    workspace.Workspace
	cache map[string]bool
}

// NewStatCache builds a stat cache backed by ws.
func NewStatCache(ws workspace.Workspace) *StatCache {
	return &StatCache{ws: ws, cache: map[string]bool{}}
}

func (s *StatCache) exists(uri mduri.URI) bool {
	key := uri.String()
	if v, ok := s.cache[key]; ok {
		return v
	}
	_, ok := s.ws.Stat(uri)
	s.cache[key] = ok
	return ok
}

// TOCLookup resolves another document's table of contents by URI, for
// cross-file fragment validation. It reports false if the target isn't a
// known markdown document.
type TOCLookup func(target mduri.URI) ([]toc.Entry, bool)

// Validate runs all enabled diagnostic classes over doc's links, using
// bounded-parallelism file stats (spec.md §5's explicit allowance, cap 10).
// It also returns every link suppressed by an ignoreLinks glob, for report
// rendering.
func Validate(ctx context.Context, docLinks []links.MdLink, docTOC []toc.Entry, docURI mduri.URI, opts Options, stats *StatCache, lookupTOC TOCLookup) ([]Diagnostic, []filter.IgnoreReason, error) {
	ignore, _ := filter.New(filter.Config{GlobPatterns: opts.IgnoreLinks})

	var out []Diagnostic

	if opts.ValidateReferences || opts.ValidateUnusedLinkDefinitions || opts.ValidateDuplicateLinkDefinitions {
		defs := filterDefs(docLinks)
		defSet := links.NewLinkDefinitionSet(defs)

		if opts.ValidateReferences {
			for _, l := range docLinks {
				if l.Kind != links.KindLink || l.Href.Kind != links.HrefReference {
					continue
				}
				if _, ok := defSet.Lookup(l.Href.Ref); !ok {
					out = append(out, Diagnostic{Code: CodeNoSuchReference, Range: l.Source.HrefRange})
				}
			}
		}
		if opts.ValidateUnusedLinkDefinitions {
			out = append(out, unusedDefinitionDiagnostics(docLinks, defs)...)
		}
		if opts.ValidateDuplicateLinkDefinitions {
			out = append(out, duplicateDefinitionDiagnostics(defs)...)
		}
	}

	if !opts.ValidateFileLinks && !opts.ValidateFragmentLinks {
		return out, nil, nil
	}

	// Bare "#fragment" links are left out of the file-link map; check them
	// against this document's own TOC here.
	if opts.ValidateFragmentLinks {
		for _, l := range docLinks {
			if l.Href.Kind != links.HrefInternal || !strings.HasPrefix(l.Source.HrefText, "#") || l.Source.FragmentRange == nil {
				continue
			}
			if l.Href.Fragment == "" || isLineFragment(l.Href.Fragment) {
				continue
			}
			if _, ok := toc.LookupFragment(docTOC, l.Href.Fragment); !ok {
				out = append(out, Diagnostic{Code: CodeNoSuchHeaderInOwnFile, Range: *l.Source.FragmentRange})
			}
		}
	}

	fileLinks := buildFileLinkMap(docLinks)
	if err := statAll(ctx, fileLinks, stats); err != nil {
		return out, nil, err
	}

	for path, occurrences := range fileLinks {
		if ignore.ShouldIgnore(path, docURI.String(), 0) {
			continue
		}
		target := mduri.Parse(path)
		exists := stats.exists(target)
		isSelf := pathEqual(target, docURI)

		for _, occ := range occurrences {
			if !exists {
				if opts.ValidateFileLinks {
					out = append(out, Diagnostic{Code: CodeNoSuchFile, Range: occ.hrefRange})
				}
				continue
			}
			if occ.fragment == "" || isLineFragment(occ.fragment) {
				continue
			}
			if isSelf {
				if opts.ValidateFragmentLinks {
					if _, ok := toc.LookupFragment(docTOC, occ.fragment); !ok {
						out = append(out, Diagnostic{Code: CodeNoSuchHeaderInOwnFile, Range: occ.fragmentRange})
					}
				}
				continue
			}
			if !opts.ValidateMarkdownFileLinkFragments || lookupTOC == nil {
				continue
			}
			targetTOC, ok := lookupTOC(target)
			if !ok {
				continue
			}
			if _, ok := toc.LookupFragment(targetTOC, occ.fragment); !ok {
				out = append(out, Diagnostic{Code: CodeNoSuchHeaderInFile, Range: occ.fragmentRange})
			}
		}
	}

	return out, ignore.IgnoredURLs(), nil
}

func pathEqual(a, b mduri.URI) bool {
	return a.String() == b.String()
}

type fileOccurrence struct {
	hrefRange     mdtext.Range
	fragment      string
	fragmentRange mdtext.Range
}

func buildFileLinkMap(docLinks []links.MdLink) map[string][]fileOccurrence {
	out := map[string][]fileOccurrence{}
	for _, l := range docLinks {
		if l.Kind != links.KindLink && l.Kind != links.KindDefinition {
			continue
		}
		if l.Href.Kind != links.HrefInternal {
			continue
		}
		if strings.HasPrefix(l.Source.HrefText, "#") {
			continue
		}
		key := l.Href.Path.String()
		fr := l.Source.HrefRange
		if l.Source.FragmentRange != nil {
			fr = *l.Source.FragmentRange
		}
		out[key] = append(out[key], fileOccurrence{
			hrefRange:     l.Source.HrefRange,
			fragment:      l.Href.Fragment,
			fragmentRange: fr,
		})
	}
	return out
}

func statAll(ctx context.Context, fileLinks map[string][]fileOccurrence, stats *StatCache) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(10)
	for path := range fileLinks {
		path := path
		g.Go(func() error {
			stats.exists(mduri.Parse(path))
			return nil
		})
	}
	return g.Wait()
}

func isLineFragment(fragment string) bool {
	if fragment == "" || fragment[0] != 'L' {
		return false
	}
	rest := fragment[1:]
	comma := strings.IndexByte(rest, ',')
	if comma >= 0 {
		_, err1 := strconv.Atoi(rest[:comma])
		_, err2 := strconv.Atoi(rest[comma+1:])
		return err1 == nil && err2 == nil
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

func filterDefs(all []links.MdLink) []links.MdLink {
	var out []links.MdLink
	for _, l := range all {
		if l.Kind == links.KindDefinition {
			out = append(out, l)
		}
	}
	return out
}

func unusedDefinitionDiagnostics(all []links.MdLink, defs []links.MdLink) []Diagnostic {
	used := map[string]bool{}
	for _, l := range all {
		if l.Kind == links.KindLink && l.Href.Kind == links.HrefReference {
			used[links.NormalizeRef(l.Href.Ref)] = true
		}
	}
	var out []Diagnostic
	for _, d := range defs {
		if !used[links.NormalizeRef(d.Ref.Text)] {
			out = append(out, Diagnostic{Code: CodeUnusedLinkDefinition, Range: d.Source.Range})
		}
	}
	return out
}

func duplicateDefinitionDiagnostics(defs []links.MdLink) []Diagnostic {
	count := map[string]int{}
	for _, d := range defs {
		count[links.NormalizeRef(d.Ref.Text)]++
	}
	var out []Diagnostic
	for _, d := range defs {
		if count[links.NormalizeRef(d.Ref.Text)] > 1 {
			out = append(out, Diagnostic{Code: CodeDuplicateLinkDefinition, Range: d.Ref.Range})
		}
	}
	return out
}
