// Package links implements the link model, extractor (C6), and resolver
// (C10): scanning a document for inline/reference/shortcut/definition/
// autolink occurrences and resolving their destinations against the
// workspace. See spec.md §3 (Data model) and §4.6.
package links

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
)

// HrefKind discriminates the Href tagged union.
type HrefKind int

const (
	HrefExternal HrefKind = iota
	HrefInternal
	HrefReference
)

// Href is a tagged union: External{URI}, Internal{Path, Fragment}, or
// Reference{Ref}.
type Href struct {
	Kind     HrefKind
	URI      mduri.URI // External
	Path     mduri.URI // Internal; never carries a fragment
	Fragment string    // Internal
	Ref      string    // Reference; as written in the source (compare via NormalizeRef)
}

// NormalizeRef lowercases, trims, and NFC-normalizes a reference name for
// case-insensitive, whitespace-normalized lookup (spec.md §3, §5).
func NormalizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	ref = norm.NFC.String(ref)
	return strings.ToLower(ref)
}

// LinkSource carries the textual/positional metadata shared by every link
// occurrence kind.
type LinkSource struct {
	Resource         mduri.URI
	Range            mdtext.Range
	TargetRange      mdtext.Range
	HrefText         string
	PathText         string
	HrefRange        mdtext.Range
	FragmentRange    *mdtext.Range
	TitleRange       *mdtext.Range
	IsAngleBracketLink bool
}

// MdLinkKind discriminates the MdLink tagged union.
type MdLinkKind int

const (
	KindLink MdLinkKind = iota
	KindDefinition
	KindAutoLink
)

// RefOccurrence is the `ref` field of a Definition: its text and range.
type RefOccurrence struct {
	Text  string
	Range mdtext.Range
}

// MdLink is a tagged union over Link, Definition, and AutoLink occurrences.
type MdLink struct {
	Kind   MdLinkKind
	Source LinkSource
	Href   Href
	Ref    RefOccurrence // Definition only
}

// LinkDefinitionSet maps a normalized ref to the first Definition with that
// ref in source order.
type LinkDefinitionSet struct {
	order []string
	byRef map[string]MdLink
}

// NewLinkDefinitionSet builds a set from definitions in source order,
// keeping only the first occurrence of each normalized ref.
func NewLinkDefinitionSet(defs []MdLink) *LinkDefinitionSet {
	s := &LinkDefinitionSet{byRef: map[string]MdLink{}}
	for _, d := range defs {
		key := NormalizeRef(d.Ref.Text)
		if _, ok := s.byRef[key]; ok {
			continue
		}
		s.order = append(s.order, key)
		s.byRef[key] = d
	}
	return s
}

// Lookup returns the definition for ref (normalized internally) and whether
// it was found.
func (s *LinkDefinitionSet) Lookup(ref string) (MdLink, bool) {
	d, ok := s.byRef[NormalizeRef(ref)]
	return d, ok
}

// Entries returns definitions in source order.
func (s *LinkDefinitionSet) Entries() []MdLink {
	out := make([]MdLink, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byRef[key])
	}
	return out
}
