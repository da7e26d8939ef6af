// Package organize implements the organize/extract-definitions operation
// (C14): sorting a document's link definitions into one trailing block
// (duplicates are kept, in source order), and the extract-definition code
// action. See spec.md §4.14.
package organize

import (
	"sort"
	"strings"

	"github.com/leonardomso/gomdls/internal/links"
	"github.com/leonardomso/gomdls/internal/mdtext"
)

// Edit is a single text replacement within a document.
type Edit struct {
	Range   mdtext.Range
	NewText string
}

// Options controls the Organize operation.
type Options struct {
	RemoveUnused bool
}

type def struct {
	ref     string
	text    string // raw source text of the definition, verbatim
	endLine int    // 0-based line the definition's source range ends on
}

// Organize collapses every link definition in docLinks into a single
// trailing block, case-insensitively sorted by ref, optionally dropping
// unreferenced definitions. It returns a nil edit list when there's
// nothing to rewrite (spec.md §7), keeping the operation idempotent
// (spec.md §8). When no definition is dropped and they already appear in
// sorted order, it returns nil and leaves them where they are, even if they
// are not at the end of the document.
func Organize(doc *mdtext.Document, docLinks []links.MdLink, opts Options) []Edit {
	defs := collectDefs(doc, docLinks)
	if len(defs) == 0 {
		return nil
	}

	used := usedRefs(docLinks)
	kept := defs
	if opts.RemoveUnused {
		kept = make([]def, 0, len(defs))
		for _, d := range defs {
			if used[links.NormalizeRef(d.ref)] {
				kept = append(kept, d)
			}
		}
	}

	sorted := make([]def, len(kept))
	copy(sorted, kept)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].ref) < strings.ToLower(sorted[j].ref)
	})

	if len(sorted) == len(defs) && sameOrder(defs, sorted) {
		return nil
	}

	docLinksDefs := filterDefLinks(docLinks)
	removeEdits := removeDefinitionEdits(doc, docLinksDefs)
	out := append([]Edit{}, removeEdits...)
	if insertEdit := insertBlockEdit(doc, renderBlock(sorted)); insertEdit != nil {
		out = append(out, *insertEdit)
	}
	return out
}

func collectDefs(doc *mdtext.Document, docLinks []links.MdLink) []def {
	var out []def
	for _, l := range docLinks {
		if l.Kind != links.KindDefinition {
			continue
		}
		out = append(out, def{
			ref:     l.Ref.Text,
			text:    strings.TrimRight(doc.Text(&l.Source.Range), "\n"),
			endLine: l.Source.Range.End.Line,
		})
	}
	return out
}

func filterDefLinks(all []links.MdLink) []links.MdLink {
	var out []links.MdLink
	for _, l := range all {
		if l.Kind == links.KindDefinition {
			out = append(out, l)
		}
	}
	return out
}

func usedRefs(docLinks []links.MdLink) map[string]bool {
	used := map[string]bool{}
	for _, l := range docLinks {
		if l.Kind == links.KindLink && l.Href.Kind == links.HrefReference {
			used[links.NormalizeRef(l.Href.Ref)] = true
		}
	}
	return used
}

func sameOrder(a, b []def) bool {
	for i := range a {
		if a[i].ref != b[i].ref {
			return false
		}
	}
	return true
}

func renderBlock(defs []def) string {
	if len(defs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range defs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.text)
	}
	return b.String()
}

// removeDefinitionEdits deletes every existing definition's source line in
// place; the sorted block is reinserted as a single trailing block.
func removeDefinitionEdits(doc *mdtext.Document, defs []links.MdLink) []Edit {
	var out []Edit
	for _, d := range defs {
		r := fullLineRange(d.Source.Range)
		if r.End.Line >= doc.LineCount() {
			// The last line has no following line; end at the end of the text.
			r.End = doc.PositionAt(len(doc.Text(nil)))
		}
		out = append(out, Edit{Range: r, NewText: ""})
	}
	return out
}

func fullLineRange(r mdtext.Range) mdtext.Range {
	start := mdtext.Position{Line: r.Start.Line, Character: 0}
	end := mdtext.Position{Line: r.End.Line + 1, Character: 0}
	return mdtext.Range{Start: start, End: end}
}

// insertBlockEdit appends the sorted definition block at the end of the
// document, separated from the body by exactly one blank line, preserving
// the document's trailing newline.
func insertBlockEdit(doc *mdtext.Document, block string) *Edit {
	if block == "" {
		return nil
	}
	text := doc.Text(nil)
	trimmed := strings.TrimRight(text, "\n")
	insertPos := doc.PositionAt(len(text))
	newText := ""
	if trimmed != "" {
		newText = "\n\n"
	}
	newText += block + "\n"
	return &Edit{Range: mdtext.Range{Start: insertPos, End: insertPos}, NewText: newText}
}
