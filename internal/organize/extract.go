package organize

import (
	"fmt"
	"strings"

	"github.com/leonardomso/gomdls/internal/links"
	"github.com/leonardomso/gomdls/internal/mdtext"
)

// ExtractDefinition implements the extract-definition code action: given a
// position on an inline link, it produces the edits that introduce a fresh
// reference definition and rewrite every exact-match occurrence (same href,
// title, and fragment) to reference form. It returns nil if pos isn't on a
// link.
func ExtractDefinition(doc *mdtext.Document, docLinks []links.MdLink, pos mdtext.Position) []Edit {
	target, ok := innermostLinkAt(docLinks, pos)
	if !ok {
		return nil
	}

	key := matchKey(doc, target)
	var matches []links.MdLink
	for _, l := range docLinks {
		if l.Kind != links.KindLink {
			continue
		}
		if matchKey(doc, l) == key {
			matches = append(matches, l)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	placeholder := freshPlaceholder(docLinks)
	defs := collectDefs(doc, docLinks)

	var out []Edit
	for _, l := range matches {
		text := linkText(doc.Text(&l.Source.Range))
		out = append(out, Edit{
			Range:   l.Source.Range,
			NewText: fmt.Sprintf("[%s][%s]", text, placeholder),
		})
	}

	destText := doc.Text(&target.Source.Range)
	newDef := fmt.Sprintf("[%s]: %s", placeholder, destinationOf(destText))
	out = append(out, insertDefinition(doc, defs, newDef))
	return out
}

// matchKey identifies "the same link" per spec.md §4.14: same href, title,
// and fragment.
func matchKey(doc *mdtext.Document, l links.MdLink) string {
	title := ""
	if l.Source.TitleRange != nil {
		title = doc.Text(l.Source.TitleRange)
	}
	return l.Href.Path.String() + "|" + l.Href.Fragment + "|" + l.Source.PathText + "|" + title
}

// innermostLinkAt returns the smallest-range link whose source range contains
// pos, so a hyperlinked image extracts the inner image link, not the outer
// hyperlink (spec.md §4.14).
func innermostLinkAt(docLinks []links.MdLink, pos mdtext.Position) (links.MdLink, bool) {
	var best links.MdLink
	found := false
	for _, l := range docLinks {
		if l.Kind != links.KindLink || !l.Source.Range.Contains(pos) {
			continue
		}
		if !found || rangeSize(l.Source.Range) < rangeSize(best.Source.Range) {
			best = l
			found = true
		}
	}
	return best, found
}

func rangeSize(r mdtext.Range) int {
	if r.End.Line != r.Start.Line {
		return (r.End.Line-r.Start.Line)*1_000_000 + r.End.Character
	}
	return r.End.Character - r.Start.Character
}

// linkText extracts the bracketed display text from a link's raw source,
// stripping a leading "!" for images and respecting nested brackets (for
// hyperlinked images, the outer text is the entire inner image markup).
func linkText(raw string) string {
	raw = strings.TrimPrefix(raw, "!")
	if len(raw) == 0 || raw[0] != '[' {
		return raw
	}
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return raw[1:i]
			}
		}
	}
	return raw
}

// destinationOf extracts the "(dest \"title\")" portion of a raw link's
// source text, suitable for reuse as a definition's body.
func destinationOf(raw string) string {
	i := strings.IndexByte(raw, '(')
	j := strings.LastIndexByte(raw, ')')
	if i < 0 || j < 0 || j < i {
		return ""
	}
	return raw[i+1 : j]
}

// freshPlaceholder picks the first of "def", "def2", "def3", ... not already
// used as a definition ref in the document.
func freshPlaceholder(docLinks []links.MdLink) string {
	used := map[string]bool{}
	for _, l := range docLinks {
		if l.Kind == links.KindDefinition {
			used[links.NormalizeRef(l.Ref.Text)] = true
		}
	}
	if !used["def"] {
		return "def"
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("def%d", i)
		if !used[candidate] {
			return candidate
		}
	}
}

// insertDefinition places newDef at the end of the existing definition
// block, or at the end of the document if there are none yet.
func insertDefinition(doc *mdtext.Document, defs []def, newDef string) Edit {
	if len(defs) == 0 {
		text := doc.Text(nil)
		trimmed := strings.TrimRight(text, "\n")
		insertPos := doc.PositionAt(len(text))
		prefix := ""
		if trimmed != "" {
			prefix = "\n\n"
		}
		return Edit{Range: mdtext.Range{Start: insertPos, End: insertPos}, NewText: prefix + newDef + "\n"}
	}
	// Insert immediately after the last existing definition's line, keeping
	// the rest of the definition block intact.
	maxLine := defs[0].endLine
	for _, d := range defs {
		if d.endLine > maxLine {
			maxLine = d.endLine
		}
	}
	insertPos := mdtext.Position{Line: maxLine + 1, Character: 0}
	return Edit{Range: mdtext.Range{Start: insertPos, End: insertPos}, NewText: newDef + "\n"}
}
