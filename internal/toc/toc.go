// Package toc builds the ordered table of contents for a document: header
// entries with slugs, nesting levels, and section ranges. See spec.md §4.7
// (C7).
package toc

import (
	"strings"

	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/slug"
)

// Entry is one header in a document's table of contents.
type Entry struct {
	Slug            slug.Slug
	Text            string
	Level           int
	Line            int
	SectionRange    mdtext.Range
	HeaderRange     mdtext.Range
	HeaderTextRange mdtext.Range
}

// Build walks tok, the token stream for doc, and produces the ordered TOC.
func Build(tokens []mdparse.Token, doc *mdtext.Document) []Entry {
	b := slug.NewBuilder()
	var entries []Entry

	for _, tok := range tokens {
		if tok.Type != mdparse.TypeHeadingOpen || tok.Map == nil {
			continue
		}
		level := headingLevel(tok.Markup)
		text := headingText(tok.Children)
		line := tok.Map.Start

		headerRange := mdtext.Range{
			Start: mdtext.Position{Line: line, Character: 0},
			End:   mdtext.Position{Line: line, Character: utf16LineLen(doc, line)},
		}
		entries = append(entries, Entry{
			Slug:            b.Add(text),
			Text:            text,
			Level:           level,
			Line:            line,
			HeaderRange:     headerRange,
			HeaderTextRange: headerTextRange(doc, line, tok.Markup),
		})
	}

	for i := range entries {
		entries[i].SectionRange = sectionRange(entries, i, doc)
	}

	return entries
}

func headingLevel(markup string) int {
	switch markup {
	case "=":
		return 1
	case "-":
		return 2
	default:
		if n := len(markup); n >= 1 && n <= 6 {
			return n
		}
		return 1
	}
}

// headingText concatenates text, code-inline, and emoji child content; other
// inline decorations (emphasis, strong, etc.) contribute no Text children in
// the token stream and are naturally excluded.
func headingText(children []mdparse.Token) string {
	var b strings.Builder
	for _, c := range children {
		switch c.Type {
		case mdparse.TypeText, mdparse.TypeCodeInline, mdparse.TypeEmoji:
			b.WriteString(c.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

func utf16LineLen(doc *mdtext.Document, line int) int {
	return doc.PositionAt(doc.LineStartOffset(line) + len(doc.GetLine(line))).Character
}

// headerTextRange spans from just past the opening "#…" marker plus
// whitespace, to just before any trailing "#…" marker plus whitespace.
func headerTextRange(doc *mdtext.Document, line int, markup string) mdtext.Range {
	text := doc.GetLine(line)
	start := 0
	if markup == "#" || len(markup) > 0 && markup[0] == '#' {
		for start < len(text) && text[start] == '#' {
			start++
		}
		for start < len(text) && (text[start] == ' ' || text[start] == '\t') {
			start++
		}
	}
	end := len(text)
	trimmed := strings.TrimRight(text[start:], " \t")
	trailingHashes := 0
	for i := len(trimmed) - 1; i >= 0 && trimmed[i] == '#'; i-- {
		trailingHashes++
	}
	if trailingHashes > 0 {
		end = start + len(trimmed) - trailingHashes
		for end > start && (text[end-1] == ' ' || text[end-1] == '\t') {
			end--
		}
	} else {
		end = start + len(strings.TrimRight(text[start:], " \t"))
	}

	lineStart := doc.LineStartOffset(line)
	return mdtext.Range{
		Start: doc.PositionAt(lineStart + start),
		End:   doc.PositionAt(lineStart + end),
	}
}

// sectionRange extends from the header's own line to the line before the
// next header of equal-or-lower level, or document end.
func sectionRange(entries []Entry, i int, doc *mdtext.Document) mdtext.Range {
	start := mdtext.Position{Line: entries[i].Line, Character: 0}
	endLine := doc.LineCount() - 1
	for j := i + 1; j < len(entries); j++ {
		if entries[j].Level <= entries[i].Level {
			endLine = entries[j].Line - 1
			break
		}
	}
	if endLine < entries[i].Line {
		endLine = entries[i].Line
	}
	end := mdtext.Position{Line: endLine, Character: utf16LineLen(doc, endLine)}
	return mdtext.Range{Start: start, End: end}
}

// LookupFragment returns the first entry whose slug equals the slugified
// query, per spec.md §4.7.
func LookupFragment(entries []Entry, query string) (Entry, bool) {
	want := slug.FromHeading(query)
	for _, e := range entries {
		if e.Slug.Equal(want) {
			return e, true
		}
	}
	return Entry{}, false
}

// Concat returns the TOC for a "containing document" as the concatenation of
// its children's TOCs in child order (spec.md §4.7).
func Concat(childTOCs [][]Entry) []Entry {
	var out []Entry
	for _, t := range childTOCs {
		out = append(out, t...)
	}
	return out
}
