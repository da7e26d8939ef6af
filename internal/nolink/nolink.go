// Package nolink computes the ranges of a document that link extraction
// must not scan: multiline fenced/indented code blocks and HTML blocks, plus
// per-line inline code spans. See spec.md §4.5 (C5).
package nolink

import (
	"regexp"

	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/mdtext"
)

// codeSpanPattern approximates an inline code span: a run of backticks,
// text without backticks, then a closing run of backticks that need not be
// the same length as the opener. For the purposes of gating link extraction
// an approximate match is sufficient since a false-positive no-link range
// only ever suppresses a link, it never fabricates one.
var codeSpanPattern = regexp.MustCompile("`+[^`]+`+")

// interval is a half-open [Start, End) line range.
type interval struct {
	start, end int
}

// Set holds the no-link ranges for one document.
type Set struct {
	blocks    []interval
	inline    map[int][]mdtext.Range // line -> ranges, sorted by Start
}

// Compute derives the no-link range set for a document from its token
// stream, per spec.md §4.5.
func Compute(tokens []mdparse.Token, doc *mdtext.Document) *Set {
	s := &Set{inline: map[int][]mdtext.Range{}}

	for _, tok := range tokens {
		switch tok.Type {
		case mdparse.TypeFence, mdparse.TypeCodeBlock, mdparse.TypeHTMLBlock:
			if tok.Map != nil {
				s.blocks = append(s.blocks, interval{start: tok.Map.Start, end: tok.Map.End})
			}
		}
	}

	for line := 0; line < doc.LineCount(); line++ {
		if s.isInCodeBlock(line) {
			continue
		}
		text := doc.GetLine(line)
		lineStart := doc.LineStartOffset(line)
		for _, loc := range codeSpanPattern.FindAllStringIndex(text, -1) {
			s.inline[line] = append(s.inline[line], mdtext.Range{
				Start: doc.PositionAt(lineStart + loc[0]),
				End:   doc.PositionAt(lineStart + loc[1]),
			})
		}
	}

	return s
}

func (s *Set) isInCodeBlock(line int) bool {
	for _, b := range s.blocks {
		if line >= b.start && line < b.end {
			return true
		}
	}
	return false
}

// Contains reports whether pos lies inside a multiline block or an inline
// code span.
func (s *Set) Contains(pos mdtext.Position) bool {
	if s.isInCodeBlock(pos.Line) {
		return true
	}
	for _, r := range s.inline[pos.Line] {
		if r.Contains(pos) {
			return true
		}
	}
	return false
}

// WithExtraRanges returns a new Set that additionally excludes the given
// ranges, used by the reference-link scanner to avoid re-matching text
// already consumed by an inline link (spec.md §4.6).
func (s *Set) WithExtraRanges(extra []mdtext.Range) *Set {
	out := &Set{blocks: s.blocks, inline: map[int][]mdtext.Range{}}
	for line, ranges := range s.inline {
		out.inline[line] = append(out.inline[line], ranges...)
	}
	for _, r := range extra {
		out.inline[r.Start.Line] = append(out.inline[r.Start.Line], r)
	}
	return out
}
