// Package mdtext implements read-only access to a versioned text document:
// its text, line count, and offset<->position conversions. See spec.md §4.2.
package mdtext

import (
	"strings"
	"unicode/utf16"

	"github.com/leonardomso/gomdls/internal/mduri"
)

// Position is a zero-based line and UTF-16 character offset.
type Position struct {
	Line      int
	Character int
}

// Less reports whether p sorts before o.
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

// Range is a half-open [Start, End) span of positions.
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether pos lies in [r.Start, r.End): start inclusive,
// end exclusive.
func (r Range) Contains(pos Position) bool {
	return !pos.Less(r.Start) && pos.Less(r.End)
}

// ContainsRange reports whether r fully contains o.
func (r Range) ContainsRange(o Range) bool {
	return !o.Start.Less(r.Start) && !r.End.Less(o.End)
}

// Document is an immutable snapshot of a markdown file: identity, version,
// and text. All derived values (line offsets) are computed once at
// construction.
type Document struct {
	URI     mduri.URI
	Version int
	text    string
	// lineStarts[i] is the UTF-8 byte offset of the first byte of line i.
	lineStarts []int
}

// New builds a Document snapshot from its URI, version, and raw text.
func New(uri mduri.URI, version int, text string) *Document {
	return &Document{
		URI:        uri,
		Version:    version,
		text:       text,
		lineStarts: computeLineStarts(text),
	}
}

func computeLineStarts(text string) []int {
	starts := make([]int, 1, strings.Count(text, "\n")+1)
	starts[0] = 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineCount returns the number of lines in the document. A document with no
// trailing newline still has at least one line.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// Text returns the document text. If r is non-nil, only the text within
// that range is returned.
func (d *Document) Text(r *Range) string {
	if r == nil {
		return d.text
	}
	start := d.OffsetAt(r.Start)
	end := d.OffsetAt(r.End)
	if start < 0 || end > len(d.text) || start > end {
		return ""
	}
	return d.text[start:end]
}

// GetLine returns the nth (0-based) line's text, without the trailing
// newline.
func (d *Document) GetLine(n int) string {
	if n < 0 || n >= len(d.lineStarts) {
		return ""
	}
	start := d.lineStarts[n]
	end := len(d.text)
	if n+1 < len(d.lineStarts) {
		end = d.lineStarts[n+1]
	}
	line := d.text[start:end]
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// LineStartOffset returns the UTF-8 byte offset of the first byte of the
// given 0-based line, letting callers that scan per-line text (regex-driven
// extractors) convert a local match offset back into a document-wide
// Position via PositionAt.
func (d *Document) LineStartOffset(line int) int {
	if line < 0 || line >= len(d.lineStarts) {
		return len(d.text)
	}
	return d.lineStarts[line]
}

// PositionAt converts a UTF-8 byte offset into the document into a
// zero-based line/UTF-16-character Position.
func (d *Document) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.text) {
		offset = len(d.text)
	}
	line := lineForOffset(d.lineStarts, offset)
	lineStart := d.lineStarts[line]
	char := utf16Len(d.text[lineStart:offset])
	return Position{Line: line, Character: char}
}

func lineForOffset(starts []int, offset int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// OffsetAt converts a Position back into a UTF-8 byte offset. Returns -1 if
// the line is out of range.
func (d *Document) OffsetAt(pos Position) int {
	if pos.Line < 0 || pos.Line >= len(d.lineStarts) {
		return -1
	}
	lineStart := d.lineStarts[pos.Line]
	lineEnd := len(d.text)
	if pos.Line+1 < len(d.lineStarts) {
		lineEnd = d.lineStarts[pos.Line+1]
	}
	return utf16OffsetToByte(d.text[lineStart:lineEnd], pos.Character) + lineStart
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	return UTF16Len(s)
}

// UTF16Len returns the length of s in UTF-16 code units, for callers that
// need to turn a substring's length into a Position.Character span.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.Encode([]rune{r}))
	}
	return n
}

// utf16OffsetToByte converts a UTF-16 character offset within s into a byte
// offset within s.
func utf16OffsetToByte(s string, char int) int {
	if char <= 0 {
		return 0
	}
	units := 0
	for i, r := range s {
		u := len(utf16.Encode([]rune{r}))
		if units+u > char {
			return i
		}
		units += u
		if units >= char {
			// Return the byte offset just past this rune.
			return i + runeByteLen(r)
		}
	}
	return len(s)
}

func runeByteLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
