// Package slug implements the slugifier (C1): a pure function from heading
// text to a stable anchor id, plus a per-document Builder that appends
// "-N" suffixes for duplicate headings in source order. See spec.md §4.1.
package slug

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slug is a value type; equality is byte-equal comparison of Value.
type Slug struct {
	Value string
}

// Equal reports whether two slugs have the same value.
func (s Slug) Equal(o Slug) bool {
	return s.Value == o.Value
}

// strippedPunctuation is the ASCII punctuation class stripped by the
// slugifier, plus the CJK fullwidth punctuation block GitHub's own
// cmark-gfm slugifier strips (see SPEC_FULL.md / DESIGN.md Open Question 1).
var strippedPunctuation = map[rune]bool{
	'!': true, '"': true, '#': true, '$': true, '%': true, '&': true,
	'\'': true, '(': true, ')': true, '*': true, '+': true, ',': true,
	'.': true, '/': true, ':': true, ';': true, '<': true, '=': true,
	'>': true, '?': true, '@': true, '[': true, '\\': true, ']': true,
	'^': true, '_': true, '`': true, '{': true, '|': true, '}': true,
	'~': true,
	// CJK / fullwidth punctuation.
	'、': true, '。': true, '「': true, '」': true, '『': true, '』': true,
	'【': true, '】': true, '〈': true, '〉': true, '《': true, '》': true,
	'・': true, '，': true, '．': true, '！': true, '？': true, '：': true,
	'；': true, '（': true, '）': true, '“': true, '”': true, '’': true,
	'‘': true,
}

// FromHeading derives a Slug from raw heading text per the contract in
// spec.md §4.1: trim, Unicode-case-fold to lowercase, collapse internal
// whitespace runs to a single '-', strip the punctuation class, strip
// leading/trailing '-', then percent-encode with URI rules.
func FromHeading(text string) Slug {
	return Slug{Value: slugify(text)}
}

func slugify(text string) string {
	text = strings.TrimSpace(text)
	text = norm.NFC.String(text)
	text = strings.ToLower(text)

	var b strings.Builder
	lastWasSpace := false
	for _, r := range text {
		switch {
		case strippedPunctuation[r]:
			continue
		case unicode.IsSpace(r):
			if !lastWasSpace && b.Len() > 0 {
				b.WriteByte('-')
			}
			lastWasSpace = true
			continue
		default:
			b.WriteRune(r)
			lastWasSpace = false
		}
	}

	out := strings.Trim(b.String(), "-")
	return url.PathEscape(out)
}

// Builder tracks previously produced slugs within a single document and
// appends "-N" (1-based) for the Nth collision, in source order.
type Builder struct {
	seen map[string]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{seen: map[string]int{}}
}

// Add slugifies heading text and returns a collision-free Slug, recording
// it for subsequent Add calls.
func (b *Builder) Add(headingText string) Slug {
	base := slugify(headingText)
	count := b.seen[base]
	b.seen[base] = count + 1
	if count == 0 {
		return Slug{Value: base}
	}
	return Slug{Value: base + "-" + itoa(count)}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}
