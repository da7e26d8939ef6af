// Package mdparse adapts goldmark's block/inline AST into the opaque,
// line-mapped token stream the rest of the language service consumes
// (spec.md §4.3, the Parser adapter / C3). Downstream components (no-link
// ranges, TOC builder) only ever see Token values, never goldmark types
// directly, matching the spec's "parser is an external collaborator"
// contract.
package mdparse

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// TokenType enumerates the block/inline categories the rest of the engine
// needs. It is intentionally a strict subset of CommonMark block categories,
// per spec.md §4.3/§6.
type TokenType string

const (
	TypeHeadingOpen  TokenType = "heading_open"
	TypeHeadingClose TokenType = "heading_close"
	TypeText         TokenType = "text"
	TypeEmoji        TokenType = "emoji"
	TypeCodeInline   TokenType = "code_inline"
	TypeCodeBlock    TokenType = "code_block"
	TypeFence        TokenType = "fence"
	TypeHTMLBlock    TokenType = "html_block"
)

// LineMap is a half-open [Start, End) line range, 0-based.
type LineMap struct {
	Start int
	End   int
}

// Token is a single projected node from the goldmark AST.
type Token struct {
	Type     TokenType
	Markup   string // "#" repeated Level times for every heading, setext ones included; empty for other types
	Map      *LineMap
	Content  string  // raw text content, populated for Text/CodeInline/Emoji
	Children []Token // inline children, populated for heading/inline container tokens
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
)

// Tokenize parses content and returns the ordered token stream plus a line
// index (byte offset of the first byte of each line) callers can use to
// convert goldmark's byte-offset segments into line numbers.
func Tokenize(content []byte) ([]Token, []int) {
	lineStarts := buildLineIndex(content)
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var tokens []Token
	forEachChild(doc, func(n ast.Node) {
		tok, ok := project(n, content, lineStarts)
		if ok {
			tokens = append(tokens, tok)
		}
	})
	return tokens, lineStarts
}

func forEachChild(n ast.Node, fn func(ast.Node)) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		fn(c)
		forEachChild(c, fn)
	}
}

func project(n ast.Node, source []byte, lineStarts []int) (Token, bool) {
	switch node := n.(type) {
	case *ast.Heading:
		markup := headingMarkup(node)
		children := inlineChildren(node, source, lineStarts)
		lm := nodeLineMap(node, lineStarts)
		if lm == nil {
			lm = lineMapFromChildren(children)
		}
		return Token{
			Type:     TypeHeadingOpen,
			Markup:   markup,
			Map:      lm,
			Children: children,
		}, true
	case *ast.FencedCodeBlock:
		lm := linesLineMap(node.Lines(), lineStarts)
		if lm != nil && lm.Start > 0 {
			// Lines() holds only the content; widen the map to the opening
			// fence line just above it.
			lm.Start--
		}
		return Token{Type: TypeFence, Map: lm}, true
	case *ast.CodeBlock:
		lm := linesLineMap(node.Lines(), lineStarts)
		return Token{Type: TypeCodeBlock, Map: lm}, true
	case *ast.HTMLBlock:
		lm := htmlBlockLineMap(node, lineStarts)
		return Token{Type: TypeHTMLBlock, Map: lm}, true
	}
	return Token{}, false
}

func headingMarkup(h *ast.Heading) string {
	runes := []byte("######")
	if h.Level >= 1 && h.Level <= 6 {
		return string(runes[:h.Level])
	}
	return "#"
}

func inlineChildren(n ast.Node, source []byte, lineStarts []int) []Token {
	var out []Token
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			out = append(out, Token{
				Type:    TypeText,
				Content: string(node.Segment.Value(source)),
				Map:     segmentLineMap(node.Segment, lineStarts),
			})
		case *ast.CodeSpan:
			out = append(out, Token{
				Type:    TypeCodeInline,
				Content: childrenText(node, source),
			})
		default:
			if node.HasChildren() {
				out = append(out, inlineChildren(node, source, lineStarts)...)
			}
		}
	}
	return out
}

func childrenText(n ast.Node, source []byte) string {
	var out []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
		}
	}
	return string(out)
}

func lineMapFromChildren(children []Token) *LineMap {
	var lm *LineMap
	for _, c := range children {
		if c.Map == nil {
			continue
		}
		if lm == nil {
			cp := *c.Map
			lm = &cp
			continue
		}
		if c.Map.Start < lm.Start {
			lm.Start = c.Map.Start
		}
		if c.Map.End > lm.End {
			lm.End = c.Map.End
		}
	}
	return lm
}

func nodeLineMap(n ast.Node, lineStarts []int) *LineMap {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return nil
	}
	return linesLineMap(lines, lineStarts)
}

func linesLineMap(lines *text.Segments, lineStarts []int) *LineMap {
	if lines == nil || lines.Len() == 0 {
		return nil
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	startLine := lineForOffset(lineStarts, first.Start)
	endLine := lineForOffset(lineStarts, last.Stop) + 1
	return &LineMap{Start: startLine, End: endLine}
}

func segmentLineMap(seg text.Segment, lineStarts []int) *LineMap {
	startLine := lineForOffset(lineStarts, seg.Start)
	endLine := lineForOffset(lineStarts, seg.Stop)
	return &LineMap{Start: startLine, End: endLine + 1}
}

func htmlBlockLineMap(n *ast.HTMLBlock, lineStarts []int) *LineMap {
	lm := linesLineMap(n.Lines(), lineStarts)
	if n.HasClosure() {
		closure := n.ClosureLine
		closureStart := lineForOffset(lineStarts, closure.Start)
		closureEnd := lineForOffset(lineStarts, closure.Stop) + 1
		if lm == nil {
			return &LineMap{Start: closureStart, End: closureEnd}
		}
		if closureEnd > lm.End {
			lm.End = closureEnd
		}
	}
	return lm
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

// buildLineIndex creates an index of byte offsets for the start of each
// line, the way the teacher's parser.buildLineIndex does, generalized to
// serve the whole token stream rather than just link positions.
func buildLineIndex(content []byte) []int {
	estimatedLines := len(content)/60 + 1
	lines := make([]int, 1, estimatedLines)
	lines[0] = 0
	for i, b := range content {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}
