package nolink

import (
	"testing"

	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/mduri"
)

func TestContainsFencedBlock(t *testing.T) {
	src := "text\n```\ncode [not a link](x)\n```\nmore\n"
	d := mdtext.New(mduri.File("/a.md"), 1, src)
	tokens, _ := mdparse.Tokenize([]byte(src))
	set := Compute(tokens, d)

	if !set.Contains(mdtext.Position{Line: 2, Character: 5}) {
		t.Fatal("expected position inside fence to be no-link")
	}
	if set.Contains(mdtext.Position{Line: 0, Character: 0}) {
		t.Fatal("expected position outside fence to not be no-link")
	}
}

func TestContainsInlineCodeSpan(t *testing.T) {
	src := "see `[x](y)` here\n"
	d := mdtext.New(mduri.File("/a.md"), 1, src)
	tokens, _ := mdparse.Tokenize([]byte(src))
	set := Compute(tokens, d)

	if !set.Contains(mdtext.Position{Line: 0, Character: 6}) {
		t.Fatal("expected position inside code span to be no-link")
	}
	if set.Contains(mdtext.Position{Line: 0, Character: 0}) {
		t.Fatal("expected position before code span to not be no-link")
	}
}
