package toc

import (
	"testing"

	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/mduri"
)

func build(t *testing.T, src string) ([]Entry, *mdtext.Document) {
	t.Helper()
	d := mdtext.New(mduri.File("/a.md"), 1, src)
	tokens, _ := mdparse.Tokenize([]byte(src))
	return Build(tokens, d), d
}

func TestBuildLevelsAndSlugs(t *testing.T) {
	src := "# Title\n\nintro\n\n## Sub One\n\nbody\n\n## Sub One\n\nmore\n"
	entries, _ := build(t, src)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}
	if entries[0].Level != 1 || entries[1].Level != 2 || entries[2].Level != 2 {
		t.Fatalf("levels = %d %d %d", entries[0].Level, entries[1].Level, entries[2].Level)
	}
	if entries[1].Slug.Value != "sub-one" || entries[2].Slug.Value != "sub-one-1" {
		t.Fatalf("slugs = %q %q", entries[1].Slug.Value, entries[2].Slug.Value)
	}
}

func TestSectionRangeStopsAtNextEqualLevel(t *testing.T) {
	src := "# A\nx\n## A1\ny\n## A2\nz\n# B\nw\n"
	entries, _ := build(t, src)
	// entries: A(0), A1(1), A2(2), B(3) at lines 0, 2, 4, 6
	if entries[0].SectionRange.End.Line != 5 {
		t.Fatalf("A section ends at line %d, want 5", entries[0].SectionRange.End.Line)
	}
	if entries[1].SectionRange.End.Line != 3 {
		t.Fatalf("A1 section ends at line %d, want 3", entries[1].SectionRange.End.Line)
	}
}

func TestLookupFragment(t *testing.T) {
	entries, _ := build(t, "# Hello World\n")
	e, ok := LookupFragment(entries, "Hello World")
	if !ok || e.Text != "Hello World" {
		t.Fatalf("lookup failed: %+v ok=%v", e, ok)
	}
	if _, ok := LookupFragment(entries, "nope"); ok {
		t.Fatal("expected no match")
	}
}
