package links

import (
	"testing"

	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/nolink"
)

func extract(t *testing.T, src string) []MdLink {
	t.Helper()
	d := mdtext.New(mduri.File("/docs/a.md"), 1, src)
	tokens, _ := mdparse.Tokenize([]byte(src))
	ns := nolink.Compute(tokens, d)
	folders := []mduri.URI{mduri.File("/docs")}
	return Extract(d, ns, folders)
}

func TestExtractInlineLinkInternal(t *testing.T) {
	got := extract(t, "See [docs](./other.md#section) now.\n")
	if len(got) != 1 {
		t.Fatalf("got %d links, want 1: %+v", len(got), got)
	}
	l := got[0]
	if l.Kind != KindLink || l.Href.Kind != HrefInternal {
		t.Fatalf("unexpected link %+v", l)
	}
	if l.Href.Fragment != "section" {
		t.Fatalf("fragment = %q", l.Href.Fragment)
	}
	if l.Href.Path.Base() != "other.md" {
		t.Fatalf("path = %+v", l.Href.Path)
	}
}

func TestExtractInlineLinkExternal(t *testing.T) {
	got := extract(t, "[site](https://example.com/x)\n")
	if len(got) != 1 || got[0].Href.Kind != HrefExternal {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractDefinitionAndShortcutReference(t *testing.T) {
	got := extract(t, "See [foo] for more.\n\n[foo]: ./target.md\n")
	var shortcut, def *MdLink
	for i := range got {
		switch got[i].Kind {
		case KindLink:
			shortcut = &got[i]
		case KindDefinition:
			def = &got[i]
		}
	}
	if shortcut == nil || def == nil {
		t.Fatalf("expected shortcut+definition, got %+v", got)
	}
	if shortcut.Href.Kind != HrefReference || shortcut.Href.Ref != "foo" {
		t.Fatalf("shortcut href = %+v", shortcut.Href)
	}
	if def.Ref.Text != "foo" {
		t.Fatalf("def ref = %+v", def.Ref)
	}
}

func TestExtractSkipsCodeSpanLink(t *testing.T) {
	got := extract(t, "text `[not](a.md)` text\n")
	if len(got) != 0 {
		t.Fatalf("expected no links inside code span, got %+v", got)
	}
}

func TestExtractSkipsCheckboxShortcut(t *testing.T) {
	got := extract(t, "- [x] done\n- [ ] todo\n")
	if len(got) != 0 {
		t.Fatalf("expected checkbox brackets excluded, got %+v", got)
	}
}

func TestExtractAutolink(t *testing.T) {
	got := extract(t, "<https://example.com>\n")
	if len(got) != 1 || got[0].Kind != KindAutoLink {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractInlineLinkHrefRangeIsDestinationOnly(t *testing.T) {
	src := "See [docs](./other.md#section) now.\n"
	d := mdtext.New(mduri.File("/docs/a.md"), 1, src)
	got := extract(t, src)
	if len(got) != 1 {
		t.Fatalf("got %d links, want 1: %+v", len(got), got)
	}
	l := got[0]

	hrefText := d.Text(&l.Source.HrefRange)
	if hrefText != "./other.md#section" {
		t.Fatalf("hrefRange text = %q, want %q (the destination only, not the whole link)", hrefText, "./other.md#section")
	}

	if l.Source.FragmentRange == nil {
		t.Fatalf("expected FragmentRange to be set")
	}
	fragText := d.Text(l.Source.FragmentRange)
	if fragText != "section" {
		t.Fatalf("fragmentRange text = %q, want %q", fragText, "section")
	}

	// The href/fragment ranges must be a tight sub-range of the whole link's
	// Range, not the whole-match range itself.
	if l.Source.HrefRange == l.Source.Range {
		t.Fatalf("hrefRange should not equal the whole link range")
	}
}

func TestExtractAngleBracketLinkHrefRangeExcludesBrackets(t *testing.T) {
	src := "See [docs](<./a b.md>) now.\n"
	d := mdtext.New(mduri.File("/docs/a.md"), 1, src)
	got := extract(t, src)
	if len(got) != 1 {
		t.Fatalf("got %d links, want 1: %+v", len(got), got)
	}
	l := got[0]

	hrefText := d.Text(&l.Source.HrefRange)
	if hrefText != "./a b.md" {
		t.Fatalf("hrefRange text = %q, want %q (brackets excluded)", hrefText, "./a b.md")
	}
}
