package organize

import (
	"strings"
	"testing"

	"github.com/leonardomso/gomdls/internal/mdtext"
)

func TestExtractDefinitionInsertsAndRewrites(t *testing.T) {
	src := "see [a link](http://example.com/x \"title\") and again [a link](http://example.com/x \"title\")\n"
	doc, docLinks := extractLinks(t, src)

	pos := mdtext.Position{Line: 0, Character: 6}
	edits := ExtractDefinition(doc, docLinks, pos)
	if len(edits) != 3 {
		t.Fatalf("got %d edits, want 3 (two rewrites + one definition insert): %+v", len(edits), edits)
	}

	result := applyEdits(doc, edits)
	if !strings.Contains(result, "[a link][def]") {
		t.Fatalf("expected rewritten reference form, got:\n%s", result)
	}
	if !strings.Contains(result, "[def]: http://example.com/x \"title\"") {
		t.Fatalf("expected inserted definition, got:\n%s", result)
	}
	if strings.Count(result, "[a link][def]") != 2 {
		t.Fatalf("expected both occurrences rewritten, got:\n%s", result)
	}
}

func TestExtractDefinitionPicksFreshPlaceholder(t *testing.T) {
	src := "[x](http://a.example \"t\")\n\n[def]: http://already-used\n"
	doc, docLinks := extractLinks(t, src)

	edits := ExtractDefinition(doc, docLinks, mdtext.Position{Line: 0, Character: 1})
	result := applyEdits(doc, edits)
	if !strings.Contains(result, "[def2]:") {
		t.Fatalf("expected def2 placeholder avoiding clash, got:\n%s", result)
	}
}
