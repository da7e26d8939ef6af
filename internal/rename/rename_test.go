package rename

import (
	"context"
	"sort"
	"testing"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// applyEdits splices edits into doc's text, mirroring how a caller (e.g. the
// CLI) would apply the rename Engine's output, so tests can assert on the
// actual resulting text rather than just NewText in isolation.
func applyEdits(doc *mdtext.Document, edits []Edit) string {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Less(sorted[j].Range.Start)
	})

	text := doc.Text(nil)
	var out []byte
	last := 0
	for _, e := range sorted {
		start := doc.OffsetAt(e.Range.Start)
		end := doc.OffsetAt(e.Range.End)
		if start < 0 || end < 0 || start < last {
			continue
		}
		out = append(out, text[last:start]...)
		out = append(out, e.NewText...)
		last = end
	}
	out = append(out, text[last:]...)
	return string(out)
}

type fakeWS struct {
	docs    map[string]*mdtext.Document
	folders []mduri.URI
	events  chan workspace.Event
}

func newFakeWS(folder string) *fakeWS {
	return &fakeWS{
		docs:    map[string]*mdtext.Document{},
		folders: []mduri.URI{mduri.File(folder)},
		events:  make(chan workspace.Event, 4),
	}
}

func (f *fakeWS) put(path, text string) mduri.URI {
	uri := mduri.File(path)
	f.docs[uri.String()] = mdtext.New(uri, 1, text)
	return uri
}

func (f *fakeWS) Folders() []mduri.URI { return f.folders }
func (f *fakeWS) AllMarkdownDocuments(ctx context.Context) ([]*mdtext.Document, error) {
	out := make([]*mdtext.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}
func (f *fakeWS) HasMarkdownDocument(uri mduri.URI) bool {
	_, ok := f.docs[uri.String()]
	return ok
}
func (f *fakeWS) OpenMarkdownDocument(uri mduri.URI) (*mdtext.Document, bool) {
	d, ok := f.docs[uri.String()]
	return d, ok
}
func (f *fakeWS) Stat(uri mduri.URI) (workspace.Stat, bool) {
	_, ok := f.docs[uri.String()]
	return workspace.Stat{}, ok
}
func (f *fakeWS) ReadDirectory(uri mduri.URI) ([]workspace.DirEntry, error) { return nil, nil }
func (f *fakeWS) ContainingDocument(uri mduri.URI) (workspace.ContainingDocument, bool) {
	return workspace.ContainingDocument{}, false
}
func (f *fakeWS) Subscribe() <-chan workspace.Event { return f.events }
func (f *fakeWS) WatchFile(uri mduri.URI, opts workspace.WatchOptions) (workspace.Watcher, bool) {
	return nil, false
}

var _ workspace.Workspace = (*fakeWS)(nil)

func TestRenameFileUpdatesRelativeLink(t *testing.T) {
	ws := newFakeWS("/docs")
	ws.put("/docs/a.md", "see [x](./b.md)\n")
	oldB := ws.put("/docs/b.md", "# B\n")
	newB := mduri.File("/docs/c.md")

	eng := NewEngine(ws, config.Default())
	edits, err := eng.RenameFile(context.Background(), oldB, newB)
	if err != nil {
		t.Fatal(err)
	}
	aEdits, ok := edits[mduri.File("/docs/a.md").String()]
	if !ok || len(aEdits) != 1 {
		t.Fatalf("got %+v, want one edit in a.md", edits)
	}
	if aEdits[0].NewText != "./c.md" {
		t.Fatalf("got NewText %q, want ./c.md", aEdits[0].NewText)
	}
}

func TestRenameDirectoryRebasesChildLinks(t *testing.T) {
	ws := newFakeWS("/docs")
	ws.put("/docs/sub/a.md", "see [x](./b.md)\n")
	ws.put("/docs/sub/b.md", "# B\n")

	eng := NewEngine(ws, config.Default())
	edits, err := eng.RenameDirectory(context.Background(), mduri.File("/docs/sub"), mduri.File("/docs/moved"))
	if err != nil {
		t.Fatal(err)
	}
	aEdits, ok := edits[mduri.File("/docs/sub/a.md").String()]
	if !ok || len(aEdits) != 1 {
		t.Fatalf("got %+v, want one edit for moved a.md", edits)
	}
	if aEdits[0].NewText != "./b.md" {
		t.Fatalf("got NewText %q, want ./b.md (sibling relationship preserved)", aEdits[0].NewText)
	}
}

// TestRenameFileEditAppliesCleanlyToSurroundingText round-trips the edit
// through the document's actual text, so a regression that widens
// HrefRange to cover the whole link (rather than just the destination)
// would corrupt neighboring text instead of merely producing a plausible
// NewText in isolation.
func TestRenameFileEditAppliesCleanlyToSurroundingText(t *testing.T) {
	ws := newFakeWS("/docs")
	const aText = "see [x](/old.md) and more\n"
	ws.put("/docs/a.md", aText)
	oldB := ws.put("/docs/old.md", "# B\n")
	newB := mduri.File("/docs/new.md")

	eng := NewEngine(ws, config.Default())
	edits, err := eng.RenameFile(context.Background(), oldB, newB)
	if err != nil {
		t.Fatal(err)
	}
	aEdits, ok := edits[mduri.File("/docs/a.md").String()]
	if !ok || len(aEdits) != 1 {
		t.Fatalf("got %+v, want one edit in a.md", edits)
	}

	doc := mdtext.New(mduri.File("/docs/a.md"), 1, aText)
	got := applyEdits(doc, aEdits)
	want := "see [x](/new.md) and more\n"
	if got != want {
		t.Fatalf("applied text = %q, want %q", got, want)
	}
}

// TestRenameDirectoryReexpressesUnmovedEscapingLink covers spec.md §8
// scenario 5: a document that moves has a relative link whose *target*
// doesn't move, but whose relative path must still be re-expressed because
// the owner's depth relative to the target changed.
func TestRenameDirectoryReexpressesUnmovedEscapingLink(t *testing.T) {
	ws := newFakeWS("/docs")
	const docText = "see [abc](../a.md)\n"
	ws.put("/docs/old/doc.md", docText)
	ws.put("/docs/a.md", "# A\n")

	eng := NewEngine(ws, config.Default())
	edits, err := eng.RenameDirectory(context.Background(), mduri.File("/docs/old"), mduri.File("/docs/new/sub"))
	if err != nil {
		t.Fatal(err)
	}
	docEdits, ok := edits[mduri.File("/docs/old/doc.md").String()]
	if !ok || len(docEdits) != 1 {
		t.Fatalf("got %+v, want one edit for moved doc.md", edits)
	}
	if docEdits[0].NewText != "../../a.md" {
		t.Fatalf("got NewText %q, want ../../a.md", docEdits[0].NewText)
	}

	doc := mdtext.New(mduri.File("/docs/old/doc.md"), 1, docText)
	got := applyEdits(doc, docEdits)
	want := "see [abc](../../a.md)\n"
	if got != want {
		t.Fatalf("applied text = %q, want %q", got, want)
	}
}
