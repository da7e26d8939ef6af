package diagnostics

import (
	"context"
	"testing"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/workspace"
)

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

func TestValidateNoSuchFile(t *testing.T) {
	ws := newFakeWS("/docs")
	aURI := ws.put("/docs/a.md", "see [x](./missing.md)\n")

	eng := NewEngine(ws, config.Default())
	doc, _ := ws.OpenMarkdownDocument(aURI)

	diags, _, err := eng.Validate(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 || diags[0].Code != CodeNoSuchFile {
		t.Fatalf("got %+v, want one no-such-file diagnostic", diags)
	}
}

func TestValidateNoSuchHeaderInOwnFile(t *testing.T) {
	ws := newFakeWS("/docs")
	aURI := ws.put("/docs/a.md", "# Intro\n\n[bad](#nope)\n")

	eng := NewEngine(ws, config.Default())
	doc, _ := ws.OpenMarkdownDocument(aURI)

	diags, _, err := eng.Validate(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 || diags[0].Code != CodeNoSuchHeaderInOwnFile {
		t.Fatalf("got %+v, want one no-such-header-in-own-file diagnostic", diags)
	}
}

func TestValidateNoSuchHeaderInFile(t *testing.T) {
	ws := newFakeWS("/docs")
	aURI := ws.put("/docs/a.md", "[bad](./b.md#nope)\n")
	ws.put("/docs/b.md", "# Real\n")

	eng := NewEngine(ws, config.Default())
	doc, _ := ws.OpenMarkdownDocument(aURI)

	diags, _, err := eng.Validate(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 || diags[0].Code != CodeNoSuchHeaderInFile {
		t.Fatalf("got %+v, want one no-such-header-in-file diagnostic", diags)
	}
}

func TestValidateNoSuchReference(t *testing.T) {
	ws := newFakeWS("/docs")
	aURI := ws.put("/docs/a.md", "see [x][undefined]\n")

	eng := NewEngine(ws, config.Default())
	doc, _ := ws.OpenMarkdownDocument(aURI)

	diags, _, err := eng.Validate(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 || diags[0].Code != CodeNoSuchReference {
		t.Fatalf("got %+v, want one no-such-reference diagnostic", diags)
	}
}

func TestValidateIgnoresLineFragment(t *testing.T) {
	ws := newFakeWS("/docs")
	aURI := ws.put("/docs/a.md", "[code](./b.md#L10)\n")
	ws.put("/docs/b.md", "line one\n")

	eng := NewEngine(ws, config.Default())
	doc, _ := ws.OpenMarkdownDocument(aURI)

	diags, _, err := eng.Validate(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Fatalf("got %+v, want none (line fragments are never validated)", diags)
	}
}
