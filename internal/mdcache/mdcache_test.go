package mdcache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// fakeWorkspace is a minimal in-memory workspace.Workspace for exercising
// the caches without touching the filesystem.
type fakeWorkspace struct {
	docs   map[string]*mdtext.Document
	events chan workspace.Event
}

func newFakeWorkspace() *fakeWorkspace {
	return &fakeWorkspace{docs: map[string]*mdtext.Document{}, events: make(chan workspace.Event, 16)}
}

func (f *fakeWorkspace) put(uri mduri.URI, text string) {
	f.docs[uri.String()] = mdtext.New(uri, 1, text)
}

func (f *fakeWorkspace) Folders() []mduri.URI { return nil }
func (f *fakeWorkspace) AllMarkdownDocuments(ctx context.Context) ([]*mdtext.Document, error) {
	out := make([]*mdtext.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}
func (f *fakeWorkspace) HasMarkdownDocument(uri mduri.URI) bool {
	_, ok := f.docs[uri.String()]
	return ok
}
func (f *fakeWorkspace) OpenMarkdownDocument(uri mduri.URI) (*mdtext.Document, bool) {
	d, ok := f.docs[uri.String()]
	return d, ok
}
func (f *fakeWorkspace) Stat(uri mduri.URI) (workspace.Stat, bool) { return workspace.Stat{}, false }
func (f *fakeWorkspace) ReadDirectory(uri mduri.URI) ([]workspace.DirEntry, error) { return nil, nil }
func (f *fakeWorkspace) ContainingDocument(uri mduri.URI) (workspace.ContainingDocument, bool) {
	return workspace.ContainingDocument{}, false
}
func (f *fakeWorkspace) Subscribe() <-chan workspace.Event { return f.events }
func (f *fakeWorkspace) WatchFile(uri mduri.URI, opts workspace.WatchOptions) (workspace.Watcher, bool) {
	return nil, false
}

var _ workspace.Workspace = (*fakeWorkspace)(nil)

func TestDocumentCacheGetLoadsOnce(t *testing.T) {
	ws := newFakeWorkspace()
	uri := mduri.File("/a.md")
	ws.put(uri, "# A\n")

	var calls int32
	cache := NewDocumentCache(ws, func(ctx context.Context, doc *mdtext.Document) (int, error) {
		atomic.AddInt32(&calls, 1)
		return len(doc.Text(nil)), nil
	})

	v1, err := cache.Get(context.Background(), uri)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := cache.Get(context.Background(), uri)
	if err != nil {
		t.Fatal(err)
	}
	if v1 != v2 {
		t.Fatalf("v1=%d v2=%d", v1, v2)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestDocumentCacheInvalidatesOnChange(t *testing.T) {
	ws := newFakeWorkspace()
	uri := mduri.File("/a.md")
	ws.put(uri, "short")

	cache := NewDocumentCache(ws, func(ctx context.Context, doc *mdtext.Document) (int, error) {
		return len(doc.Text(nil)), nil
	})

	v1, _ := cache.Get(context.Background(), uri)
	if v1 != len("short") {
		t.Fatalf("v1 = %d", v1)
	}

	ws.put(uri, "a much longer body")
	ws.events <- workspace.Event{Kind: workspace.Changed, URI: uri}
	// Give the watch goroutine a moment to process the invalidation.
	deadline := time.After(time.Second)
	for {
		v2, _ := cache.Get(context.Background(), uri)
		if v2 == len("a much longer body") {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("cache never picked up the change, got %d", v2)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestWorkspaceCacheEntriesEnumeratesOnce(t *testing.T) {
	ws := newFakeWorkspace()
	ws.put(mduri.File("/a.md"), "# A\n")
	ws.put(mduri.File("/b.md"), "# B\n")

	cache := NewWorkspaceCache(ws, func(ctx context.Context, doc *mdtext.Document) (string, error) {
		return doc.URI.Base(), nil
	})

	entries, err := cache.Entries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	values, err := cache.Values(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 2 {
		t.Fatalf("got %d values, want 2", len(values))
	}
}
