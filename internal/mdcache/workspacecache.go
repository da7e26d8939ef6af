package mdcache

import (
	"context"
	"sync"

	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// WorkspaceCache is the eager-enumeration, lazy-per-document cache (C9): the
// first access to Entries/Values triggers one pass over
// AllMarkdownDocuments, after which the tracked URI set is kept current by
// workspace create/delete events; per-document values are still computed
// lazily via an embedded DocumentCache.
type WorkspaceCache[T any] struct {
	ws   workspace.Workspace
	docs *DocumentCache[T]

	once    sync.Once
	enumErr error

	mu   sync.Mutex
	uris []mduri.URI
	seen map[string]bool
}

// NewWorkspaceCache builds a workspace-wide cache that loads each
// document's value via load.
func NewWorkspaceCache[T any](ws workspace.Workspace, load Loader[T]) *WorkspaceCache[T] {
	c := &WorkspaceCache[T]{ws: ws, docs: NewDocumentCache(ws, load), seen: map[string]bool{}}
	go c.watch(ws.Subscribe())
	return c
}

func (c *WorkspaceCache[T]) watch(events <-chan workspace.Event) {
	for evt := range events {
		switch evt.Kind {
		case workspace.Created:
			c.add(evt.URI)
		case workspace.Deleted:
			c.remove(evt.URI)
		}
	}
}

func (c *WorkspaceCache[T]) add(uri mduri.URI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := uri.String()
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.uris = append(c.uris, uri)
}

func (c *WorkspaceCache[T]) remove(uri mduri.URI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := uri.String()
	if !c.seen[key] {
		return
	}
	delete(c.seen, key)
	for i, u := range c.uris {
		if u.String() == key {
			c.uris = append(c.uris[:i], c.uris[i+1:]...)
			break
		}
	}
}

func (c *WorkspaceCache[T]) ensureEnumerated(ctx context.Context) error {
	c.once.Do(func() {
		docs, err := c.ws.AllMarkdownDocuments(ctx)
		if err != nil {
			c.enumErr = err
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, d := range docs {
			key := d.URI.String()
			if c.seen[key] {
				continue
			}
			c.seen[key] = true
			c.uris = append(c.uris, d.URI)
		}
	})
	return c.enumErr
}

// Entries returns every tracked URI, enumerating the workspace on first
// call.
func (c *WorkspaceCache[T]) Entries(ctx context.Context) ([]mduri.URI, error) {
	if err := c.ensureEnumerated(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]mduri.URI, len(c.uris))
	copy(out, c.uris)
	return out, nil
}

// Values returns the computed value for every tracked document, skipping
// any that fail to load.
func (c *WorkspaceCache[T]) Values(ctx context.Context) ([]T, error) {
	uris, err := c.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(uris))
	for _, u := range uris {
		v, err := c.docs.Get(ctx, u)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// GetForDocs populates (or reuses) cache entries for an explicit document
// list, bypassing enumeration.
func (c *WorkspaceCache[T]) GetForDocs(docs []*mdtext.Document) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := c.docs.GetForDocument(d)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Get delegates to the embedded per-document cache.
func (c *WorkspaceCache[T]) Get(ctx context.Context, uri mduri.URI) (T, error) {
	return c.docs.Get(ctx, uri)
}
