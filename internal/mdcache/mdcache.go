// Package mdcache implements the document-info cache (C8) and
// workspace-info cache (C9): per-URI lazy memoization invalidated by
// workspace change/delete events, with in-flight computations shared via
// singleflight and cancelled on replacement. See spec.md §4.8, §4.9, §5.
package mdcache

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// ErrNotFound is returned by Get when the workspace has no markdown
// document at the requested URI.
var ErrNotFound = errors.New("mdcache: document not found")

// Loader computes a document's derived value (e.g. its links, its TOC).
type Loader[T any] func(ctx context.Context, doc *mdtext.Document) (T, error)

type genState struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	value  any // memoized result, valid once loaded is set
	loaded bool
}

// DocumentCache is a generic per-document lazy memo keyed by URI (C8).
type DocumentCache[T any] struct {
	ws     workspace.Workspace
	load   Loader[T]
	group  singleflight.Group
	mu     sync.Mutex
	states map[string]*genState
}

// NewDocumentCache builds a cache that loads values via load and subscribes
// to ws's change/create/delete events for invalidation.
func NewDocumentCache[T any](ws workspace.Workspace, load Loader[T]) *DocumentCache[T] {
	c := &DocumentCache[T]{ws: ws, load: load, states: map[string]*genState{}}
	go c.watch(ws.Subscribe())
	return c
}

func (c *DocumentCache[T]) watch(events <-chan workspace.Event) {
	for evt := range events {
		key := evt.URI.String()
		switch evt.Kind {
		case workspace.Deleted:
			c.drop(key)
		case workspace.Created, workspace.Changed:
			c.replace(key)
		}
	}
}

func (c *DocumentCache[T]) drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[key]; ok {
		st.cancel()
		delete(c.states, key)
	}
}

func (c *DocumentCache[T]) replace(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[key]; ok {
		st.cancel()
		delete(c.states, key)
	}
}

func (c *DocumentCache[T]) stateFor(key string) *genState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[key]; ok {
		return st
	}
	ctx, cancel := context.WithCancel(context.Background())
	st := &genState{id: uuid.NewString(), ctx: ctx, cancel: cancel}
	c.states[key] = st
	return st
}

// Get loads the document at uri on miss and populates the entry lazily.
// Concurrent Get calls for the same URI share a single in-flight
// computation; a replacement event (via watch) cancels it and starts a new
// one on the next call.
func (c *DocumentCache[T]) Get(ctx context.Context, uri mduri.URI) (T, error) {
	key := uri.String()
	st := c.stateFor(key)
	c.mu.Lock()
	if st.loaded {
		v := st.value.(T)
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key+"|"+st.id, func() (any, error) {
		doc, ok := c.ws.OpenMarkdownDocument(uri)
		if !ok {
			var zero T
			return zero, ErrNotFound
		}
		return c.load(st.ctx, doc)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	c.mu.Lock()
	st.value, st.loaded = v, true
	c.mu.Unlock()
	return v.(T), nil
}

// GetForDocument populates the cache entry directly from an already-loaded
// document snapshot, bypassing a workspace re-open.
func (c *DocumentCache[T]) GetForDocument(doc *mdtext.Document) (T, error) {
	key := doc.URI.String()
	st := c.stateFor(key)

	v, err, _ := c.group.Do(key+"|"+st.id, func() (any, error) {
		return c.load(st.ctx, doc)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	c.mu.Lock()
	st.value, st.loaded = v, true
	c.mu.Unlock()
	return v.(T), nil
}
