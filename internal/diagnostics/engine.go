package diagnostics

import (
	"context"
	"sync"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/filter"
	"github.com/leonardomso/gomdls/internal/links"
	"github.com/leonardomso/gomdls/internal/mdcache"
	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/nolink"
	"github.com/leonardomso/gomdls/internal/toc"
	"github.com/leonardomso/gomdls/internal/workspace"
)

type docInfo struct {
	toc   []toc.Entry
	links []links.MdLink
}

// Engine wires the diagnostics algorithm to a live workspace: it caches
// per-document link/TOC extraction, stats targets lazily, and records which
// documents link to a given file (see DocumentsLinkingTo). A create or
// delete event only drops that path's cached stat result; the engine emits
// no event for the documents that link to it.
type Engine struct {
	ws    workspace.Workspace
	cfg   *config.Config
	info  *mdcache.WorkspaceCache[docInfo]
	stats *StatCache

	mu         sync.Mutex
	linkedFrom map[string]map[string]bool // target path -> owning doc URIs
}

// NewEngine builds a diagnostics engine backed by ws.
func NewEngine(ws workspace.Workspace, cfg *config.Config) *Engine {
	folders := ws.Folders()
	load := func(ctx context.Context, doc *mdtext.Document) (docInfo, error) {
		tokens, _ := mdparse.Tokenize([]byte(doc.Text(nil)))
		ns := nolink.Compute(tokens, doc)
		return docInfo{
			toc:   toc.Build(tokens, doc),
			links: links.Extract(doc, ns, folders),
		}, nil
	}
	e := &Engine{
		ws:         ws,
		cfg:        cfg,
		info:       mdcache.NewWorkspaceCache(ws, load),
		stats:      NewStatCache(ws),
		linkedFrom: map[string]map[string]bool{},
	}
	go e.watch(ws.Subscribe())
	return e
}

func (e *Engine) watch(events <-chan workspace.Event) {
	for evt := range events {
		switch evt.Kind {
		case workspace.Created, workspace.Deleted:
			e.invalidateTarget(evt.URI)
		}
	}
}

func (e *Engine) invalidateTarget(uri mduri.URI) {
	e.mu.Lock()
	delete(e.stats.cache, uri.String())
	e.mu.Unlock()
}

func (e *Engine) recordLinksFrom(owner mduri.URI, info docInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for target, set := range e.linkedFrom {
		delete(set, owner.String())
		if len(set) == 0 {
			delete(e.linkedFrom, target)
		}
	}
	for _, l := range info.links {
		if l.Href.Kind != links.HrefInternal {
			continue
		}
		target := l.Href.Path.String()
		set, ok := e.linkedFrom[target]
		if !ok {
			set = map[string]bool{}
			e.linkedFrom[target] = set
		}
		set[owner.String()] = true
	}
}

// DocumentsLinkingTo returns the URIs of documents whose link set includes
// target, as tracked by the most recent Validate call for each document.
func (e *Engine) DocumentsLinkingTo(target mduri.URI) []mduri.URI {
	e.mu.Lock()
	defer e.mu.Unlock()
	set := e.linkedFrom[target.String()]
	out := make([]mduri.URI, 0, len(set))
	for u := range set {
		out = append(out, mduri.Parse(u))
	}
	return out
}

// Validate computes diagnostics for doc using the engine's shared stat cache
// and cross-document TOC lookup. It also returns links suppressed by an
// ignoreLinks glob, so callers can surface them in a report.
func (e *Engine) Validate(ctx context.Context, doc *mdtext.Document) ([]Diagnostic, []filter.IgnoreReason, error) {
	info, err := e.info.Get(ctx, doc.URI)
	if err != nil {
		return nil, nil, err
	}
	e.recordLinksFrom(doc.URI, info)

	opts := OptionsFromConfig(e.cfg)
	lookup := func(target mduri.URI) ([]toc.Entry, bool) {
		ti, err := e.info.Get(ctx, target)
		if err != nil {
			return nil, false
		}
		return ti.toc, true
	}
	return Validate(ctx, info.links, info.toc, doc.URI, opts, e.stats, lookup)
}
