// Package references implements the find-all-references algorithm (C11):
// given a document position or a file URI, enumerate every occurrence that
// refers to the same header, link target, or file. See spec.md §4.11.
package references

import (
	"context"
	"strings"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/links"
	"github.com/leonardomso/gomdls/internal/mdcache"
	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/nolink"
	"github.com/leonardomso/gomdls/internal/slug"
	"github.com/leonardomso/gomdls/internal/toc"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// Occurrence is one reference result: the defining header, a link, or a
// link definition, at a specific location.
type Occurrence struct {
	URI               mduri.URI
	Range             mdtext.Range
	IsDefinition       bool
	IsHeaderDefinition bool
	IsTriggerLocation  bool
}

// docInfo bundles the derived values the engine needs per document.
type docInfo struct {
	toc   []toc.Entry
	links []links.MdLink
}

// Engine resolves references against a workspace, using per-document caches
// for links and TOC entries (C8/C9 instantiated at C6/C7 value types).
type Engine struct {
	ws   workspace.Workspace
	cfg  *config.Config
	info *mdcache.WorkspaceCache[docInfo]
}

// NewEngine builds a references engine backed by ws.
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
	return &Engine{ws: ws, cfg: cfg, info: mdcache.NewWorkspaceCache(ws, load)}
}

func (e *Engine) infoFor(ctx context.Context, uri mduri.URI) (docInfo, bool) {
	v, err := e.info.Get(ctx, uri)
	if err != nil {
		return docInfo{}, false
	}
	return v, true
}

func (e *Engine) allInfo(ctx context.Context) (map[string]docInfo, error) {
	uris, err := e.info.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]docInfo, len(uris))
	for _, u := range uris {
		if v, ok := e.infoFor(ctx, u); ok {
			out[u.String()] = v
		}
	}
	return out, nil
}

// FindReferences resolves all references to whatever is at pos in doc, per
// spec.md §4.11.
func (e *Engine) FindReferences(ctx context.Context, doc *mdtext.Document, pos mdtext.Position) ([]Occurrence, error) {
	all, err := e.allInfo(ctx)
	if err != nil {
		return nil, err
	}
	info := all[doc.URI.String()]

	if entry, ok := headerAt(info.toc, pos.Line); ok {
		return e.referencesToHeader(doc.URI, entry, all, pos), nil
	}

	for _, l := range info.links {
		switch l.Kind {
		case links.KindDefinition:
			if l.Ref.Range.Contains(pos) {
				return e.referencesToRef(doc.URI, l.Ref.Text, all, pos), nil
			}
		case links.KindLink:
			if !l.Source.HrefRange.Contains(pos) {
				continue
			}
			switch l.Href.Kind {
			case links.HrefReference:
				return e.referencesToRef(doc.URI, l.Href.Ref, all, pos), nil
			case links.HrefExternal:
				return e.referencesToExternal(l.Href.URI.String(), all, pos), nil
			case links.HrefInternal:
				return e.referencesToInternal(ctx, doc.URI, l, all, pos)
			}
		}
	}
	return nil, nil
}

// FindReferencesForFile is the file-URI variant: same as the Internal-path
// branch, without a triggering link occurrence inside a document.
func (e *Engine) FindReferencesForFile(ctx context.Context, target mduri.URI) ([]Occurrence, error) {
	all, err := e.allInfo(ctx)
	if err != nil {
		return nil, err
	}
	return internalReferencesToPath(target, all), nil
}

func headerAt(entries []toc.Entry, line int) (toc.Entry, bool) {
	for _, e := range entries {
		if e.Line == line {
			return e, true
		}
	}
	return toc.Entry{}, false
}

func (e *Engine) referencesToHeader(uri mduri.URI, entry toc.Entry, all map[string]docInfo, trigger mdtext.Position) []Occurrence {
	out := []Occurrence{{
		URI: uri, Range: entry.HeaderRange, IsDefinition: true, IsHeaderDefinition: true,
		IsTriggerLocation: entry.HeaderRange.Contains(trigger),
	}}
	for docURI, info := range all {
		for _, l := range info.links {
			if l.Kind != links.KindLink || l.Href.Kind != links.HrefInternal {
				continue
			}
			if !pathEqual(e.cfg, l.Href.Path, uri) {
				continue
			}
			if !slug.FromHeading(l.Href.Fragment).Equal(entry.Slug) {
				continue
			}
			out = append(out, Occurrence{
				URI:               mduri.Parse(docURI),
				Range:             l.Source.HrefRange,
				IsTriggerLocation: l.Source.HrefRange.Contains(trigger) && docURI == uri.String(),
			})
		}
	}
	return out
}

func (e *Engine) referencesToRef(uri mduri.URI, ref string, all map[string]docInfo, trigger mdtext.Position) []Occurrence {
	info := all[uri.String()]
	defs := links.NewLinkDefinitionSet(filterDefs(info.links))
	var out []Occurrence
	if def, ok := defs.Lookup(ref); ok {
		out = append(out, Occurrence{
			URI: uri, Range: def.Ref.Range, IsDefinition: true,
			IsTriggerLocation: def.Ref.Range.Contains(trigger),
		})
	}
	for _, l := range info.links {
		if l.Kind != links.KindLink || l.Href.Kind != links.HrefReference {
			continue
		}
		if links.NormalizeRef(l.Href.Ref) != links.NormalizeRef(ref) {
			continue
		}
		out = append(out, Occurrence{
			URI: uri, Range: l.Source.HrefRange,
			IsTriggerLocation: l.Source.HrefRange.Contains(trigger),
		})
	}
	return out
}

func (e *Engine) referencesToExternal(href string, all map[string]docInfo, trigger mdtext.Position) []Occurrence {
	var out []Occurrence
	for docURI, info := range all {
		for _, l := range info.links {
			if l.Href.Kind != links.HrefExternal || l.Href.URI.String() != href {
				continue
			}
			out = append(out, Occurrence{
				URI:               mduri.Parse(docURI),
				Range:             l.Source.HrefRange,
				IsTriggerLocation: l.Source.HrefRange.Contains(trigger),
			})
		}
	}
	return out
}

func (e *Engine) referencesToInternal(ctx context.Context, owner mduri.URI, l links.MdLink, all map[string]docInfo, trigger mdtext.Position) ([]Occurrence, error) {
	target, isMarkdown := e.resolveWithFallback(l.Href.Path)

	if isMarkdown && l.Source.FragmentRange != nil && l.Source.FragmentRange.Contains(trigger) {
		info, ok := all[target.String()]
		if !ok {
			return nil, nil
		}
		entry, ok := toc.LookupFragment(info.toc, l.Href.Fragment)
		if !ok {
			return nil, nil
		}
		return e.referencesToHeader(target, entry, all, trigger), nil
	}

	return internalReferencesToPath(target, all), nil
}

// resolveWithFallback stats path, falling back to appending the default
// markdown extension, and reports whether the resolved target is markdown.
func (e *Engine) resolveWithFallback(path mduri.URI) (mduri.URI, bool) {
	if st, ok := e.ws.Stat(path); ok && !st.IsDirectory {
		return path, hasMarkdownExt(e.cfg, path)
	}
	ext := e.cfg.DefaultMarkdownExtension()
	withExt := path
	withExt.Path = path.Path + "." + ext
	if st, ok := e.ws.Stat(withExt); ok && !st.IsDirectory {
		return withExt, true
	}
	return path, false
}

func internalReferencesToPath(target mduri.URI, all map[string]docInfo) []Occurrence {
	var out []Occurrence
	for docURI, info := range all {
		isSelf := docURI == target.String()
		for _, l := range info.links {
			if l.Kind != links.KindLink || l.Href.Kind != links.HrefInternal {
				continue
			}
			if l.Href.Path.String() != target.String() {
				continue
			}
			if isSelf && l.Href.Fragment != "" {
				// Excluded: self-fragment references to the file itself.
				continue
			}
			out = append(out, Occurrence{URI: mduri.Parse(docURI), Range: l.Source.HrefRange})
		}
	}
	return out
}

func filterDefs(all []links.MdLink) []links.MdLink {
	var out []links.MdLink
	for _, l := range all {
		if l.Kind == links.KindDefinition {
			out = append(out, l)
		}
	}
	return out
}

func hasMarkdownExt(cfg *config.Config, u mduri.URI) bool {
	i := strings.LastIndexByte(u.Path, '.')
	if i < 0 {
		return false
	}
	return cfg.IsMarkdownExtension(u.Path[i+1:])
}

// pathEqual compares two internal href paths for "same document", allowing
// one side to omit the configured default markdown extension.
func pathEqual(cfg *config.Config, a, b mduri.URI) bool {
	if a.String() == b.String() {
		return true
	}
	ext := "." + cfg.DefaultMarkdownExtension()
	return a.String()+ext == b.String() || a.String() == b.String()+ext
}
