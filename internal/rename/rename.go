// Package rename implements link-preserving file and directory moves (C13):
// given an old and new URI, it produces the set of text edits needed across
// the workspace so that every link still resolves, preserving each link's
// original style (absolute/relative, angle brackets, percent-encoding,
// fragment, and extension style). See spec.md §4.13.
//
// The rewrite strategy follows the callback-over-extracted-links shape
// gardener-docforge's markdown.UpdateLinkRefs uses, adapted to this
// service's range-based link model instead of mutating an AST in place.
package rename

import (
	"context"
	"net/url"
	"strings"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/links"
	"github.com/leonardomso/gomdls/internal/mdcache"
	"github.com/leonardomso/gomdls/internal/mdparse"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/nolink"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// Edit is a single text replacement within a document.
type Edit struct {
	Range   mdtext.Range
	NewText string
}

// Engine computes rename edits against a live workspace.
type Engine struct {
	ws   workspace.Workspace
	cfg  *config.Config
	info *mdcache.WorkspaceCache[[]links.MdLink]
}

// NewEngine builds a rename engine backed by ws.
func NewEngine(ws workspace.Workspace, cfg *config.Config) *Engine {
	folders := ws.Folders()
	load := func(ctx context.Context, doc *mdtext.Document) ([]links.MdLink, error) {
		tokens, _ := mdparse.Tokenize([]byte(doc.Text(nil)))
		ns := nolink.Compute(tokens, doc)
		return links.Extract(doc, ns, folders), nil
	}
	return &Engine{ws: ws, cfg: cfg, info: mdcache.NewWorkspaceCache(ws, load)}
}

// RenameFile computes the edits needed across the workspace when a single
// file moves from oldURI to newURI.
func (e *Engine) RenameFile(ctx context.Context, oldURI, newURI mduri.URI) (map[string][]Edit, error) {
	return e.rename(ctx, map[string]mduri.URI{oldURI.String(): newURI})
}

// RenameDirectory computes the edits needed when every markdown document
// under oldDir moves to the equivalent path under newDir.
func (e *Engine) RenameDirectory(ctx context.Context, oldDir, newDir mduri.URI) (map[string][]Edit, error) {
	uris, err := e.info.Entries(ctx)
	if err != nil {
		return nil, err
	}
	moves := map[string]mduri.URI{}
	for _, u := range uris {
		if u.IsChildOf(oldDir) {
			moves[u.String()] = u.Rebase(oldDir, newDir)
		}
	}
	return e.rename(ctx, moves)
}

// rename is the shared fan-out: for every document in the workspace, rewrite
// every internal link whose target is one of the moved paths. A document
// that is itself moving uses its *new* location as the base for re-resolving
// its own outgoing relative links, which also re-expresses relative links
// whose target didn't move but whose owner did.
func (e *Engine) rename(ctx context.Context, moves map[string]mduri.URI) (map[string][]Edit, error) {
	uris, err := e.info.Entries(ctx)
	if err != nil {
		return nil, err
	}

	folders := e.ws.Folders()
	out := map[string][]Edit{}
	for _, owner := range uris {
		docLinks, err := e.info.Get(ctx, owner)
		if err != nil {
			continue
		}
		newOwner, ownerMoved := moves[owner.String()]
		base := owner
		if ownerMoved {
			base = newOwner
		}

		var edits []Edit
		for _, l := range docLinks {
			if l.Kind == links.KindAutoLink || l.Href.Kind != links.HrefInternal {
				continue
			}
			if pathPart(l.Source) == "" {
				// A bare "#fragment" link points into its own document and
				// has no path to rewrite.
				continue
			}

			newTarget, targetMoved := moves[l.Href.Path.String()]
			if !targetMoved && !hasExtension(e.cfg, pathPart(l.Source)) {
				// An extensionless link also names the file with the
				// default markdown extension.
				withExt := l.Href.Path
				withExt.Path += "." + e.cfg.DefaultMarkdownExtension()
				newTarget, targetMoved = moves[withExt.String()]
			}
			switch {
			case targetMoved:
				edits = append(edits, Edit{
					Range:   pathRange(l.Source),
					NewText: renderPath(e.cfg, folders, l.Source, base, newTarget),
				})
			case ownerMoved && !strings.HasPrefix(pathPart(l.Source), "/"):
				// The target itself didn't move, but this document did: a
				// relative link must be re-expressed against the new owner
				// location or it'll resolve to the wrong file (spec.md
				// §4.13 item 2, §8 scenario 5).
				newText := renderPath(e.cfg, folders, l.Source, base, l.Href.Path)
				if newText != pathPart(l.Source) {
					edits = append(edits, Edit{
						Range:   pathRange(l.Source),
						NewText: newText,
					})
				}
			}
		}
		if len(edits) > 0 {
			out[owner.String()] = edits
		}
	}
	return out, nil
}

// pathRange is the sub-range of HrefRange covering just the path portion
// (excluding any fragment), so rewriting a path never disturbs a fragment
// the document also carries.
func pathRange(src links.LinkSource) mdtext.Range {
	start := src.HrefRange.Start
	end := mdtext.Position{Line: start.Line, Character: start.Character + mdtext.UTF16Len(pathPart(src))}
	return mdtext.Range{Start: start, End: end}
}

// pathPart returns PathText without any "#fragment".
func pathPart(src links.LinkSource) string {
	if i := strings.IndexByte(src.PathText, '#'); i >= 0 {
		return src.PathText[:i]
	}
	return src.PathText
}

// renderPath rebuilds the path text for a link now pointing at newTarget
// from base, preserving the original link's style.
func renderPath(cfg *config.Config, folders []mduri.URI, src links.LinkSource, base, newTarget mduri.URI) string {
	original := pathPart(src)
	wasAbsolute := strings.HasPrefix(original, "/")
	wasPercentEncoded := strings.Contains(original, "%")
	hadExplicitExtension := hasExtension(cfg, original)

	var raw string
	if wasAbsolute {
		raw = "/" + mduri.RelativePath(workspaceFolderFor(folders, base), newTarget)
	} else {
		rel := mduri.RelativePath(base.Dir(), newTarget)
		if strings.HasPrefix(rel, "..") || !strings.HasPrefix(original, "./") {
			raw = rel
		} else {
			raw = "./" + rel
		}
	}
	raw = applyExtensionStyle(cfg, raw, hadExplicitExtension)

	if wasPercentEncoded {
		return encodePath(raw)
	}
	return raw
}

func hasExtension(cfg *config.Config, pathText string) bool {
	i := strings.LastIndexByte(pathText, '.')
	if i < 0 {
		return false
	}
	return cfg.IsMarkdownExtension(pathText[i+1:]) || cfg.IsKnownNonMarkdownExtension(pathText[i+1:])
}

// workspaceFolderFor returns the longest workspace folder containing doc,
// or the first folder when none contains it.
func workspaceFolderFor(folders []mduri.URI, doc mduri.URI) mduri.URI {
	var best mduri.URI
	for _, f := range folders {
		if doc.IsChildOf(f) && len(f.Path) > len(best.Path) {
			best = f
		}
	}
	if best.Path == "" && len(folders) > 0 {
		best = folders[0]
	}
	return best
}

// applyExtensionStyle adds or strips the default markdown extension on raw
// per the configured style: includeExtension adds it to a path whose last
// segment has no extension, removeExtension strips it, and auto strips it
// only when the original link was written without an extension.
func applyExtensionStyle(cfg *config.Config, raw string, hadExplicitExtension bool) string {
	ext := "." + cfg.DefaultMarkdownExtension()
	switch cfg.PreferredMdPathExtensionStyle {
	case config.StyleIncludeExtension:
		if !strings.Contains(raw[strings.LastIndexByte(raw, '/')+1:], ".") {
			return raw + ext
		}
	case config.StyleRemoveExtension:
		if strings.HasSuffix(raw, ext) {
			return strings.TrimSuffix(raw, ext)
		}
	case config.StyleAuto:
		if !hadExplicitExtension && strings.HasSuffix(raw, ext) {
			return strings.TrimSuffix(raw, ext)
		}
	}
	return raw
}

// encodePath percent-encodes a path the same way the original author's link
// was encoded, segment by segment so "/" stays literal.
func encodePath(raw string) string {
	segs := strings.Split(raw, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
