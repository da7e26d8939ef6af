package links

import (
	pathpkg "path"
	"regexp"
	"strings"

	"github.com/leonardomso/gomdls/internal/mduri"
)

// schemePattern matches a URI scheme prefix, e.g. "https:", "mailto:".
var schemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.\-]+:`)

// ResolveHref resolves a raw destination string against the document that
// contains it, per spec.md §4.6 (resolveLink). containingDoc is the URI of
// the document the link was found in; folders is the workspace's folder
// list, used for absolute-path ("/...") resolution.
func ResolveHref(raw string, containingDoc mduri.URI, folders []mduri.URI) Href {
	if schemePattern.MatchString(strings.ToLower(raw)) {
		return Href{Kind: HrefExternal, URI: mduri.Parse(raw)}
	}

	// Parse the raw string directly: the fragment is split off, and a bare
	// "#frag" leaves an empty path.
	parsed := mduri.Parse(raw)
	path, fragment := parsed.Path, parsed.Fragment

	if path == "" {
		return Href{Kind: HrefInternal, Path: containingDoc.WithoutFragment(), Fragment: fragment}
	}

	if containingDoc.Scheme == "untitled" {
		folder := firstFolderOr(folders, containingDoc)
		return Href{Kind: HrefInternal, Path: joinToFolder(folder, path), Fragment: fragment}
	}

	if strings.HasPrefix(path, "/") {
		folder := longestMatchingFolder(folders, containingDoc)
		return Href{Kind: HrefInternal, Path: joinToFolder(folder, path), Fragment: fragment}
	}

	// Join resolves against the directory of containingDoc.
	return Href{Kind: HrefInternal, Path: containingDoc.Join(path).WithoutFragment(), Fragment: fragment}
}

// joinToFolder appends p to the folder's path; a leading "/" in p is the
// folder root.
func joinToFolder(folder mduri.URI, p string) mduri.URI {
	out := folder.WithoutFragment()
	out.Path = pathpkg.Join(folder.Path, p)
	return out
}

func firstFolderOr(folders []mduri.URI, fallback mduri.URI) mduri.URI {
	if len(folders) > 0 {
		return folders[0]
	}
	return fallback.Dir()
}

// longestMatchingFolder returns the workspace folder whose fsPath is the
// longest prefix of doc's path, falling back to the first folder.
func longestMatchingFolder(folders []mduri.URI, doc mduri.URI) mduri.URI {
	var best mduri.URI
	bestLen := -1
	for _, f := range folders {
		if strings.HasPrefix(doc.Path, f.Path) && len(f.Path) > bestLen {
			best = f
			bestLen = len(f.Path)
		}
	}
	if bestLen < 0 {
		return firstFolderOr(folders, doc)
	}
	return best
}
