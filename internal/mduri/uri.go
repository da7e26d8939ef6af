// Package mduri implements the URI value type used throughout the language
// service: scheme, authority, a slash-normalized path, query, and fragment.
package mduri

import (
	"net/url"
	"path"
	"strings"
)

// URI is an immutable, comparable value type. Equality for caching purposes
// uses the full string form; callers that need "same resource" comparisons
// must normalize first.
type URI struct {
	Scheme    string
	Authority string
	Path      string // always slash-normalized, may be empty
	Query     string
	Fragment  string
}

// Parse parses a raw URI string into its component parts. Unlike
// net/url.Parse, it never returns an error: an unparsable string is treated
// as a bare path, matching how editor-facing tools are expected to degrade.
func Parse(raw string) URI {
	u, err := url.Parse(raw)
	if err != nil {
		return URI{Path: normalizePath(raw)}
	}
	return URI{
		Scheme:    u.Scheme,
		Authority: u.Host,
		Path:      normalizePath(u.Path),
		Query:     u.RawQuery,
		Fragment:  u.Fragment,
	}
}

// File builds a file:// URI from a filesystem path.
func File(fsPath string) URI {
	return URI{Scheme: "file", Path: normalizePath(fsPath)}
}

func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// String renders the canonical string form of the URI.
func (u URI) String() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
		b.WriteString(u.Authority)
	}
	b.WriteString(u.Path)
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// IsEmpty reports whether the URI carries no scheme, authority, or path.
func (u URI) IsEmpty() bool {
	return u.Scheme == "" && u.Authority == "" && u.Path == ""
}

// WithoutFragment returns a copy of u with the fragment cleared. Href
// Internal values always store the target this way, per the data model.
func (u URI) WithoutFragment() URI {
	u.Fragment = ""
	return u
}

// WithFragment returns a copy of u with the given fragment set (no leading
// '#').
func (u URI) WithFragment(fragment string) URI {
	u.Fragment = fragment
	return u
}

// Dir returns the URI of the containing directory.
func (u URI) Dir() URI {
	u.Path = path.Dir(u.Path)
	u.Fragment = ""
	u.Query = ""
	return u
}

// Base returns the last path segment (the file or directory name).
func (u URI) Base() string {
	return path.Base(u.Path)
}

// Join resolves rel (a relative or absolute path string) against u,
// the way a browser resolves an href against a base document URI. Fragment
// and query on u are dropped, matching "join to the dirname of the document".
func (u URI) Join(rel string) URI {
	base := u
	base.Fragment = ""
	base.Query = ""

	if rel == "" {
		return base
	}
	if strings.HasPrefix(rel, "/") {
		base.Path = path.Clean(rel)
		return base
	}
	dir := path.Dir(base.Path)
	joined := path.Join(dir, rel)
	// path.Join strips a trailing slash; restore it if the caller joined a
	// directory reference (rel ending in "/").
	if strings.HasSuffix(rel, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	base.Path = joined
	return base
}

// IsChildOf reports whether u's path lies strictly inside dir's path.
func (u URI) IsChildOf(dir URI) bool {
	dirPath := strings.TrimSuffix(dir.Path, "/")
	if dirPath == "" {
		return u.Path != "" && u.Scheme == dir.Scheme && u.Authority == dir.Authority
	}
	if u.Scheme != dir.Scheme || u.Authority != dir.Authority {
		return false
	}
	return strings.HasPrefix(u.Path, dirPath+"/")
}

// Rebase rewrites a URI that is a child of oldDir so that it becomes the
// equivalent child of newDir. The caller must have already verified
// IsChildOf(oldDir).
func (u URI) Rebase(oldDir, newDir URI) URI {
	dirPath := strings.TrimSuffix(oldDir.Path, "/")
	rel := strings.TrimPrefix(u.Path, dirPath+"/")
	out := newDir
	out.Path = path.Join(strings.TrimSuffix(newDir.Path, "/"), rel)
	out.Fragment = u.Fragment
	out.Query = u.Query
	return out
}

// RelativePath computes a POSIX-style relative path from the directory
// fromDir to `to`, dropping any fragment/query on either side. The result
// never has a leading "./"; callers decide whether to add one.
func RelativePath(fromDir, to URI) string {
	rel, err := relPath(fromDir.Path, to.Path)
	if err != nil {
		return to.Path
	}
	return rel
}

// relPath is a minimal POSIX relative-path implementation (path/filepath.Rel
// is OS-path-separator-aware; URIs are always slash-separated regardless of
// host OS, so we implement the slash-only variant here).
func relPath(base, target string) (string, error) {
	baseParts := splitPath(base)
	targetParts := splitPath(target)

	i := 0
	for i < len(baseParts) && i < len(targetParts) && baseParts[i] == targetParts[i] {
		i++
	}

	up := len(baseParts) - i
	rest := targetParts[i:]

	segs := make([]string, 0, up+len(rest))
	for range up {
		segs = append(segs, "..")
	}
	segs = append(segs, rest...)

	if len(segs) == 0 {
		return ".", nil
	}
	return strings.Join(segs, "/"), nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Equal reports full string-form equality, the caching key per the data
// model ("Equality for caching uses the full string form").
func Equal(a, b URI) bool {
	return a.String() == b.String()
}
