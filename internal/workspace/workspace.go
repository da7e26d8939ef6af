// Package workspace defines the Workspace contract (C4): the external
// collaborator that enumerates, loads, stats, and watches markdown
// documents. See spec.md §4.4. The concrete filesystem implementation lives
// in internal/fsworkspace; tests exercise the algorithms in this module
// against an in-memory fake.
package workspace

import (
	"context"

	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
)

// EventKind discriminates a document lifecycle event.
type EventKind int

const (
	Created EventKind = iota
	Changed
	Deleted
)

// Event is a single document lifecycle notification.
type Event struct {
	Kind EventKind
	URI  mduri.URI
}

// Stat is the subset of file metadata the engine needs.
type Stat struct {
	IsDirectory bool
}

// DirEntry is one entry returned by ReadDirectory.
type DirEntry struct {
	Name        string
	IsDirectory bool
}

// ContainingDocument describes a document (e.g. a notebook) that owns a set
// of child documents contributing to its effective TOC.
type ContainingDocument struct {
	URI      mduri.URI
	Children []mduri.URI
}

// WatchOptions configures which event kinds a Watcher should suppress.
type WatchOptions struct {
	IgnoreChange bool
	IgnoreCreate bool
	IgnoreDelete bool
}

// Watcher observes filesystem events for a single watched path.
type Watcher interface {
	Events() <-chan Event
	Close() error
}

// Workspace is the contract described by spec.md §4.4. All operations may
// be cancelled via ctx; OpenMarkdownDocument returns ok=false on not-found
// or non-markdown, per the Failure clause.
type Workspace interface {
	Folders() []mduri.URI
	AllMarkdownDocuments(ctx context.Context) ([]*mdtext.Document, error)
	HasMarkdownDocument(uri mduri.URI) bool
	OpenMarkdownDocument(uri mduri.URI) (*mdtext.Document, bool)
	Stat(uri mduri.URI) (Stat, bool)
	ReadDirectory(uri mduri.URI) ([]DirEntry, error)
	ContainingDocument(uri mduri.URI) (ContainingDocument, bool)

	// Subscribe returns a channel of change/create/delete events for
	// markdown documents. The channel is closed when the workspace is
	// closed.
	Subscribe() <-chan Event

	// WatchFile is optional; implementations that cannot watch return
	// (nil, false).
	WatchFile(uri mduri.URI, opts WatchOptions) (Watcher, bool)
}
