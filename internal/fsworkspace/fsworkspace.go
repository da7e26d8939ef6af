// Package fsworkspace implements workspace.Workspace against the local
// filesystem: enumeration via filepath.WalkDir, excludePaths filtering via
// gobwas/glob, and file change notification via fsnotify. Adapted from the
// teacher's internal/scanner file-discovery walk.
package fsworkspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/mduri"
	"github.com/leonardomso/gomdls/internal/mdtext"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// FS is a workspace.Workspace backed by one or more local directories.
type FS struct {
	folders []mduri.URI
	cfg     *config.Config
	exclude []glob.Glob

	mu   sync.Mutex
	subs []chan workspace.Event
}

// New constructs an FS rooted at the given folders.
func New(cfg *config.Config, roots ...string) *FS {
	fs := &FS{cfg: cfg, exclude: cfg.ExcludeGlobs()}
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			abs = r
		}
		fs.folders = append(fs.folders, mduri.File(filepath.ToSlash(abs)))
	}
	return fs
}

func (fs *FS) Folders() []mduri.URI { return fs.folders }

// AllMarkdownDocuments walks every workspace folder, loading each markdown
// document it finds. Implementations MAY parallelize internally but must
// not rely on it for correctness (spec.md §5); here the walk itself is
// cooperative/single-threaded, matching filepath.WalkDir's own contract.
func (fs *FS) AllMarkdownDocuments(ctx context.Context) ([]*mdtext.Document, error) {
	var docs []*mdtext.Document
	for _, folder := range fs.folders {
		err := filepath.WalkDir(folder.Path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if d.IsDir() {
				if fs.excluded(p) && p != folder.Path {
					return filepath.SkipDir
				}
				return nil
			}
			if !fs.isMarkdownPath(p) || fs.excluded(p) {
				return nil
			}
			doc, ok := fs.OpenMarkdownDocument(mduri.File(filepath.ToSlash(p)))
			if ok {
				docs = append(docs, doc)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (fs *FS) isMarkdownPath(p string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(p)), ".")
	return fs.cfg.IsMarkdownExtension(ext)
}

func (fs *FS) excluded(p string) bool {
	for _, folder := range fs.folders {
		rel, err := filepath.Rel(folder.Path, p)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		for _, g := range fs.exclude {
			if g.Match(rel) {
				return true
			}
		}
	}
	return false
}

func (fs *FS) HasMarkdownDocument(uri mduri.URI) bool {
	if !fs.isMarkdownPath(uri.Path) {
		return false
	}
	info, err := os.Stat(uri.Path)
	return err == nil && !info.IsDir()
}

func (fs *FS) OpenMarkdownDocument(uri mduri.URI) (*mdtext.Document, bool) {
	if !fs.isMarkdownPath(uri.Path) {
		return nil, false
	}
	data, err := os.ReadFile(uri.Path)
	if err != nil {
		return nil, false
	}
	return mdtext.New(uri, 1, string(data)), true
}

func (fs *FS) Stat(uri mduri.URI) (workspace.Stat, bool) {
	info, err := os.Stat(uri.Path)
	if err != nil {
		return workspace.Stat{}, false
	}
	return workspace.Stat{IsDirectory: info.IsDir()}, true
}

func (fs *FS) ReadDirectory(uri mduri.URI) ([]workspace.DirEntry, error) {
	entries, err := os.ReadDir(uri.Path)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", uri.Path, err)
	}
	out := make([]workspace.DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, workspace.DirEntry{Name: e.Name(), IsDirectory: e.IsDir()})
	}
	return out, nil
}

// ContainingDocument is unimplemented for the plain filesystem: no notebook
// concept exists at this layer.
func (fs *FS) ContainingDocument(uri mduri.URI) (workspace.ContainingDocument, bool) {
	return workspace.ContainingDocument{}, false
}

// Subscribe registers a new event channel. Events are published by Notify,
// which callers (e.g. a file watcher loop) invoke on observed filesystem
// changes.
func (fs *FS) Subscribe() <-chan workspace.Event {
	ch := make(chan workspace.Event, 32)
	fs.mu.Lock()
	fs.subs = append(fs.subs, ch)
	fs.mu.Unlock()
	return ch
}

// Notify publishes an event to every subscriber, in the order this method
// is called (spec.md §5: "Workspace events are observed in emission order").
func (fs *FS) Notify(evt workspace.Event) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, ch := range fs.subs {
		ch <- evt
	}
}

// fsWatcher adapts an *fsnotify.Watcher to workspace.Watcher for a single
// path.
type fsWatcher struct {
	w      *fsnotify.Watcher
	events chan workspace.Event
	done   chan struct{}
}

func (fs *FS) WatchFile(uri mduri.URI, opts workspace.WatchOptions) (workspace.Watcher, bool) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, false
	}
	if err := w.Add(filepath.Dir(uri.Path)); err != nil {
		_ = w.Close()
		return nil, false
	}

	fw := &fsWatcher{w: w, events: make(chan workspace.Event, 8), done: make(chan struct{})}
	go fw.run(uri, opts)
	return fw, true
}

func (fw *fsWatcher) run(uri mduri.URI, opts workspace.WatchOptions) {
	defer close(fw.events)
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.ToSlash(ev.Name) != uri.Path {
				continue
			}
			kind, skip := classify(ev, opts)
			if skip {
				continue
			}
			fw.events <- workspace.Event{Kind: kind, URI: uri}
		case _, ok := <-fw.w.Errors:
			if !ok {
				return
			}
		}
	}
}

func classify(ev fsnotify.Event, opts workspace.WatchOptions) (workspace.EventKind, bool) {
	switch {
	case ev.Op&fsnotify.Create != 0:
		return workspace.Created, opts.IgnoreCreate
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		return workspace.Deleted, opts.IgnoreDelete
	case ev.Op&fsnotify.Write != 0:
		return workspace.Changed, opts.IgnoreChange
	default:
		return workspace.Changed, true
	}
}

func (fw *fsWatcher) Events() <-chan workspace.Event { return fw.events }

func (fw *fsWatcher) Close() error {
	close(fw.done)
	return fw.w.Close()
}

var _ workspace.Workspace = (*FS)(nil)
