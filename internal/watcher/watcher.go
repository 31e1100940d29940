// Package watcher implements the filesystem watcher (C8): a single
// event-dispatch goroutine that feeds the reconciler, preceded by a
// startup full scan.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"studiocat/internal/reconcile"
	"studiocat/internal/scan"
)

// renameCoalesceWindow is how long a delete event is deferred before the
// row is removed. A create or write at the same path within the window
// cancels the delete; a create at a new path with the same content is
// rebound by the reconciler first, so the deferred delete then finds no
// row at the old path. No hash is compared here.
const renameCoalesceWindow = time.Second

// Watcher watches a set of root directories and serializes every
// filesystem event through a single reconciler so the catalog's
// transactional invariants hold under concurrent activity.
type Watcher struct {
	Roots       []string
	Recursive   bool
	Reconciler  *reconcile.Reconciler

	fsw *fsnotify.Watcher

	mu           sync.Mutex
	pendingDelete map[string]*time.Timer
}

// New constructs a Watcher over roots, using r to apply every observed
// path to the catalog.
func New(roots []string, recursive bool, r *reconcile.Reconciler) *Watcher {
	return &Watcher{
		Roots:         roots,
		Recursive:     recursive,
		Reconciler:    r,
		pendingDelete: make(map[string]*time.Timer),
	}
}

// Run performs the startup full scan, then consumes filesystem events
// until ctx is cancelled. It drains in-flight work before returning.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.initialScan(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	defer fsw.Close()

	for _, root := range w.Roots {
		if err := fsw.Add(root); err != nil {
			log.Printf("watcher: add %q: %v", root, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				log.Printf("watcher: fsnotify error: %v", err)
			}
		}
	}
}

func (w *Watcher) initialScan(ctx context.Context) error {
	for _, root := range w.Roots {
		paths, err := scan.Walk(root, w.Recursive)
		if err != nil {
			return err
		}
		for _, p := range paths {
			if err := w.Reconciler.Reconcile(ctx, p); err != nil {
				log.Printf("watcher: initial scan %q: %v", p, err)
			}
		}
	}
	return nil
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".als") {
		return
	}

	switch {
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		w.scheduleDelete(ctx, ev.Name)
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.cancelPendingDelete(ev.Name)
		if err := w.Reconciler.Reconcile(ctx, ev.Name); err != nil {
			log.Printf("watcher: reconcile %q: %v", ev.Name, err)
		}
	}
}

// scheduleDelete defers the delete by renameCoalesceWindow so a rename
// (delete old path + create new path with identical content) is absorbed
// by the reconciler's rebind path instead of destroying catalog history.
func (w *Watcher) scheduleDelete(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pendingDelete[path]; ok {
		t.Stop()
	}
	w.pendingDelete[path] = time.AfterFunc(renameCoalesceWindow, func() {
		w.mu.Lock()
		delete(w.pendingDelete, path)
		w.mu.Unlock()

		if err := w.Reconciler.Delete(ctx, path); err != nil {
			log.Printf("watcher: delete %q: %v", path, err)
		}
	})
}

func (w *Watcher) cancelPendingDelete(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pendingDelete[path]; ok {
		t.Stop()
		delete(w.pendingDelete, path)
	}
}

// drain stops every pending coalesced delete from firing after shutdown
// and runs it synchronously instead, so a shutdown during the coalescing
// window still leaves the catalog consistent.
func (w *Watcher) drain() {
	w.mu.Lock()
	pending := make([]string, 0, len(w.pendingDelete))
	for path, t := range w.pendingDelete {
		t.Stop()
		pending = append(pending, path)
	}
	w.pendingDelete = make(map[string]*time.Timer)
	w.mu.Unlock()

	ctx := context.Background()
	for _, path := range pending {
		if err := w.Reconciler.Delete(ctx, path); err != nil {
			log.Printf("watcher: drain delete %q: %v", path, err)
		}
	}
}
