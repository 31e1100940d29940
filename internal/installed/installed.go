// Package installed implements the read-only installed-plugin overlay
// (C9): a lookup against the most-recently-modified auxiliary inventory
// database under a configured directory.
package installed

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Overlay answers "is this plugin name installed" against whichever
// inventory file was most recently modified in Dir. It re-resolves that
// file lazily; callers that want a stable view across an entire
// reconciliation pass should construct one Overlay and reuse it, since
// staleness for the lifetime of a single pass is acceptable.
type Overlay struct {
	Dir string

	cachedPath string
	names      map[string]bool
}

// NewOverlay returns an overlay rooted at dir. dir may not exist yet (a
// fresh install with no plugin scanner configured); in that case every
// lookup reports false.
func NewOverlay(dir string) *Overlay {
	return &Overlay{Dir: dir}
}

// IsInstalled reports whether name appears in the plugins.name column of
// the most-recently-modified inventory file under Dir. The inventory is
// refreshed whenever the newest file changes; within that, results are
// cached for the life of the Overlay value.
func (o *Overlay) IsInstalled(ctx context.Context, name string) (bool, error) {
	latest, err := newestInventoryFile(o.Dir)
	if err != nil {
		return false, err
	}
	if latest == "" {
		return false, nil
	}

	if latest != o.cachedPath {
		names, err := readPluginNames(ctx, latest)
		if err != nil {
			return false, err
		}
		o.cachedPath = latest
		o.names = names
	}

	return o.names[name], nil
}

// Refresh drops the cached inventory snapshot so the next lookup
// re-resolves the newest file and re-reads its contents.
func (o *Overlay) Refresh() {
	o.cachedPath = ""
	o.names = nil
}

func newestInventoryFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("installed: read dir %q: %w", dir, err)
	}

	var newestPath string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newestMod) {
			newestMod = info.ModTime()
			newestPath = filepath.Join(dir, e.Name())
		}
	}
	return newestPath, nil
}

func readPluginNames(ctx context.Context, path string) (map[string]bool, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("installed: open %q: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT name FROM plugins")
	if err != nil {
		return nil, fmt.Errorf("installed: query %q: %w", path, err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("installed: scan %q: %w", path, err)
		}
		names[n] = true
	}
	return names, rows.Err()
}
