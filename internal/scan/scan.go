// Package scan enumerates candidate .als files under a root (C2).
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"studiocat/internal/model"
)

// Walk enumerates absolute .als paths under root, applying the filtering
// rules from spec.md §4.2:
//   - any path with a parent directory component literally "Backup" or
//     "backup" is rejected (case-sensitive match on those two literals only)
//   - a file name beginning with "._" is rejected
//   - if root itself is a file, it must have suffix ".als"
//   - a root that is neither a file nor a directory is InvalidPath
//
// Ordering is unspecified by the spec but must be deterministic for a given
// filesystem state; Walk sorts its result lexicographically.
func Walk(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan: stat %q: %w: %v", root, model.ErrInvalidPath, err)
	}

	if !info.IsDir() {
		if filepath.Ext(root) != ".als" {
			return nil, fmt.Errorf("scan: %q: %w: not a .als file", root, model.ErrInvalidPath)
		}
		if isRejected(root) {
			return nil, nil
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			abs = root
		}
		return []string{abs}, nil
	}

	var out []string
	walkFn := func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("scan: %s: %w: %v", p, model.ErrIO, walkErr)
		}
		if d.IsDir() {
			if p != root && !recursive {
				return filepath.SkipDir
			}
			if isBackupDir(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".als" {
			return nil
		}
		if isRejected(p) {
			return nil
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		out = append(out, abs)
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, err
	}

	sort.Strings(out)
	return out, nil
}

// isBackupDir reports whether the final path component is literally
// "Backup" or "backup".
func isBackupDir(p string) bool {
	base := filepath.Base(p)
	return base == "Backup" || base == "backup"
}

// isRejected applies both the Backup-ancestor rule and the "._" sidecar
// rule to a candidate file path.
func isRejected(p string) bool {
	if strings.HasPrefix(filepath.Base(p), "._") {
		return true
	}
	dir := filepath.Dir(p)
	for {
		base := filepath.Base(dir)
		if base == "Backup" || base == "backup" {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return false
}
