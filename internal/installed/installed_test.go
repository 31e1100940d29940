package installed

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func writeInventory(t *testing.T, dir, name string, names []string, modTime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE plugins (name TEXT)")
	require.NoError(t, err)
	for _, n := range names {
		_, err = db.Exec("INSERT INTO plugins (name) VALUES (?)", n)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestIsInstalledMatchesNewestInventory(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeInventory(t, dir, "old.db", []string{"Massive"}, now.Add(-time.Hour))
	writeInventory(t, dir, "new.db", []string{"Serum"}, now)

	o := NewOverlay(dir)
	installed, err := o.IsInstalled(context.Background(), "Serum")
	require.NoError(t, err)
	assert.True(t, installed)

	installed, err = o.IsInstalled(context.Background(), "Massive")
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestIsInstalledMissingDirReturnsFalse(t *testing.T) {
	o := NewOverlay(filepath.Join(t.TempDir(), "does-not-exist"))
	installed, err := o.IsInstalled(context.Background(), "Serum")
	require.NoError(t, err)
	assert.False(t, installed)
}
