package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, p string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
}

func TestWalkFiltersBackupDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Project A.als"))
	touch(t, filepath.Join(root, "Backup", "Project A.als"))
	touch(t, filepath.Join(root, "nested", "backup", "Project B.als"))

	got, err := Walk(root, true)
	require.NoError(t, err)

	for _, p := range got {
		assert.NotContains(t, p, string(filepath.Separator)+"Backup"+string(filepath.Separator))
		assert.NotContains(t, p, string(filepath.Separator)+"backup"+string(filepath.Separator))
	}
	assert.Len(t, got, 1)
}

func TestWalkFiltersResourceForkSidecars(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "._Project A.als"))
	touch(t, filepath.Join(root, "Project A.als"))

	got, err := Walk(root, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Project A.als", filepath.Base(got[0]))
}

func TestWalkFileInputMustBeALS(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "notes.txt")
	touch(t, p)

	_, err := Walk(p, false)
	require.Error(t, err)
}

func TestWalkNonRecursiveSkipsSubdirs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Top.als"))
	touch(t, filepath.Join(root, "sub", "Nested.als"))

	got, err := Walk(root, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Top.als", filepath.Base(got[0]))
}

func TestWalkInvalidPath(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "does-not-exist"), true)
	require.Error(t, err)
}
