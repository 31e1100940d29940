package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiocat/internal/catalog"
	"studiocat/internal/model"
)

func openTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	s, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestListProjectsReturnsAllRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	_, err := store.UpsertProject(ctx, model.Project{
		UUID: "u1", Path: "/a.als", FileHash: "h1",
		LastScanTimestamp: now, Name: "A", CreationTime: now, LastModificationTime: now,
	})
	require.NoError(t, err)

	srv := NewServer(store)
	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []projectedProject
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "/a.als", got[0].Path)
}

func TestGetProjectByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	p, err := store.UpsertProject(ctx, model.Project{
		UUID: "u1", Path: "/a.als", FileHash: "h1",
		LastScanTimestamp: now, Name: "A", CreationTime: now, LastModificationTime: now,
	})
	require.NoError(t, err)

	srv := NewServer(store)
	req := httptest.NewRequest(http.MethodGet, "/projects/"+strconv.FormatInt(p.ID, 10), nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetProjectMissingIsNotFound(t *testing.T) {
	store := openTestStore(t)
	srv := NewServer(store)

	req := httptest.NewRequest(http.MethodGet, "/projects/9999", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
