// Package query is the read-only HTTP boundary (C10): a minimal
// projection over committed catalog state. It is explicitly out of the
// core's scope, so it is built directly on net/http rather than pulling
// in a routing or API framework.
package query

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"studiocat/internal/catalog"
	"studiocat/internal/model"
)

// projectedProject is the JSON shape returned for a single project,
// joining in its linked plugins and samples.
type projectedProject struct {
	model.Project
	Plugins []model.ProjectPlugin `json:"plugins"`
	Samples []model.ProjectSample `json:"samples"`
}

// Server serves GET /projects and GET /projects/{id} against store.
type Server struct {
	store *catalog.Store
}

// NewServer returns an http.Handler backed by store.
func NewServer(store *catalog.Store) *Server {
	return &Server{store: store}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/projects")
	switch {
	case path == "" || path == "/":
		s.listProjects(w, r)
	case strings.HasPrefix(path, "/"):
		s.getProject(w, r, strings.TrimPrefix(path, "/"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]projectedProject, 0, len(projects))
	for _, p := range projects {
		pp, err := s.project(r.Context(), p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out = append(out, pp)
	}
	writeJSON(w, out)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}

	p, err := s.store.LookupByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.NotFound(w, r)
		return
	}

	pp, err := s.project(r.Context(), *p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, pp)
}

func (s *Server) project(ctx context.Context, p model.Project) (projectedProject, error) {
	plugins, err := s.store.Plugins(ctx, p.ID)
	if err != nil {
		return projectedProject{}, err
	}
	samples, err := s.store.Samples(ctx, p.ID)
	if err != nil {
		return projectedProject{}, err
	}
	return projectedProject{Project: p, Plugins: plugins, Samples: samples}, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
