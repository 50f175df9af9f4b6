package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
	"github.com/MikeSquared-Agency/Northstar/internal/essay"
)

type ScholarshipsHandler struct {
	catalog catalog.Catalog
	essays  *essay.Orchestrator
}

func NewScholarshipsHandler(c catalog.Catalog, e *essay.Orchestrator) *ScholarshipsHandler {
	return &ScholarshipsHandler{catalog: c, essays: e}
}

// List handles GET /api/v1/scholarships
func (h *ScholarshipsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if all == nil {
		all = []catalog.Scholarship{}
	}
	writeJSON(w, http.StatusOK, all)
}

// Get handles GET /api/v1/scholarships/{id}
func (h *ScholarshipsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Analysis handles GET /api/v1/scholarships/{id}/analysis
func (h *ScholarshipsHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	a, err := h.essays.Analyze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
