package api

import (
	"net/http"
	"strings"
)

// SeriesHandler serves stored series.
type SeriesHandler struct {
	deps Dependencies
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(deps Dependencies) *SeriesHandler {
	return &SeriesHandler{deps: deps}
}

// HandleList handles GET /series.
func (h *SeriesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	list, err := h.deps.ListSeries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /series/{name}.
func (h *SeriesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/series/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	s, err := h.deps.GetSeries(r.Context(), name)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
