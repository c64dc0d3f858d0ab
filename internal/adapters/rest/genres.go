package rest

import "net/http"

// ListGenres handles GET /api/genres
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.ListGenres(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}
