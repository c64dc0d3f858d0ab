package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ewilliams-labs/soundcheck/internal/core/domain"
)

// MoodSongs handles GET /api/mood/{mood} and /api/mood/{mood}/{limit}.
// A bad limit falls back to the default instead of failing.
func (h *Handler) MoodSongs(w http.ResponseWriter, r *http.Request) {
	limit := domain.ParseLimit(chi.URLParam(r, "limit"))

	songs, known, err := h.catalog.MoodSongs(r.Context(), chi.URLParam(r, "mood"), limit)
	if !known {
		h.routeNotFound(w, r)
		return
	}
	respondSongs(w, r, songs, err)
}
