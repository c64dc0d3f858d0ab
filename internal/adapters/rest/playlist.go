package rest

import "net/http"

// GetPlaylist handles GET /api/playlists/{id}
func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id", "Invalid playlist ID. Must be a number.")
	if !ok {
		return
	}
	entries, err := h.catalog.GetPlaylist(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
