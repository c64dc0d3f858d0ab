package rest

import "net/http"

const invalidArtistID = "Invalid artist ID. Must be a number."

// ListArtists handles GET /api/artists
func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.catalog.ListArtists(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

// GetArtist handles GET /api/artists/{id}
func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id", invalidArtistID)
	if !ok {
		return
	}
	artist, err := h.catalog.GetArtist(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// ArtistAverages handles GET /api/artists/averages/{id}
func (h *Handler) ArtistAverages(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id", invalidArtistID)
	if !ok {
		return
	}
	averages, err := h.catalog.ArtistAverages(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, averages)
}
