package rest

import (
	"net/http"

	"github.com/ewilliams-labs/soundcheck/internal/core/domain"
)

// respondSongs writes songs or maps err.
func respondSongs(w http.ResponseWriter, r *http.Request, songs []domain.Song, err error) {
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// ListSongs handles GET /api/songs
func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.catalog.ListSongs(r.Context())
	respondSongs(w, r, songs, err)
}

// SortSongs handles GET /api/songs/sort/{order}
func (h *Handler) SortSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.catalog.SortSongs(r.Context(), textParam(r, "order"))
	respondSongs(w, r, songs, err)
}

// SearchSongsBegin handles GET /api/songs/search/begin/{substring}
func (h *Handler) SearchSongsBegin(w http.ResponseWriter, r *http.Request) {
	songs, err := h.catalog.SearchSongsBegin(r.Context(), textParam(r, "substring"))
	respondSongs(w, r, songs, err)
}

// SearchSongsAny handles GET /api/songs/search/any/{substring}
func (h *Handler) SearchSongsAny(w http.ResponseWriter, r *http.Request) {
	songs, err := h.catalog.SearchSongsAny(r.Context(), textParam(r, "substring"))
	respondSongs(w, r, songs, err)
}

// SongsByYear handles GET /api/songs/search/year/{year}
func (h *Handler) SongsByYear(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year", "Invalid year. Must be a number.")
	if !ok {
		return
	}
	songs, err := h.catalog.SongsByYear(r.Context(), year)
	respondSongs(w, r, songs, err)
}

// SongsByArtist handles GET /api/songs/artist/{id}
func (h *Handler) SongsByArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id", invalidArtistID)
	if !ok {
		return
	}
	songs, err := h.catalog.SongsByArtist(r.Context(), id)
	respondSongs(w, r, songs, err)
}

// SongsByGenre handles GET /api/songs/genre/{id}
func (h *Handler) SongsByGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id", "Invalid genre ID. Must be a number.")
	if !ok {
		return
	}
	songs, err := h.catalog.SongsByGenre(r.Context(), id)
	respondSongs(w, r, songs, err)
}

// GetSong handles GET /api/songs/{id}
func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id", "Invalid song ID. Must be a number.")
	if !ok {
		return
	}
	song, err := h.catalog.GetSong(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}
