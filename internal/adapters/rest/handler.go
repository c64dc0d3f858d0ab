// Package rest exposes the catalog over HTTP.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/soundcheck/internal/core/services"
)

// Options tunes the router.
type Options struct {
	// CORSOrigins enables CORS for the listed origins; empty disables it.
	CORSOrigins []string
}

// Handler manages the HTTP interface for the catalog.
type Handler struct {
	catalog *services.Catalog
	router  chi.Router
	opts    Options
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(catalog *services.Catalog, opts Options) *Handler {
	h := &Handler{
		catalog: catalog,
		router:  chi.NewRouter(),
		opts:    opts,
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	r := h.router

	r.Use(requestIDWithLogging)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)
	if len(h.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         86400,
		}))
	}

	r.NotFound(h.routeNotFound)
	r.MethodNotAllowed(h.routeNotFound)

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(prometheusMetrics)
		r.NotFound(h.routeNotFound)
		r.MethodNotAllowed(h.routeNotFound)

		r.Get("/artists", h.ListArtists)
		r.Get("/artists/averages/{id}", h.ArtistAverages)
		r.Get("/artists/{id}", h.GetArtist)

		r.Get("/genres", h.ListGenres)

		r.Get("/songs", h.ListSongs)
		r.Get("/songs/sort/{order}", h.SortSongs)
		r.Get("/songs/search/begin/{substring}", h.SearchSongsBegin)
		r.Get("/songs/search/any/{substring}", h.SearchSongsAny)
		r.Get("/songs/search/year/{year}", h.SongsByYear)
		r.Get("/songs/artist/{id}", h.SongsByArtist)
		r.Get("/songs/genre/{id}", h.SongsByGenre)
		r.Get("/songs/{id}", h.GetSong)

		r.Get("/playlists/{id}", h.GetPlaylist)

		r.Get("/mood/{mood}", h.MoodSongs)
		r.Get("/mood/{mood}/{limit}", h.MoodSongs)
	})
}

func (h *Handler) routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
