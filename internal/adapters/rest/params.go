package rest

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// intParam reads a path parameter that must be a base-10 integer. On failure
// it writes a 400 with message and reports false.
func intParam(w http.ResponseWriter, r *http.Request, name, message string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, message)
		return 0, false
	}
	return n, true
}

// textParam returns a decoded path parameter. chi matches against
// URL.RawPath when it is set, so only then is the value still escaped.
func textParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}
