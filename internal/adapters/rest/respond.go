package rest

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/soundcheck/internal/core/domain"
	"github.com/ewilliams-labs/soundcheck/internal/core/ports"
	"github.com/ewilliams-labs/soundcheck/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// fail maps an error from the catalog to a status and message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid  *domain.InvalidInputError
		notFound *domain.NotFoundError
		store    *ports.StoreError
	)
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Message)
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Message)
	case errors.As(err, &store):
		logging.Ctx(r.Context()).Error().Err(err).Msg("store query failed")
		writeError(w, http.StatusInternalServerError, store.Message)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
