package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"agri-advisor/internal/services/advisor"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, advisor.NewErrorResponse(code, message))
}

// writeServiceError maps a service error onto a status code. Model failures
// keep the upstream message as is.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *advisor.UpstreamError
	switch {
	case errors.Is(err, advisor.ErrValidation):
		writeError(w, http.StatusBadRequest, advisor.ErrCodeValidation, err.Error())
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, advisor.ErrCodeUpstream, upstream.Error())
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, advisor.ErrCodeInternal, "Failed to process request")
	}
}
