package middleware

import (
	"encoding/json"
	"net/http"

	"agri-advisor/internal/services/advisor"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(advisor.NewErrorResponse(code, message)); err != nil {
		http.Error(w, message, status)
	}
}
