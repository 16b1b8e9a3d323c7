package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"agri-advisor/internal/repo"
	"agri-advisor/internal/services/advisor"
)

// QueryLister reads recent query log records.
type QueryLister interface {
	Recent(ctx context.Context, arg repo.RecentParams) ([]repo.QueryRecord, error)
}

// QueryLogHandler exposes the audit log. A nil lister means the log is
// disabled and the route answers 404.
type QueryLogHandler struct {
	queries QueryLister
}

func NewQueryLogHandler(queries QueryLister) *QueryLogHandler {
	return &QueryLogHandler{queries: queries}
}

func (h *QueryLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/queries", h.List)
}

func (h *QueryLogHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.queries == nil {
		writeError(w, http.StatusNotFound, advisor.ErrCodeNotFound, "query log is not enabled")
		return
	}

	kind := r.URL.Query().Get("kind")
	switch advisor.Kind(kind) {
	case "", advisor.KindCrop, advisor.KindPest, advisor.KindClimate:
	default:
		writeError(w, http.StatusBadRequest, advisor.ErrCodeValidation, "unknown kind "+strconv.Quote(kind))
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 || l > 100 {
			writeError(w, http.StatusBadRequest, advisor.ErrCodeValidation, "invalid limit value (must be 1-100)")
			return
		}
		limit = l
	}

	records, err := h.queries.Recent(r.Context(), repo.RecentParams{Kind: kind, Limit: int32(limit)})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"queries": records, "total": len(records)})
}
