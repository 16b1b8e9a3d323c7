package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"agri-advisor/internal/services/advisor"
)

// AdvisorHandler serves the agronomy question endpoints.
type AdvisorHandler struct {
	service *advisor.Service
}

// NewAdvisorHandler creates a new AdvisorHandler
func NewAdvisorHandler(service *advisor.Service) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

// RegisterRoutes registers the question routes. Trailing slashes are
// stripped by the router, so "/crop_recommendation/" also matches.
func (h *AdvisorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/crop_recommendation", h.CropRecommendation)
	r.Get("/pest_prediction", h.PestPrediction)
	r.Get("/climate_scenario", h.ClimateScenario)
	r.Get("/api/v1/outlook", h.Outlook)
}

// Root answers with a welcome message.
func (h *AdvisorHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Crop Recommendation API!"})
}

func (h *AdvisorHandler) CropRecommendation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := yearParam(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, advisor.ErrCodeValidation, err.Error())
		return
	}

	resp, err := h.service.RecommendCrops(r.Context(), advisor.CropRequest{
		Region: q.Get("region"),
		Year:   year,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdvisorHandler) PestPrediction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := yearParam(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, advisor.ErrCodeValidation, err.Error())
		return
	}

	resp, err := h.service.PredictPests(r.Context(), advisor.PestRequest{
		Crop:   q.Get("crop"),
		Region: q.Get("region"),
		Si:     q.Get("si"),
		Year:   year,
		Month:  q.Get("month"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdvisorHandler) ClimateScenario(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := yearParam(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, advisor.ErrCodeValidation, err.Error())
		return
	}

	resp, err := h.service.ClimateScenario(r.Context(), advisor.ClimateRequest{
		Region: q.Get("region"),
		Year:   year,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Outlook combines the climate scenario and crop recommendations.
func (h *AdvisorHandler) Outlook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := yearParam(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, advisor.ErrCodeValidation, err.Error())
		return
	}

	resp, err := h.service.Outlook(r.Context(), advisor.OutlookRequest{
		Region: q.Get("region"),
		Year:   year,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func yearParam(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("year parameter is required")
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year value %q", s)
	}
	return year, nil
}
