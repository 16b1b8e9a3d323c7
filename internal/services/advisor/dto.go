package advisor

import (
	"errors"
	"fmt"
	"strings"

	"agri-advisor/internal/parser"
)

// ErrValidation marks request parameters the service refuses.
var ErrValidation = errors.New("invalid request")

// CropRequest asks for crops suited to a region in a given year.
type CropRequest struct {
	Region string `json:"region"`
	Year   int    `json:"year"`
}

// PestRequest asks for pests threatening a crop at a place and time. Si is
// the city or county inside Region.
type PestRequest struct {
	Crop   string `json:"crop"`
	Region string `json:"region"`
	Si     string `json:"si"`
	Year   int    `json:"year"`
	Month  string `json:"month"`
}

// ClimateRequest asks for a region's climate scenario.
type ClimateRequest struct {
	Region string `json:"region"`
	Year   int    `json:"year"`
}

// OutlookRequest combines a climate scenario with crop recommendations.
type OutlookRequest struct {
	Region string `json:"region"`
	Year   int    `json:"year"`
}

type CropResponse struct {
	RecommendedCrops []parser.CropEntry `json:"recommended_crops"`
}

type PestResponse struct {
	PredictedPests []parser.PestEntry `json:"predicted_pests"`
}

type OutlookResponse struct {
	Climate          parser.ClimateScenario `json:"climate"`
	RecommendedCrops []parser.CropEntry     `json:"recommended_crops"`
}

func (r CropRequest) Validate() error {
	return validate(required("region", r.Region), validYear(r.Year))
}

func (r PestRequest) Validate() error {
	return validate(
		required("crop", r.Crop),
		required("region", r.Region),
		required("si", r.Si),
		validYear(r.Year),
		required("month", r.Month),
	)
}

func (r ClimateRequest) Validate() error {
	return validate(required("region", r.Region), validYear(r.Year))
}

func (r OutlookRequest) Validate() error {
	return validate(required("region", r.Region), validYear(r.Year))
}

func required(name, value string) string {
	if strings.TrimSpace(value) == "" {
		return name + " is required"
	}
	return ""
}

func validYear(year int) string {
	if year < 1 || year > 9999 {
		return "year must be between 1 and 9999"
	}
	return ""
}

func validate(problems ...string) error {
	var msgs []string
	for _, p := range problems {
		if p != "" {
			msgs = append(msgs, p)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeRateLimit  = "RATE_LIMIT"
	ErrCodeUpstream   = "UPSTREAM_ERROR"
)

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}
