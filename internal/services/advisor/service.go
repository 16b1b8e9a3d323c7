package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"agri-advisor/internal/parser"
	"agri-advisor/internal/prompts"
	"agri-advisor/internal/repo"
	"agri-advisor/internal/services/llm"
)

// Kind names a question type. It doubles as the query log kind.
type Kind string

const (
	KindCrop    Kind = "crop_recommendation"
	KindPest    Kind = "pest_prediction"
	KindClimate Kind = "climate_scenario"
)

// ErrUnknownKind is returned by ParseRaw for an unsupported kind.
var ErrUnknownKind = errors.New("unknown question kind")

// UpstreamError wraps a model failure. Its message is the model client's
// message, unchanged.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// Recorder stores an audit record per model round trip.
type Recorder interface {
	Record(ctx context.Context, rec repo.QueryRecord) error
}

// Service turns agronomy questions into prompts, asks the model and parses
// the reply.
type Service struct {
	llm      llm.Client
	prompts  *prompts.Builder
	recorder Recorder
}

// NewService creates a Service. recorder may be nil to disable auditing.
func NewService(client llm.Client, builder *prompts.Builder, recorder Recorder) *Service {
	return &Service{
		llm:      client,
		prompts:  builder,
		recorder: recorder,
	}
}

// RecommendCrops asks for crops suited to the request's region and year.
func (s *Service) RecommendCrops(ctx context.Context, req CropRequest) (*CropResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prompt, err := s.prompts.CropRecommendation(prompts.CropParams{Region: req.Region, Year: req.Year})
	if err != nil {
		return nil, err
	}

	params := map[string]any{"region": req.Region, "year": req.Year}
	raw, err := s.ask(ctx, KindCrop, params, prompt)
	if err != nil {
		return nil, err
	}

	crops := parser.ParseCropRecommendations(raw.Text)
	s.record(ctx, KindCrop, params, raw, len(crops), nil)
	return &CropResponse{RecommendedCrops: crops}, nil
}

// PredictPests asks for the main pests of a crop at a place and month.
func (s *Service) PredictPests(ctx context.Context, req PestRequest) (*PestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prompt, err := s.prompts.PestPrediction(prompts.PestParams{
		Crop:     req.Crop,
		Location: req.Region + " " + req.Si,
		Year:     req.Year,
		Month:    req.Month,
	})
	if err != nil {
		return nil, err
	}

	params := map[string]any{"crop": req.Crop, "region": req.Region, "si": req.Si, "year": req.Year, "month": req.Month}
	raw, err := s.ask(ctx, KindPest, params, prompt)
	if err != nil {
		return nil, err
	}

	pests := parser.ParsePestPredictions(raw.Text)
	s.record(ctx, KindPest, params, raw, len(pests), nil)
	return &PestResponse{PredictedPests: pests}, nil
}

// ClimateScenario asks for a summary of a region's climate outlook.
func (s *Service) ClimateScenario(ctx context.Context, req ClimateRequest) (*parser.ClimateScenario, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prompt, err := s.prompts.ClimateScenario(prompts.ClimateParams{Region: req.Region, Year: req.Year})
	if err != nil {
		return nil, err
	}

	params := map[string]any{"region": req.Region, "year": req.Year}
	raw, err := s.ask(ctx, KindClimate, params, prompt)
	if err != nil {
		return nil, err
	}

	scenario := parser.ParseClimateScenario(raw.Text)
	entries := 0
	if scenario.Summary != "" || scenario.RecommendationNote != "" {
		entries = 1
	}
	s.record(ctx, KindClimate, params, raw, entries, nil)
	return &scenario, nil
}

// Outlook asks the climate and crop questions concurrently. The first
// failure cancels the other call.
func (s *Service) Outlook(ctx context.Context, req OutlookRequest) (*OutlookResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		climate *parser.ClimateScenario
		crops   *CropResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		climate, err = s.ClimateScenario(gctx, ClimateRequest{Region: req.Region, Year: req.Year})
		return err
	})
	g.Go(func() error {
		var err error
		crops, err = s.RecommendCrops(gctx, CropRequest{Region: req.Region, Year: req.Year})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &OutlookResponse{Climate: *climate, RecommendedCrops: crops.RecommendedCrops}, nil
}

// ParseRaw parses a saved model reply as the given kind and returns the
// value the HTTP API would serve for it.
func ParseRaw(kind Kind, raw string) (any, error) {
	switch kind {
	case KindCrop:
		return CropResponse{RecommendedCrops: parser.ParseCropRecommendations(raw)}, nil
	case KindPest:
		return PestResponse{PredictedPests: parser.ParsePestPredictions(raw)}, nil
	case KindClimate:
		return parser.ParseClimateScenario(raw), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

type reply struct {
	*llm.Response
	started time.Time
}

func (s *Service) ask(ctx context.Context, kind Kind, params map[string]any, prompt string) (*reply, error) {
	start := time.Now()
	resp, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("Model call failed")
		s.record(ctx, kind, params, &reply{Response: &llm.Response{}, started: start}, 0, err)
		return nil, &UpstreamError{Err: err}
	}

	log.Debug().
		Str("kind", string(kind)).
		Str("model", resp.Model).
		Int("chars", len(resp.Text)).
		Dur("duration", time.Since(start)).
		Msg("Model reply received")
	return &reply{Response: resp, started: start}, nil
}

// record writes the audit entry without letting request cancellation or a
// storage failure affect the answer.
func (s *Service) record(ctx context.Context, kind Kind, params map[string]any, r *reply, entries int, callErr error) {
	if s.recorder == nil {
		return
	}

	rec := repo.QueryRecord{
		Kind:      string(kind),
		Params:    params,
		Model:     r.Model,
		Entries:   entries,
		LatencyMs: time.Since(r.started).Milliseconds(),
	}
	if callErr != nil {
		rec.Error = callErr.Error()
	}

	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.recorder.Record(recCtx, rec); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to record query")
	}
}
