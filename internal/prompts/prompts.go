package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultTemplates []byte

// CropParams fills the crop recommendation prompt.
type CropParams struct {
	Region string
	Year   int
}

// PestParams fills the pest prediction prompt. Location is usually the
// province and city joined by a space.
type PestParams struct {
	Crop     string
	Location string
	Year     int
	Month    string
}

// ClimateParams fills the climate scenario prompt.
type ClimateParams struct {
	Region string
	Year   int
}

type templateSet struct {
	CropRecommendation string `yaml:"crop_recommendation"`
	PestPrediction     string `yaml:"pest_prediction"`
	ClimateScenario    string `yaml:"climate_scenario"`
}

// Builder renders the prompt for each question kind.
type Builder struct {
	crop    *template.Template
	pest    *template.Template
	climate *template.Template
}

// Default returns a Builder over the embedded templates.
func Default() *Builder {
	b, err := parse(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts: %v", err))
	}
	return b
}

// Load reads templates from a YAML file. Keys missing from the file keep
// their embedded default. An empty path returns Default().
func Load(path string) (*Builder, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Builder, error) {
	var set templateSet
	if err := yaml.Unmarshal(defaultTemplates, &set); err != nil {
		return nil, fmt.Errorf("decode default prompts: %w", err)
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}

	b := &Builder{}
	var err error
	if b.crop, err = template.New("crop_recommendation").Option("missingkey=error").Parse(set.CropRecommendation); err != nil {
		return nil, fmt.Errorf("parse crop_recommendation: %w", err)
	}
	if b.pest, err = template.New("pest_prediction").Option("missingkey=error").Parse(set.PestPrediction); err != nil {
		return nil, fmt.Errorf("parse pest_prediction: %w", err)
	}
	if b.climate, err = template.New("climate_scenario").Option("missingkey=error").Parse(set.ClimateScenario); err != nil {
		return nil, fmt.Errorf("parse climate_scenario: %w", err)
	}
	return b, nil
}

func (b *Builder) CropRecommendation(p CropParams) (string, error) {
	return render(b.crop, p)
}

func (b *Builder) PestPrediction(p PestParams) (string, error) {
	return render(b.pest, p)
}

func (b *Builder) ClimateScenario(p ClimateParams) (string, error) {
	return render(b.climate, p)
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return sb.String(), nil
}
