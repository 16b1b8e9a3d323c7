package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog/log"
)

// OllamaClient talks to a local Ollama server.
type OllamaClient struct {
	client *api.Client
	model  string
}

func NewOllamaClient(baseURL, model string, timeout time.Duration) (*OllamaClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if model == "" {
		return nil, fmt.Errorf("Ollama model is required")
	}

	return &OllamaClient{
		client: api.NewClient(base, &http.Client{Timeout: timeout}),
		model:  model,
	}, nil
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (*Response, error) {
	start := time.Now()
	stream := false

	var sb strings.Builder
	err := c.client.Generate(ctx, &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
	}, func(gr api.GenerateResponse) error {
		sb.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("model", c.model).
		Dur("duration", time.Since(start)).
		Msg("Ollama generation received")

	return &Response{Text: sb.String(), Model: c.model}, nil
}
