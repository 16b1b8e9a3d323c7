package llm

import (
	"context"
)

// Response is the text generated for one prompt.
type Response struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// Client is implemented by every generative model provider.
type Client interface {
	// Generate sends prompt to the model configured at construction and
	// returns its reply. Provider errors are returned unchanged.
	Generate(ctx context.Context, prompt string) (*Response, error)
}
