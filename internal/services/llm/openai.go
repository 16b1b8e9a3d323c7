package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-1.5-flash"
)

// ErrEmptyCompletion is returned when the provider answers without choices.
var ErrEmptyCompletion = errors.New("model returned no choices")

type OpenAIClient struct {
	client openai.Client
	model  string
}

// OpenAIOptions tunes an OpenAIClient. Zero values select the defaults.
type OpenAIOptions struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

func NewOpenAIClient(apiKey string, opts OpenAIOptions) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(opts.BaseURL),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: opts.Timeout}))
	}

	return &OpenAIClient{
		client: openai.NewClient(reqOpts...),
		model:  opts.Model,
	}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (*Response, error) {
	start := time.Now()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	log.Debug().
		Str("model", c.model).
		Int64("total_tokens", completion.Usage.TotalTokens).
		Dur("duration", time.Since(start)).
		Msg("Completion received")

	return &Response{
		Text:  completion.Choices[0].Message.Content,
		Model: c.model,
	}, nil
}
