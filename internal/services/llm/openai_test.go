package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", OpenAIOptions{})
	assert.Error(t, err)
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	c, err := NewOpenAIClient("key", OpenAIOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.model)
}

func TestOpenAIClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gemini-test", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "추천해줘", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gemini-test",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "1. 벼: 가뭄에 강함"}
			}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 5, "total_tokens": 8}
		}`))
	}))
	defer server.Close()

	c, err := NewOpenAIClient("test-key", OpenAIOptions{BaseURL: server.URL + "/", Model: "gemini-test"})
	require.NoError(t, err)

	resp, err := c.Generate(context.Background(), "추천해줘")
	require.NoError(t, err)
	assert.Equal(t, "1. 벼: 가뭄에 강함", resp.Text)
	assert.Equal(t, "gemini-test", resp.Model)
}

func TestOpenAIClientGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded", "type": "rate_limit", "code": "429"}}`))
	}))
	defer server.Close()

	c, err := NewOpenAIClient("test-key", OpenAIOptions{BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIClientGenerateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
	}))
	defer server.Close()

	c, err := NewOpenAIClient("test-key", OpenAIOptions{BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
