package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOllamaClientValidation(t *testing.T) {
	_, err := NewOllamaClient("http://localhost:11434", "", time.Second)
	assert.Error(t, err)

	_, err = NewOllamaClient("://bad", "gemma", time.Second)
	assert.Error(t, err)
}

func TestOllamaClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream *bool  `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gemma3", body.Model)
		assert.Equal(t, "요약해줘", body.Prompt)
		require.NotNil(t, body.Stream)
		assert.False(t, *body.Stream)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gemma3","response":"Summary: 건조\nRecommendation: 관개","done":true}` + "\n"))
	}))
	defer server.Close()

	c, err := NewOllamaClient(server.URL, "gemma3", 5*time.Second)
	require.NoError(t, err)

	resp, err := c.Generate(context.Background(), "요약해줘")
	require.NoError(t, err)
	assert.Equal(t, "Summary: 건조\nRecommendation: 관개", resp.Text)
	assert.Equal(t, "gemma3", resp.Model)
}
