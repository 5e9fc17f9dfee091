package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/core/ai/provider"
	"recipe-matcher/internal/infrastructure/config"
)

func newTestService(url string) *OpenRouterService {
	return NewOpenRouterService(config.OpenRouterConfig{
		APIKey:      "test-key",
		BaseURL:     url,
		Model:       "test/model",
		MaxTokens:   256,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	})
}

func TestOpenRouterGenerate(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"a recipe"}}],"usage":{"total_tokens":42}}`))
	}))
	defer server.Close()

	resp, err := newTestService(server.URL).Generate(context.Background(), provider.UserPrompt("soup please"))
	require.NoError(t, err)

	assert.Equal(t, "a recipe", resp.Content)
	assert.Equal(t, 42, resp.Usage.TotalTokens)
	assert.Equal(t, "test/model", got.Model)
	assert.Equal(t, 256, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "soup please", got.Messages[0].Content)
}

func TestOpenRouterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"api error body", http.StatusOK, `{"error":{"message":"model overloaded"}}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`},
		{"invalid json", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestService(server.URL).Generate(context.Background(), provider.UserPrompt("soup"))
			assert.Error(t, err)
		})
	}
}

func TestOpenRouterAccessors(t *testing.T) {
	s := newTestService("http://localhost")
	assert.Equal(t, "test/model", s.GetModel())
	assert.Equal(t, 5*time.Second, s.GetTimeout())
	assert.NoError(t, s.Close())
}
