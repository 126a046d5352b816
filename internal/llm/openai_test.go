package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid config", config: Config{APIKey: "test-key"}},
		{name: "missing API key", config: Config{}, wantErr: true},
		{name: "custom model and settings", config: Config{APIKey: "test-key", Model: "gpt-4", Temperature: 0.5, MaxTokens: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newOpenAIClient(tt.config)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrMissingConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultOpenAIModel, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "2 cups oats", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[{\"amount\":2,\"unit\":\"cup\",\"name\":\"oats\"}]"}}]}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	content, err := client.Complete(context.Background(), systemPrompt, "2 cups oats")
	require.NoError(t, err)
	assert.Contains(t, content, `"oats"`)
}

func TestOpenAIStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, retryable: true},
		{name: "server error", status: http.StatusBadGateway, retryable: true},
		{name: "unauthorized", status: http.StatusUnauthorized, retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), "system", "prompt")
			var statusErr *common.HTTPStatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.retryable, common.IsRetryable(err))
		})
	}
}

func TestOpenAINoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "system", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completion choices")
}
