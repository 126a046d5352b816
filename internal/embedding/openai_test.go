package embedding

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

func TestOpenAIEmbedder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req struct {
			Model      string `json:"model"`
			Input      string `json:"input"`
			Dimensions int    `json:"dimensions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultOpenAIModel, req.Model)
		assert.Equal(t, 3, req.Dimensions)

		if req.Input == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder(Config{APIKey: "key", BaseURL: server.URL + "/", Dimensions: 3})
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	v, err := e.Embed(context.Background(), "basil")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, v)

	_, err = e.Embed(context.Background(), "boom")
	var statusErr *common.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, common.IsRetryable(err))
}
