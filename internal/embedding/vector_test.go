package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorCodec(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
	}{
		{name: "empty", in: []float32{}},
		{name: "values", in: []float32{0.25, -1, 3.5, float32(math.Pi)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeVector(tt.in)
			require.NoError(t, err)
			assert.Len(t, data, 4+4*len(tt.in))

			got, err := DecodeVector(data)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}

	_, err := DecodeVector([]byte{1, 2})
	assert.Error(t, err)

	data, err := EncodeVector([]float32{1, 2})
	require.NoError(t, err)
	_, err = DecodeVector(data[:len(data)-1])
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	score, err := CosineSimilarity([]float32{1, 0}, []float32{2, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)

	score, err = CosineSimilarity([]float32{1, 0}, []float32{0, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-9)

	score, err = CosineSimilarity([]float32{1, 1}, []float32{-1, -1})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, score, 1e-9)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = CosineSimilarity([]float32{0, 0}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrZeroVector)
}

func TestHashEmbedder(t *testing.T) {
	ctx := context.Background()
	e := NewHashEmbedder(0)
	assert.Equal(t, 256, e.Dimension())

	a, err := e.Embed(ctx, "Tomatoes")
	require.NoError(t, err)
	assert.Len(t, a, 256)

	again, err := e.Embed(ctx, "tomatoes")
	require.NoError(t, err)
	assert.Equal(t, a, again, "embedding is deterministic and case-insensitive")

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)

	tomato, _ := e.Embed(ctx, "tomato")
	milk, _ := e.Embed(ctx, "milk")
	near, err := CosineSimilarity(a, tomato)
	require.NoError(t, err)
	far, err := CosineSimilarity(a, milk)
	require.NoError(t, err)
	assert.Greater(t, near, far)

	_, err = e.Embed(ctx, "   ")
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}

func TestNewEmbedder(t *testing.T) {
	ctx := context.Background()

	e, err := NewEmbedder(ctx, Config{Dimensions: 32})
	require.NoError(t, err)
	assert.Equal(t, 32, e.Dimension())

	e, err = NewEmbedder(ctx, Config{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIDims, e.Dimension())

	_, err = NewEmbedder(ctx, Config{Provider: "openai"})
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewEmbedder(ctx, Config{Provider: "gemini"})
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewEmbedder(ctx, Config{Provider: "word2vec"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
