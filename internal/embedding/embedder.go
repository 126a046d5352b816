// Package embedding finds ingredients that mean the same thing. Vectors come
// from a model (or a local hashing embedder), are cached in a SQL table, and
// are ranked by cosine similarity.
package embedding

import (
	"context"
	"crypto/md5" // #nosec G501 -- used for feature hashing, not security
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/grocer/internal/common"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Config selects and configures an Embedder.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	Dimensions int
}

// NewEmbedder builds the embedder named by cfg.Provider.
func NewEmbedder(ctx context.Context, cfg Config) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "hash":
		return NewHashEmbedder(cfg.Dimensions), nil
	case "openai":
		e, err := NewOpenAIEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "gemini", "google":
		e, err := NewGeminiEmbedder(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: unsupported embeddings provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}

// HashEmbedder is a deterministic offline embedder. It hashes word and
// character-trigram features into buckets, so texts sharing spelling share
// direction.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder creates a HashEmbedder; non-positive dimensions default to 256.
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Dimension returns the vector length.
func (e *HashEmbedder) Dimension() int {
	return e.dimensions
}

// Embed never fails for non-empty text.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return nil, common.ErrEmptyInput
	}

	vec := make([]float32, e.dimensions)
	for _, w := range words {
		e.addFeature(vec, "w:"+w, 2)
		padded := []rune(" " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			e.addFeature(vec, string(padded[i:i+3]), 1)
		}
	}

	normalize(vec)
	return vec, nil
}

func (e *HashEmbedder) addFeature(vec []float32, feature string, weight float32) {
	sum := md5.Sum([]byte(feature)) // #nosec G401
	idx := binary.LittleEndian.Uint32(sum[:4]) % uint32(len(vec))
	if sum[4]&1 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func normalize(vec []float32) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	magnitude := float32(math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] /= magnitude
	}
}
