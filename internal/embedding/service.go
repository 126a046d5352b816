package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/service"
)

// Match is one ranked item.
type Match struct {
	Item  string  `json:"item"`
	Score float64 `json:"similarity"`
}

// Service looks embeddings up in the store first and asks the embedder
// only for texts it has not seen.
type Service struct {
	embedder  Embedder
	store     *Store
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewService wires an embedder to a store.
func NewService(embedder Embedder, store *Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		embedder: embedder,
		store:    store,
		logger:   logger,
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// NormalizeText lower-cases and trims text. Blank text is an error.
func NormalizeText(text string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return "", fmt.Errorf("%w: text must contain non-whitespace characters", common.ErrEmptyInput)
	}
	return normalized, nil
}

// Embedding returns the vector for text, generating it when the store has
// none. A generated vector is stored only when autoSave is set.
func (s *Service) Embedding(ctx context.Context, text string, autoSave bool) ([]float32, error) {
	key, err := NormalizeText(text)
	if err != nil {
		return nil, err
	}

	v, found, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if found {
		return v, nil
	}

	v, err = s.generate(ctx, key)
	if err != nil {
		return nil, err
	}

	if autoSave {
		if err := s.store.Put(ctx, key, v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (s *Service) generate(ctx context.Context, key string) ([]float32, error) {
	var v []float32
	err := common.WithRetry(ctx, func() error {
		var embedErr error
		v, embedErr = s.embedder.Embed(ctx, key)
		return embedErr
	}, s.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("error generating embedding for %q: %w", key, err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("empty embedding for %q", key)
	}
	s.logger.Debug("generated embedding", "text", key, "dimensions", len(v))
	return v, nil
}

// FindSimilar ranks items by cosine similarity to query and returns at most
// topK of them, best first. Ties are broken alphabetically. Items are
// returned as given; lookups use their normalized form.
func (s *Service) FindSimilar(ctx context.Context, query string, items []string, topK int, autoSave bool) ([]Match, error) {
	if len(items) == 0 || topK <= 0 {
		return []Match{}, nil
	}
	topK = min(topK, len(items))

	queryVec, err := s.Embedding(ctx, query, autoSave)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(items))
	for i, item := range items {
		if keys[i], err = NormalizeText(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	cached, err := s.store.BulkGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(items))
	for i, key := range keys {
		v, ok := cached[key]
		if !ok {
			if v, err = s.generate(ctx, key); err != nil {
				return nil, err
			}
			cached[key] = v
			if autoSave {
				if err := s.store.Put(ctx, key, v); err != nil {
					return nil, err
				}
			}
		}

		score, err := CosineSimilarity(queryVec, v)
		if err != nil {
			return nil, fmt.Errorf("comparing %q: %w", items[i], err)
		}
		matches = append(matches, Match{Item: items[i], Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Item < matches[j].Item
	})

	return matches[:topK], nil
}

// Save stores embeddings for texts, generating the missing ones. It returns
// how many were saved along with any per-text failures.
func (s *Service) Save(ctx context.Context, texts ...string) (int, error) {
	var (
		saved int
		errs  []error
	)
	for _, text := range texts {
		v, err := s.Embedding(ctx, text, false)
		if err == nil {
			var key string
			key, err = NormalizeText(text)
			if err == nil {
				err = s.store.Put(ctx, key, v)
			}
		}
		if err != nil {
			s.logger.Warn("failed to save embedding", "text", text, "error", err)
			errs = append(errs, err)
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}

// Remove deletes the stored embeddings for texts.
func (s *Service) Remove(ctx context.Context, texts ...string) (int64, error) {
	keys := make([]string, 0, len(texts))
	for _, text := range texts {
		key, err := NormalizeText(text)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return s.store.Delete(ctx, keys...)
}

// StoredTexts lists every stored text alphabetically.
func (s *Service) StoredTexts(ctx context.Context) ([]string, error) {
	return s.store.Texts(ctx)
}

// Clear deletes every stored embedding.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	return s.store.Clear(ctx)
}

// Close releases the embedder (when it holds resources) and the store.
func (s *Service) Close() error {
	var errs []error
	if c, ok := s.embedder.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, s.store.Close())
	return errors.Join(errs...)
}
