package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Dump writes every stored embedding to w as one JSON object mapping text to
// vector. It returns how many were written.
func (s *Service) Dump(ctx context.Context, w io.Writer) (int, error) {
	texts, err := s.store.Texts(ctx)
	if err != nil {
		return 0, err
	}
	vectors, err := s.store.BulkGet(ctx, texts)
	if err != nil {
		return 0, err
	}
	if err := json.NewEncoder(w).Encode(vectors); err != nil {
		return 0, fmt.Errorf("failed to encode embeddings: %w", err)
	}
	return len(vectors), nil
}

// Load reads a Dump from r and stores each vector, overwriting existing
// ones. Entries with blank text, empty vectors or a dimension other than the
// embedder's are skipped and reported together.
func (s *Service) Load(ctx context.Context, r io.Reader) (int, error) {
	var vectors map[string][]float32
	if err := json.NewDecoder(r).Decode(&vectors); err != nil {
		return 0, fmt.Errorf("failed to decode embeddings: %w", err)
	}

	texts := make([]string, 0, len(vectors))
	for text := range vectors {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	want := s.embedder.Dimension()
	var (
		loaded int
		errs   []error
	)
	for _, text := range texts {
		key, err := NormalizeText(text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		v := vectors[text]
		switch {
		case len(v) == 0:
			errs = append(errs, fmt.Errorf("empty embedding for %q", key))
			continue
		case want > 0 && len(v) != want:
			errs = append(errs, fmt.Errorf("embedding for %q has %d dimensions, want %d", key, len(v), want))
			continue
		}
		if err := s.store.Put(ctx, key, v); err != nil {
			return loaded, err
		}
		loaded++
	}

	if len(errs) > 0 {
		s.logger.Warn("skipped embeddings while loading", "skipped", len(errs))
	}
	return loaded, errors.Join(errs...)
}
