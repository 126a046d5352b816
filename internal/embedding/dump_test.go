package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpAndLoad(t *testing.T) {
	ctx := context.Background()
	src, _, _ := createTestService(t)

	saved, err := src.Save(ctx, "Rolled Oats", "milk")
	require.NoError(t, err)
	require.Equal(t, 2, saved)

	var buf bytes.Buffer
	dumped, err := src.Dump(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, dumped)

	var decoded map[string][]float32
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded["rolled oats"], 256)

	dst, embedder, _ := createTestService(t)
	loaded, err := dst.Load(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)

	texts, err := dst.StoredTexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "rolled oats"}, texts)

	want, err := src.Embedding(ctx, "milk", false)
	require.NoError(t, err)
	got, err := dst.Embedding(ctx, "MILK", false)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Zero(t, embedder.count(), "loaded vectors are not regenerated")
}

func TestDumpEmpty(t *testing.T) {
	svc, _, _ := createTestService(t)

	var buf bytes.Buffer
	n, err := svc.Dump(context.Background(), &buf)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "{}\n", buf.String())
}

func TestLoadSkipsBadEntries(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := createTestService(t)

	good := make([]float32, 256)
	good[0] = 1
	payload, err := json.Marshal(map[string][]float32{
		"Butter": good,
		" ":      good,
		"empty":  {},
		"short":  {1, 0},
	})
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, bytes.NewReader(payload))
	assert.Equal(t, 1, loaded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 dimensions")
	assert.Contains(t, err.Error(), `empty embedding for "empty"`)

	texts, err := svc.StoredTexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"butter"}, texts)
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	svc, _, _ := createTestService(t)

	_, err := svc.Load(context.Background(), strings.NewReader(`["not","a","map"]`))
	assert.ErrorContains(t, err, "failed to decode embeddings")
}
