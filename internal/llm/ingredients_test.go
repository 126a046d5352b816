package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient replays canned replies in order.
type fakeClient struct {
	replies []fakeReply
	prompts []string
	closed  bool
	mu      sync.Mutex
}

type fakeReply struct {
	err     error
	content string
}

func (f *fakeClient) Complete(_ context.Context, _, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, prompt)
	if len(f.replies) == 0 {
		return "", errors.New("no reply queued")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.content, r.err
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newTestParser(client Client) *IngredientParser {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewIngredientParserWithClient(client, Config{MaxRetries: 3, RetryDelay: time.Millisecond}, logger)
}

func TestIngredientParserParse(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{content: `[{"amount":2,"unit":"cups","name":"oats"},{"amount":1,"unit":"","name":"banana"}]`},
	}}
	p := newTestParser(client)
	defer func() { _ = p.Close() }()

	parsed, err := p.Parse(context.Background(), "2 cups oats\n1 banana", "porridge")
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "cup", parsed[0].Unit)
	assert.Equal(t, "porridge", parsed[0].Recipe)
	assert.Equal(t, model.OriginLLM, parsed[1].Origin)

	t.Run("cache hit skips the client", func(t *testing.T) {
		again, err := p.Parse(context.Background(), "2 CUPS oats 1 banana", "smoothie")
		require.NoError(t, err)
		assert.Equal(t, 1, client.calls())
		assert.Equal(t, "smoothie", again[0].Recipe)
	})
}

func TestIngredientParserRetries(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{err: &common.HTTPStatusError{Service: "OpenAI", StatusCode: 503}},
		{content: "not json at all"},
		{content: `[{"amount":1,"unit":"item","name":"lemon"}]`},
	}}
	p := newTestParser(client)
	defer func() { _ = p.Close() }()

	parsed, err := p.Parse(context.Background(), "1 lemon", "")
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, 3, client.calls())
}

func TestIngredientParserPermanentFailures(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		client := &fakeClient{replies: []fakeReply{
			{err: &common.HTTPStatusError{Service: "OpenAI", StatusCode: 401}},
		}}
		p := newTestParser(client)
		defer func() { _ = p.Close() }()

		_, err := p.Parse(context.Background(), "1 lemon", "")
		var statusErr *common.HTTPStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 1, client.calls())
	})

	t.Run("nothing usable", func(t *testing.T) {
		client := &fakeClient{replies: []fakeReply{
			{content: `[{"amount":1,"unit":"pinch","name":"salt"}]`},
		}}
		p := newTestParser(client)
		defer func() { _ = p.Close() }()

		_, err := p.Parse(context.Background(), "a pinch of salt", "")
		require.ErrorIs(t, err, common.ErrNoIngredient)
	})

	t.Run("empty input", func(t *testing.T) {
		client := &fakeClient{}
		p := newTestParser(client)

		_, err := p.Parse(context.Background(), "  \n", "")
		require.ErrorIs(t, err, common.ErrEmptyInput)
		require.NoError(t, p.Close())
		assert.True(t, client.closed)
	})
}
