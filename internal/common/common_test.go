package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/grocer/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &RetryableError{Err: errors.New("flaky"), Retryable: true}
			}
			return nil
		}, fastRetry(5))
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		boom := errors.New("bad request")
		err := WithRetry(context.Background(), func() error {
			calls++
			return Permanent(boom)
		}, fastRetry(5))
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("plain errors are not retried", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("nope")
		}, fastRetry(5))
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &HTTPStatusError{Service: "test", StatusCode: 503}
		}, fastRetry(3))
		require.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 3, calls)

		var statusErr *HTTPStatusError
		assert.ErrorAs(t, err, &statusErr)
	})

	t.Run("context canceled between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		err := WithRetry(ctx, func() error {
			cancel()
			return ErrRateLimit
		}, fastRetry(3))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: ErrRateLimit, want: true},
		{name: "wrapped deadline", err: errors.Join(errors.New("x"), context.DeadlineExceeded), want: true},
		{name: "too many requests", err: &HTTPStatusError{StatusCode: 429}, want: true},
		{name: "server error", err: &HTTPStatusError{StatusCode: 502}, want: true},
		{name: "client error", err: &HTTPStatusError{StatusCode: 400}, want: false},
		{name: "permanent wins", err: Permanent(ErrRateLimit), want: false},
		{name: "plain", err: errors.New("plain"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not save list", ErrNotFound)
	assert.Equal(t, "could not save list: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "only message", NewUserError("only message", nil).Error())
}

func TestNewHandler(t *testing.T) {
	for _, format := range []string{"console", "text", "json"} {
		var buf bytes.Buffer
		h, err := NewHandler(&buf, slog.LevelInfo, format)
		require.NoError(t, err, format)
		slog.New(h).Info("hello", "recipe", "granola")
		assert.Contains(t, buf.String(), "granola", format)
	}

	_, err := NewHandler(&bytes.Buffer{}, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoggerContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, Logger(ctx))
	assert.Same(t, slog.Default(), Logger(context.Background()))
}
