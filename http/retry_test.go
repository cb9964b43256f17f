package http_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	distillhttp "github.com/fwojciec/distill/http"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				if calls < 3 {
					return "", errors.New("HTTP 503")
				}
				return "<html></html>", nil
			},
		}

		f := distillhttp.NewRetryFetcher(fetcher, nil, 0, 0, 0)
		html, err := f.Fetch(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when attempts run out", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				return "", errors.New("connection reset")
			},
		}

		f := distillhttp.NewRetryFetcher(fetcher, nil, 0, 0)
		_, err := f.Fetch(context.Background(), "https://example.com/")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{distill.EINVALID, distill.ENOTFOUND} {
			var calls int
			fetcher := &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					calls++
					return "", distill.Errorf(code, "nope")
				},
			}

			f := distillhttp.NewRetryFetcher(fetcher, nil, 0, 0, 0)
			_, err := f.Fetch(context.Background(), "https://example.com/")

			assert.Equal(t, code, distill.ErrorCode(err))
			assert.Equal(t, 1, calls, code)
		}
	})

	t.Run("without delays makes a single attempt", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				return "", errors.New("boom")
			},
		}

		_, err := distillhttp.NewRetryFetcher(fetcher, nil).Fetch(context.Background(), "https://example.com/")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("boom")
			},
		}

		start := time.Now()
		_, err := distillhttp.NewRetryFetcher(fetcher, nil, time.Minute).Fetch(ctx, "https://example.com/")

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestRetryFetcher_Close(t *testing.T) {
	t.Parallel()

	var closed bool
	fetcher := &mock.Fetcher{CloseFn: func() error { closed = true; return nil }}

	require.NoError(t, distillhttp.NewRetryFetcher(fetcher, nil).Close())
	assert.True(t, closed)
}
