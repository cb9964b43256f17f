package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

var _ distill.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher retries failed fetches with a fixed backoff schedule.
// EINVALID and ENOTFOUND errors are returned immediately.
type RetryFetcher struct {
	fetcher distill.Fetcher
	delays  []time.Duration
	logger  *slog.Logger
}

// NewRetryFetcher wraps fetcher so that it makes up to len(delays) extra
// attempts, waiting delays[i] before retry i. A nil logger disables retry
// logging.
func NewRetryFetcher(fetcher distill.Fetcher, logger *slog.Logger, delays ...time.Duration) *RetryFetcher {
	return &RetryFetcher{fetcher: fetcher, delays: delays, logger: logger}
}

// Fetch retrieves rawURL, retrying transient failures.
func (f *RetryFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(f.delays); attempt++ {
		html, err := f.fetcher.Fetch(ctx, rawURL)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt == len(f.delays) || !retryable(err) {
			break
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if f.logger != nil {
			f.logger.Warn("retry", "url", rawURL, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}
	return "", lastErr
}

// Close closes the underlying fetcher.
func (f *RetryFetcher) Close() error {
	return f.fetcher.Close()
}

func retryable(err error) bool {
	switch distill.ErrorCode(err) {
	case distill.EINVALID, distill.ENOTFOUND:
		return false
	}
	return true
}
