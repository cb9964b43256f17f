package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

var _ distill.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   distill.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next distill.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the result.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (doc *distill.Document, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"title", title(doc),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// RenderHTML delegates to the wrapped renderer and logs the result.
func (r *LoggingRenderer) RenderHTML(ctx context.Context, html string, baseURL string) (doc *distill.Document, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render html",
			"base_url", baseURL,
			"bytes", len(html),
			"title", title(doc),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.RenderHTML(ctx, html, baseURL)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}

func title(doc *distill.Document) string {
	if doc == nil {
		return ""
	}
	return doc.Title
}
