package douceur

import (
	"context"
	"fmt"

	"github.com/fwojciec/distill"
)

// Ensure Renderer implements distill.Renderer at compile time.
var _ distill.Renderer = (*Renderer)(nil)

// Renderer produces documents laid out by a static Layout. It never runs
// JavaScript, so it suits static pages and tests.
type Renderer struct {
	fetcher distill.Fetcher
	parser  distill.Parser
	opts    []Option
}

// NewRenderer creates a Renderer that fetches pages with fetcher, parses them
// with parser and attaches a Layout configured by opts.
func NewRenderer(fetcher distill.Fetcher, parser distill.Parser, opts ...Option) *Renderer {
	return &Renderer{fetcher: fetcher, parser: parser, opts: opts}
}

// Render fetches url and returns the laid out document.
func (r *Renderer) Render(ctx context.Context, url string) (*distill.Document, error) {
	if r.fetcher == nil {
		return nil, distill.Errorf(distill.EINVALID, "renderer has no fetcher")
	}

	html, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	return r.RenderHTML(ctx, html, url)
}

// RenderHTML parses html and attaches a static Layout.
func (r *Renderer) RenderHTML(ctx context.Context, html string, baseURL string) (*distill.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := r.parser.Parse(html, baseURL)
	if err != nil {
		return nil, err
	}
	doc.Layout = NewLayout(doc.Root, r.opts...)
	return doc, nil
}

// Close releases the fetcher.
func (r *Renderer) Close() error {
	if r.fetcher == nil {
		return nil
	}
	return r.fetcher.Close()
}
