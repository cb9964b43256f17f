package rod

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/snapshot"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRenderTimeout is the default time allowed for loading and
// snapshotting one page.
const DefaultRenderTimeout = 10 * time.Second

// Ensure Renderer implements distill.Renderer at compile time.
var _ distill.Renderer = (*Renderer)(nil)

// Renderer lays pages out in headless Chrome and snapshots their computed
// styles and offset boxes. Renderer is safe for concurrent use.
type Renderer struct {
	manager        *BrowserManager
	timeout        time.Duration
	viewportWidth  int
	viewportHeight int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout sets the per-page render timeout.
// Defaults to DefaultRenderTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithViewport sets the viewport pages are laid out in. Defaults to 1024x768.
func WithViewport(width, height int) Option {
	return func(r *Renderer) {
		r.viewportWidth = width
		r.viewportHeight = height
	}
}

// NewRenderer creates a Renderer backed by manager.
// The Renderer does not own the manager; the caller closes it.
func NewRenderer(manager *BrowserManager, opts ...Option) *Renderer {
	r := &Renderer{
		manager:        manager,
		timeout:        DefaultRenderTimeout,
		viewportWidth:  1024,
		viewportHeight: 768,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to url, waits for the page to load and snapshots it.
func (r *Renderer) Render(ctx context.Context, url string) (*distill.Document, error) {
	return r.render(ctx, func(page *rod.Page) error {
		if err := page.Navigate(url); err != nil {
			return err
		}
		return page.WaitLoad()
	}, "")
}

// RenderHTML loads html into a blank page and snapshots it. The returned
// document's URL is baseURL.
func (r *Renderer) RenderHTML(ctx context.Context, html string, baseURL string) (*distill.Document, error) {
	return r.render(ctx, func(page *rod.Page) error {
		return page.SetDocumentContent(html)
	}, baseURL)
}

// Close is a no-op; the BrowserManager owns the browser.
func (r *Renderer) Close() error {
	return nil
}

func (r *Renderer) render(ctx context.Context, load func(*rod.Page) error, baseURL string) (*distill.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, distill.Errorf(distill.EINVALID, "invalid base URL: %v", err)
		}
		base = u
	}

	browser, release, err := r.manager.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.viewportWidth,
		Height:            r.viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	if err := load(page); err != nil {
		return nil, err
	}

	res, err := page.Eval(snapshot.Script)
	if err != nil {
		return nil, fmt.Errorf("snapshotting page: %w", err)
	}

	doc, err := snapshot.Decode([]byte(res.Value.Str()))
	if err != nil {
		return nil, err
	}
	if base != nil {
		doc.URL = base
	}
	return doc, nil
}
