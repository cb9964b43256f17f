// Package chromedp renders pages in headless Chrome driven by chromedp and
// snapshots their layout for distillation.
package chromedp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/snapshot"
)

// DefaultRenderTimeout is the default time allowed for loading and
// snapshotting one page.
const DefaultRenderTimeout = 10 * time.Second

var _ distill.Renderer = (*Renderer)(nil)

// Renderer owns one Chrome process and opens a tab per render.
type Renderer struct {
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	timeout       time.Duration
	width         int
	height        int
	flags         []chromedp.ExecAllocatorOption
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout sets the per-page render timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithViewport sets the browser window size. Defaults to 1024x768.
func WithViewport(width, height int) Option {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

// WithExecPath points chromedp at a specific Chrome binary.
func WithExecPath(path string) Option {
	return func(r *Renderer) {
		r.flags = append(r.flags, chromedp.ExecPath(path))
	}
}

// WithNoSandbox disables the Chrome sandbox, which is required when running
// as root inside most containers.
func WithNoSandbox() Option {
	return func(r *Renderer) {
		r.flags = append(r.flags, chromedp.NoSandbox)
	}
}

// NewRenderer starts a headless browser. Close must be called to stop it.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		timeout: DefaultRenderTimeout,
		width:   1024,
		height:  768,
	}
	for _, opt := range opts {
		opt(r)
	}

	flags := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(r.width, r.height),
	)
	flags = append(flags, r.flags...)

	r.allocCtx, r.cancelAlloc = chromedp.NewExecAllocator(context.Background(), flags...)
	r.browserCtx, r.cancelBrowser = chromedp.NewContext(r.allocCtx)

	// The first Run on a fresh context starts the browser.
	if err := chromedp.Run(r.browserCtx); err != nil {
		r.cancelBrowser()
		r.cancelAlloc()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	return r, nil
}

// Render navigates to url, waits for the body and snapshots the page.
func (r *Renderer) Render(ctx context.Context, url string) (*distill.Document, error) {
	return r.render(ctx, "", chromedp.Navigate(url), chromedp.WaitReady("body"))
}

// RenderHTML replaces a blank tab's document with html and snapshots it.
// The returned document's URL is baseURL.
func (r *Renderer) RenderHTML(ctx context.Context, html string, baseURL string) (*distill.Document, error) {
	return r.render(ctx, baseURL,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	)
}

// Close stops the browser.
func (r *Renderer) Close() error {
	r.cancelBrowser()
	r.cancelAlloc()
	return nil
}

func (r *Renderer) render(ctx context.Context, baseURL string, load ...chromedp.Action) (*distill.Document, error) {
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

	tabCtx, cancel := chromedp.NewContext(r.browserCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()

	// Cancel the tab, not the browser, when the caller's context ends.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var out string
	tasks := append(chromedp.Tasks{}, load...)
	tasks = append(tasks, chromedp.Evaluate("("+snapshot.Script+")()", &out))
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rendering page: %w", err)
	}

	doc, err := snapshot.Decode([]byte(out))
	if err != nil {
		return nil, err
	}
	if base != nil {
		doc.URL = base
	}
	return doc, nil
}
