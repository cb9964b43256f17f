package distill

import (
	"context"
	"net/url"

	"golang.org/x/net/html"
)

// Document is a parsed host document together with the layout information
// that was available when it was rendered.
type Document struct {
	// URL is the document's base URL, used to absolutize links.
	URL *url.URL

	// Title is the page title taken from document metadata.
	Title string

	// Root is the document node of the host tree.
	Root *html.Node

	// Layout answers style and geometry queries for nodes under Root.
	// A nil Layout puts the pipeline in degraded mode where every
	// visibility check fails open.
	Layout Layout
}

// Validate returns an error if the document cannot be distilled.
func (d *Document) Validate() error {
	if d == nil || d.Root == nil {
		return Errorf(EINVALID, "document root required")
	}
	return nil
}

// Parser parses raw HTML into a Document without layout information.
type Parser interface {
	// Parse parses html and returns a Document whose URL is baseURL.
	Parse(html string, baseURL string) (*Document, error)
}

// Renderer produces Documents with layout information attached.
type Renderer interface {
	// Render loads the URL and returns the rendered document.
	// The context controls timeout and cancellation.
	Render(ctx context.Context, url string) (*Document, error)

	// RenderHTML renders raw HTML as if it had been served from baseURL.
	RenderHTML(ctx context.Context, html string, baseURL string) (*Document, error)

	// Close releases renderer resources.
	Close() error
}
