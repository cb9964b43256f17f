package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var (
	_ distill.Parser         = (*Parser)(nil)
	_ distill.Renderer       = (*Renderer)(nil)
	_ distill.Distiller      = (*Distiller)(nil)
	_ distill.MetadataReader = (*MetadataReader)(nil)
)

// Parser is a mock implementation of distill.Parser.
type Parser struct {
	ParseFn func(html string, baseURL string) (*distill.Document, error)
}

func (p *Parser) Parse(html string, baseURL string) (*distill.Document, error) {
	return p.ParseFn(html, baseURL)
}

// Renderer is a mock implementation of distill.Renderer.
type Renderer struct {
	RenderFn     func(ctx context.Context, url string) (*distill.Document, error)
	RenderHTMLFn func(ctx context.Context, html string, baseURL string) (*distill.Document, error)
	CloseFn      func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (*distill.Document, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) RenderHTML(ctx context.Context, html string, baseURL string) (*distill.Document, error) {
	return r.RenderHTMLFn(ctx, html, baseURL)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

// Distiller is a mock implementation of distill.Distiller.
type Distiller struct {
	DistillFn func(doc *distill.Document) (*distill.Distillation, error)
}

func (d *Distiller) Distill(doc *distill.Document) (*distill.Distillation, error) {
	return d.DistillFn(doc)
}

// MetadataReader is a mock implementation of distill.MetadataReader.
type MetadataReader struct {
	ReadMetadataFn func(doc *distill.Document) distill.Metadata
}

func (r *MetadataReader) ReadMetadata(doc *distill.Document) distill.Metadata {
	return r.ReadMetadataFn(doc)
}
