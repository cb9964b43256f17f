// Package trafilatura adapts go-trafilatura as a distillation fallback.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/go-shiori/dom"
	"github.com/markusmobius/go-trafilatura"
)

var _ distill.Extractor = (*Extractor)(nil)

// Extractor scores the whole document with go-trafilatura, falling back to
// its bundled readability and dom-distiller ports when its own heuristics
// find too little.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
			IncludeImages:   true,
			IncludeLinks:    true,
		},
	}
}

// Extract returns the main content of rawHTML.
func (e *Extractor) Extract(rawHTML string, pageURL *url.URL) (*distill.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	opts := e.opts
	opts.OriginalURL = pageURL

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, distill.Errorf(distill.ENOTFOUND, "trafilatura: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML = dom.InnerHTML(result.ContentNode)
	}

	return &distill.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}
