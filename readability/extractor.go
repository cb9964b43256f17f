// Package readability adapts go-readability as a distillation fallback.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/go-shiori/go-readability"
)

var _ distill.Extractor = (*Extractor)(nil)

// Extractor scores the whole document with go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readability article for rawHTML. Relative links are
// resolved against pageURL when it is set.
func (e *Extractor) Extract(rawHTML string, pageURL *url.URL) (*distill.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, distill.Errorf(distill.ENOTFOUND, "readability: %v", err)
	}

	return &distill.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
