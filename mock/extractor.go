package mock

import (
	"net/url"

	"github.com/fwojciec/distill"
)

var _ distill.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of distill.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL *url.URL) (*distill.ExtractResult, error)
}

func (e *Extractor) Extract(html string, pageURL *url.URL) (*distill.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}
