package distill

import "net/url"

// ExtractResult holds the content extracted by a full-document scorer.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	ContentHTML string
}

// Extractor scores a whole document to find its main content. It is the
// fallback used when the fast-path locator finds no article root.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// pageURL is used to resolve relative links and may be nil.
	Extract(html string, pageURL *url.URL) (*ExtractResult, error)
}
