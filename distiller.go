package distill

import "golang.org/x/net/html"

// Strategy identifies how the content root of a document was found.
type Strategy string

// Strategy constants for Distillation.
const (
	StrategyNone      Strategy = ""
	StrategyArticle   Strategy = "article"
	StrategyMicrodata Strategy = "microdata"
	StrategyDocument  Strategy = "document"
	StrategyFallback  Strategy = "fallback"
)

// Distillation is the readable content of a single document.
type Distillation struct {
	URL   string
	Title string

	// Content is the sanitized output subtree. It is nil when the content
	// came from a fallback extractor.
	Content *html.Node

	// ContentHTML is Content rendered as HTML.
	ContentHTML string

	Strategy    Strategy
	WordCount   int
	LinkDensity float64
	ContentHash string

	// Language is the ISO 639-1 code of the content, or empty if unknown.
	Language string

	// Images lists the images referenced by the content in document order.
	Images []Image

	Metadata Metadata
}

// Image is an image referenced by distilled content.
type Image struct {
	URL string

	// SameSite reports whether the image is served from the page's own
	// root domain.
	SameSite bool
}

// Metadata is descriptive page metadata declared by the page itself.
type Metadata struct {
	Description string
	Author      string
	Publisher   string
	Published   string
	Modified    string

	// Images are the absolute URLs of images the page declares for itself,
	// such as og:image.
	Images []string
}

// MetadataReader reads descriptive metadata from documents.
type MetadataReader interface {
	ReadMetadata(doc *Document) Metadata
}

// Distiller extracts readable content from rendered documents.
type Distiller interface {
	// Distill returns the readable content of doc.
	// Returns ENOTFOUND if no content could be extracted.
	Distill(doc *Document) (*Distillation, error)
}
