package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure Parser implements distill.Parser at compile time.
var _ distill.Parser = (*Parser)(nil)

// Parser parses HTML into documents and reads their title metadata.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses html into a Document without layout. The document URL is
// baseURL, overridden by a <base href> element when the page declares one.
func (p *Parser) Parse(html string, baseURL string) (*distill.Document, error) {
	if strings.TrimSpace(html) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, distill.Errorf(distill.EINVALID, "invalid base URL: %v", err)
		}
		base = u
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to parse HTML: %v", err)
	}

	return &distill.Document{
		URL:   documentBase(doc, base),
		Title: Title(doc.Selection),
		Root:  doc.Nodes[0],
	}, nil
}

// Title returns the page title from Open Graph metadata, the <title>
// element or the first <h1>, in that order of preference.
func Title(sel *goquery.Selection) string {
	if title, ok := sel.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title := normalizeSpace(sel.Find("title").First().Text()); title != "" {
		return title
	}
	return normalizeSpace(sel.Find("h1").First().Text())
}

// documentBase resolves the page's <base href> against base.
func documentBase(doc *goquery.Document, base *url.URL) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return base
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return base
	}
	if base == nil {
		if ref.IsAbs() {
			return ref
		}
		return nil
	}
	return base.ResolveReference(ref)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
