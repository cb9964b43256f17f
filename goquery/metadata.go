package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure Parser implements distill.MetadataReader at compile time.
var _ distill.MetadataReader = (*Parser)(nil)

// Attributes holding the value of an itemprop for these tags. Other tags
// use their text.
var itempropAttributes = map[string]string{
	"meta":   "content",
	"time":   "datetime",
	"a":      "href",
	"link":   "href",
	"area":   "href",
	"img":    "src",
	"audio":  "src",
	"video":  "src",
	"source": "src",
	"embed":  "src",
	"iframe": "src",
	"object": "data",
}

// ReadMetadata reads descriptive metadata from doc. Open Graph properties
// win over schema.org microdata, which wins over plain meta tags.
func (p *Parser) ReadMetadata(doc *distill.Document) distill.Metadata {
	if doc == nil || doc.Root == nil {
		return distill.Metadata{}
	}
	sel := goquery.NewDocumentFromNode(doc.Root).Selection

	return distill.Metadata{
		Description: firstNonEmpty(
			metaProperty(sel, "og:description"),
			itemprop(sel, "description"),
			metaName(sel, "description"),
		),
		Author: firstNonEmpty(
			metaProperty(sel, "article:author"),
			itempropName(sel, "author"),
			relAuthor(sel),
			metaName(sel, "author"),
		),
		Publisher: firstNonEmpty(
			metaProperty(sel, "article:publisher"),
			metaProperty(sel, "og:site_name"),
			itempropName(sel, "publisher"),
		),
		Published: firstNonEmpty(
			metaProperty(sel, "article:published_time"),
			itemprop(sel, "datePublished"),
		),
		Modified: firstNonEmpty(
			metaProperty(sel, "article:modified_time"),
			itemprop(sel, "dateModified"),
		),
		Images: metadataImages(sel, doc.URL),
	}
}

func metaProperty(sel *goquery.Selection, property string) string {
	content, _ := sel.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return normalizeSpace(content)
}

func metaName(sel *goquery.Selection, name string) string {
	content, _ := sel.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return normalizeSpace(content)
}

// itemprop returns the value of the first element declaring prop.
func itemprop(sel *goquery.Selection, prop string) string {
	return itempropValue(sel.Find(`[itemprop~="` + prop + `"]`).First())
}

// itempropName is like itemprop but reads the nested name property when the
// value is an embedded item, such as a Person author.
func itempropName(sel *goquery.Selection, prop string) string {
	el := sel.Find(`[itemprop~="` + prop + `"]`).First()
	if el.Length() == 0 {
		return ""
	}
	if _, scoped := el.Attr("itemscope"); scoped {
		return itempropValue(el.Find(`[itemprop~="name"]`).First())
	}
	return itempropValue(el)
}

func itempropValue(el *goquery.Selection) string {
	if el.Length() == 0 {
		return ""
	}
	if attr, ok := itempropAttributes[goquery.NodeName(el)]; ok {
		if value := normalizeSpace(el.AttrOr(attr, "")); value != "" {
			return value
		}
	}
	return normalizeSpace(el.Text())
}

func relAuthor(sel *goquery.Selection) string {
	return normalizeSpace(sel.Find(`a[rel="author"], link[rel="author"]`).First().Text())
}

// metadataImages collects og:image and itemprop image URLs, resolved against
// base and deduplicated.
func metadataImages(sel *goquery.Selection, base *url.URL) []string {
	var images []string
	seen := make(map[string]bool)
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		if ref, err := url.Parse(raw); err == nil && base != nil {
			raw = base.ResolveReference(ref).String()
		}
		if !seen[raw] {
			seen[raw] = true
			images = append(images, raw)
		}
	}

	sel.Find(`meta[property="og:image"], meta[property="og:image:url"]`).Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("content", ""))
	})
	sel.Find(`[itemprop~="image"]`).Each(func(_ int, s *goquery.Selection) {
		if _, scoped := s.Attr("itemscope"); scoped {
			add(itempropValue(s.Find(`[itemprop~="url"], [itemprop~="contentUrl"]`).First()))
			return
		}
		add(itempropValue(s))
	})
	return images
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
