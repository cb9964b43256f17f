package content

import (
	"fmt"
	nurl "net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// Ensure Distiller implements distill.Distiller at compile time.
var _ distill.Distiller = (*Distiller)(nil)

// Distiller runs the content selection pipeline: the fast-path locator, then
// collection, expansion and sanitization of the relevant nodes.
type Distiller struct {
	// Fallback scores the whole document when the locator finds no article
	// root. When nil, the relevant nodes of the whole body are used.
	Fallback distill.Extractor

	// Policy, when set, is applied to the rendered content HTML.
	Policy distill.Policy

	// Metadata, when set, reads descriptive page metadata.
	Metadata distill.MetadataReader
}

// Distill returns the readable content of doc.
func (d *Distiller) Distill(doc *distill.Document) (*distill.Distillation, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	oracle := NewOracle(doc.Layout)
	result := &distill.Distillation{Title: doc.Title}
	if doc.URL != nil {
		result.URL = doc.URL.String()
	}

	article, strategy := Locate(doc.Root, oracle)
	if article != nil {
		result.Content = CloneAndProcessTree(article, oracle, doc.URL)
		result.Strategy = strategy
	}

	// A located root can still yield nothing once invisible nodes are gone.
	if result.Content == nil {
		if d.Fallback != nil {
			if err := d.extractFallback(doc, result); err != nil {
				return nil, err
			}
		} else {
			result.Content = CloneAndProcessTree(documentBody(doc.Root), oracle, doc.URL)
			result.Strategy = distill.StrategyDocument
		}
	}

	if result.Content != nil {
		result.ContentHTML = dom.OuterHTML(result.Content)
	}
	if d.Policy != nil {
		result.ContentHTML = d.Policy.Sanitize(result.ContentHTML)
	}
	if strings.TrimSpace(result.ContentHTML) == "" {
		return nil, distill.Errorf(distill.ENOTFOUND, "no readable content found")
	}

	measured := result.Content
	if measured == nil {
		node, err := html.Parse(strings.NewReader(result.ContentHTML))
		if err != nil {
			return nil, fmt.Errorf("parsing fallback content: %w", err)
		}
		measured = node
	}

	// The output is a detached clone, so its text is measured without layout.
	text := InnerText(measured, NewOracle(nil))
	counter := SelectWordCounter(text)
	result.WordCount = CountWords(text, counter)
	result.LinkDensity = LinkDensity(measured, counter)
	result.ContentHash = fmt.Sprintf("%016x", xxhash.Sum64String(result.ContentHTML))
	result.Language = DetectLanguage(text)
	if result.Language == "" {
		result.Language = declaredLanguage(doc.Root)
	}
	result.Images = ContentImages(measured, doc.URL)
	if d.Metadata != nil {
		result.Metadata = d.Metadata.ReadMetadata(doc)
	}

	return result, nil
}

// ContentImages returns the img sources under root in document order
// followed by the srcset candidates, resolved against baseURL and
// deduplicated. Images whose host shares the
// root domain of baseURL are marked as same-site.
func ContentImages(root *html.Node, baseURL *nurl.URL) []distill.Image {
	site := ""
	if baseURL != nil {
		site = strings.TrimPrefix(strings.ToLower(baseURL.Hostname()), "www.")
	}

	var images []distill.Image
	seen := make(map[string]bool)
	add := func(raw string) {
		u := AbsoluteURL(strings.TrimSpace(raw), baseURL)
		if u == "" || seen[u] || strings.HasPrefix(strings.ToLower(u), "data:") {
			return
		}
		seen[u] = true
		images = append(images, distill.Image{URL: u, SameSite: HasRootDomain(u, site)})
	}

	eachElement(root, func(el *html.Node) {
		if dom.TagName(el) == "img" {
			add(dom.GetAttribute(el, "src"))
		}
	})
	for _, u := range AllSrcSetURLs(root) {
		add(u)
	}
	return images
}

// declaredLanguage returns the primary subtag of the lang attribute of the
// html element, lowercased.
func declaredLanguage(root *html.Node) string {
	el := dom.QuerySelector(root, "html[lang]")
	if el == nil {
		return ""
	}
	lang := strings.TrimSpace(dom.GetAttribute(el, "lang"))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}

func (d *Distiller) extractFallback(doc *distill.Document, result *distill.Distillation) error {
	extracted, err := d.Fallback.Extract(dom.OuterHTML(doc.Root), doc.URL)
	if err != nil {
		return fmt.Errorf("fallback extraction: %w", err)
	}

	result.ContentHTML = extracted.ContentHTML
	result.Strategy = distill.StrategyFallback
	if result.Title == "" {
		result.Title = extracted.Title
	}
	return nil
}

// documentBody returns the body element of root, or the first element that
// can stand in for it.
func documentBody(root *html.Node) *html.Node {
	if root.Type == html.ElementNode {
		return root
	}
	if body := dom.QuerySelector(root, "body"); body != nil {
		return body
	}
	if el := dom.FirstElementChild(root); el != nil {
		return el
	}
	return root
}
