package content

import (
	"github.com/fwojciec/distill"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// microdataArticleSelector matches schema.org Article and Posting items and
// their subtypes (NewsArticle, BlogPosting, ...). Attribute substring
// matching is case sensitive, and "Article" is the schema.org capitalization.
const microdataArticleSelector = `[itemscope][itemtype*="Article"],[itemscope][itemtype*="Posting"]`

// Locate tries to find the root element of the main article without scoring
// the document.
//
// The native strategy succeeds when exactly one visible <article> element
// with a non-zero area exists; several of them are an ambiguous signal. The
// microdata strategy returns the nearest common ancestor of all visible
// schema.org Article and Posting items, which collapses nested items to the
// outermost one.
//
// Locate returns nil and StrategyNone when neither strategy applies, in which
// case the caller must fall back to full-document scoring.
func Locate(root *html.Node, oracle *Oracle) (*html.Node, distill.Strategy) {
	if root == nil {
		return nil, distill.StrategyNone
	}

	articles := oracle.VisibleElements(dom.GetElementsByTagName(root, "article"))
	if len(articles) == 1 {
		return articles[0], distill.StrategyArticle
	}

	items := oracle.VisibleElements(dom.QuerySelectorAll(root, microdataArticleSelector))
	if len(items) > 0 {
		if ancestor := NearestCommonAncestor(items...); ancestor != nil && ancestor.Type == html.ElementNode {
			return ancestor, distill.StrategyMicrodata
		}
	}

	return nil, distill.StrategyNone
}
