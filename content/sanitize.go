package content

import (
	nurl "net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

var rxSrcsetURL = regexp.MustCompile(`(?i)(\S+)(\s+[\d.]+[xw])?(\s*(?:,|$))`)

// allowedAttributes is the final allow-list applied to output elements.
// Presentation attributes handled by earlier passes are absent.
var allowedAttributes = map[string]struct{}{
	"abbr": {}, "align": {}, "allowfullscreen": {}, "alt": {}, "axis": {},
	"border": {}, "cellpadding": {}, "cellspacing": {}, "char": {},
	"charoff": {}, "cite": {}, "class": {}, "clear": {}, "cols": {},
	"colspan": {}, "compact": {}, "controls": {}, "coords": {},
	"datetime": {}, "dir": {}, "frame": {}, "frameborder": {}, "headers": {},
	"height": {}, "href": {}, "hreflang": {}, "hspace": {}, "itemid": {},
	"itemprop": {}, "itemref": {}, "itemscope": {}, "itemtype": {},
	"kind": {}, "label": {}, "lang": {}, "loop": {}, "media": {},
	"muted": {}, "name": {}, "nowrap": {}, "open": {}, "poster": {},
	"preload": {}, "rel": {}, "rev": {}, "reversed": {}, "rows": {},
	"rowspan": {}, "rules": {}, "scope": {}, "shape": {}, "size": {},
	"sizes": {}, "span": {}, "src": {}, "srclang": {}, "srcset": {},
	"start": {}, "summary": {}, "title": {}, "type": {}, "valign": {},
	"value": {}, "vspace": {}, "width": {},
}

// imageAttributes are the only attributes an output image keeps.
var imageAttributes = map[string]struct{}{
	"src": {}, "alt": {}, "srcset": {}, "dir": {}, "width": {}, "height": {}, "title": {},
}

// Sanitize prepares a cloned output subtree for external rendering. It must
// only be called on a fresh clone, never on the live document.
func Sanitize(root *html.Node, baseURL *nurl.URL) {
	StripIDs(root)
	MakeAllLinksAbsolute(root, baseURL)
	StripTargetAttributes(root)
	StripFontColorAttributes(root)
	StripTableBackgroundColorAttributes(root)
	StripStyleAttributes(root)
	StripImageElements(root)
	StripAllUnsafeAttributes(root)
}

// StripIDs removes every id attribute in the tree rooted at root.
func StripIDs(root *html.Node) {
	StripAttributeFromTags(root, "id")
}

// StripTargetAttributes removes every target attribute in the tree.
func StripTargetAttributes(root *html.Node) {
	StripAttributeFromTags(root, "target")
}

// StripFontColorAttributes removes color from font elements.
func StripFontColorAttributes(root *html.Node) {
	StripAttributeFromTags(root, "color", "font")
}

// StripTableBackgroundColorAttributes removes bgcolor from table elements.
func StripTableBackgroundColorAttributes(root *html.Node) {
	StripAttributeFromTags(root, "bgcolor", "table", "tr", "td", "th")
}

// StripStyleAttributes removes every inline style attribute in the tree.
func StripStyleAttributes(root *html.Node) {
	StripAttributeFromTags(root, "style")
}

// StripAttributeFromTags removes attr from the elements of the tree rooted at
// root (root included) whose tag is one of tagNames. With no tag names the
// attribute is removed from every element.
func StripAttributeFromTags(root *html.Node, attr string, tagNames ...string) {
	tags := make(map[string]struct{}, len(tagNames))
	for _, tag := range tagNames {
		tags[tag] = struct{}{}
	}

	eachElement(root, func(el *html.Node) {
		if len(tags) > 0 {
			if _, ok := tags[dom.TagName(el)]; !ok {
				return
			}
		}
		dom.RemoveAttribute(el, attr)
	})
}

// StripImageElements reduces every img element to its safe attributes.
func StripImageElements(root *html.Node) {
	eachElement(root, func(el *html.Node) {
		if dom.TagName(el) == "img" {
			keepAttributes(el, imageAttributes)
		}
	})
}

// StripAllUnsafeAttributes removes every attribute outside the allow-list.
func StripAllUnsafeAttributes(root *html.Node) {
	eachElement(root, func(el *html.Node) {
		keepAttributes(el, allowedAttributes)
	})
}

// MakeAllLinksAbsolute resolves anchor hrefs, video posters, media src
// attributes and srcset candidates against baseURL.
func MakeAllLinksAbsolute(root *html.Node, baseURL *nurl.URL) {
	eachElement(root, func(el *html.Node) {
		switch dom.TagName(el) {
		case "a":
			absolutizeAttribute(el, "href", baseURL)
		case "video":
			absolutizeAttribute(el, "poster", baseURL)
			absolutizeAttribute(el, "src", baseURL)
		case "img", "source", "track", "audio", "iframe", "embed":
			absolutizeAttribute(el, "src", baseURL)
		}

		if dom.HasAttribute(el, "srcset") {
			makeSrcSetAbsolute(el, baseURL)
		}
	})
}

// AbsoluteURL resolves rawURL against base. Fragments, data URIs,
// javascript URIs and already absolute URLs are returned unchanged, as is
// everything when base is nil or rawURL cannot be parsed.
func AbsoluteURL(rawURL string, base *nurl.URL) string {
	if rawURL == "" || base == nil {
		return rawURL
	}

	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(rawURL, "#") ||
		strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(lower, "javascript:") {
		return rawURL
	}

	if u, err := nurl.ParseRequestURI(rawURL); err == nil && u.Scheme != "" && u.Hostname() != "" {
		return rawURL
	}

	ref, err := nurl.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	return base.ResolveReference(ref).String()
}

// SrcSetURLs returns the candidate URLs of the srcset attribute of node.
func SrcSetURLs(node *html.Node) []string {
	srcset := dom.GetAttribute(node, "srcset")
	if srcset == "" {
		return nil
	}

	matches := rxSrcsetURL.FindAllStringSubmatch(srcset, -1)
	urls := make([]string, 0, len(matches))
	for _, group := range matches {
		urls = append(urls, group[1])
	}
	return urls
}

// AllSrcSetURLs returns the srcset candidate URLs of every element in the
// tree rooted at root, root included.
func AllSrcSetURLs(root *html.Node) []string {
	var urls []string
	eachElement(root, func(el *html.Node) {
		urls = append(urls, SrcSetURLs(el)...)
	})
	return urls
}

func absolutizeAttribute(el *html.Node, attr string, baseURL *nurl.URL) {
	if value := dom.GetAttribute(el, attr); value != "" {
		dom.SetAttribute(el, attr, AbsoluteURL(value, baseURL))
	}
}

func makeSrcSetAbsolute(el *html.Node, baseURL *nurl.URL) {
	srcset := dom.GetAttribute(el, "srcset")
	if strings.TrimSpace(srcset) == "" {
		dom.RemoveAttribute(el, "srcset")
		return
	}

	srcset = rxSrcsetURL.ReplaceAllStringFunc(srcset, func(s string) string {
		p := rxSrcsetURL.FindStringSubmatch(s)
		return AbsoluteURL(p[1], baseURL) + p[2] + p[3]
	})
	dom.SetAttribute(el, "srcset", srcset)
}

func keepAttributes(el *html.Node, allowed map[string]struct{}) {
	kept := el.Attr[:0]
	for _, attr := range el.Attr {
		if _, ok := allowed[strings.ToLower(attr.Key)]; ok {
			kept = append(kept, attr)
		}
	}
	el.Attr = kept
}

// eachElement calls fn for every element in the tree rooted at root in
// document order, root included.
func eachElement(root *html.Node, fn func(el *html.Node)) {
	Walk(root, VisitorFuncs{VisitFn: func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			fn(n)
		}
		return true
	}})
}
