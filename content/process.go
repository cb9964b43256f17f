package content

import (
	nurl "net/url"

	"golang.org/x/net/html"
)

// CloneAndProcessList expands the relevant nodes into a minimal cloned
// subtree and sanitizes it. It returns nil when nodes is empty, when the
// nodes share no ancestor, or when the subtree root is not an element.
func CloneAndProcessList(nodes []*html.Node, oracle *Oracle, baseURL *nurl.URL) *html.Node {
	if len(nodes) == 0 {
		return nil
	}

	clone := Expand(nodes, oracle)
	if clone == nil || clone.Type != html.ElementNode {
		return nil
	}

	Sanitize(clone, baseURL)
	return clone
}

// CloneAndProcessTree collects the relevant nodes under root and returns
// their sanitized minimal subtree. Hidden elements are left out.
func CloneAndProcessTree(root *html.Node, oracle *Oracle, baseURL *nurl.URL) *html.Node {
	return CloneAndProcessList(Collect(root, oracle), oracle, baseURL)
}
