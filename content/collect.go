package content

import "golang.org/x/net/html"

// collector gathers the relevant nodes of a subtree in document order.
type collector struct {
	oracle *Oracle
	nodes  []*html.Node
}

func (c *collector) Visit(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		c.nodes = append(c.nodes, n)
		return false
	case html.ElementNode:
		// An invisible element hides its whole subtree, even descendants
		// that would pass a narrower visibility test on their own.
		if !c.oracle.IsVisible(n) {
			return false
		}
		c.nodes = append(c.nodes, n)
		return true
	default:
		// Nested documents are opaque; comments and doctypes carry nothing.
		return false
	}
}

func (c *collector) Exit(*html.Node) {}

func (c *collector) Skip(*html.Node) {}

// Collect returns the text and visible element nodes under root in document
// order. Text nodes are leaves. Invisible elements are pruned together with
// their descendants.
func Collect(root *html.Node, oracle *Oracle) []*html.Node {
	c := &collector{oracle: oracle}
	Walk(root, c)
	return c.nodes
}
