package content

import (
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// Expand clones the minimal connected subtree that contains all of nodes.
//
// The clone is rooted at the nearest common ancestor of nodes and keeps only
// the descendants that are either in nodes or on a path to one of them, in
// their original sibling order. Children of the listed nodes are dropped
// unless they are listed too. Because the ancestors above the clone root are
// lost, the root carries the text direction in effect in the source, and any
// retained descendant whose direction differs from its parent gets an
// explicit dir attribute.
//
// Expand returns nil for an empty list or when the nodes share no ancestor.
// The source tree is never modified.
func Expand(nodes []*html.Node, oracle *Oracle) *html.Node {
	ancestors, root := Ancestors(nodes...)
	if root == nil {
		return nil
	}

	var clone func(src *html.Node, parentDir string) *html.Node
	clone = func(src *html.Node, parentDir string) *html.Node {
		dst := shallowClone(src)

		dir := parentDir
		if src.Type == html.ElementNode {
			if d := oracle.Direction(src); d != "" {
				dir = d
			}
			if dir != "" && dir != parentDir {
				dom.SetAttribute(dst, "dir", dir)
			}
		}

		for child := src.FirstChild; child != nil; child = child.NextSibling {
			if _, onPath := ancestors[child]; onPath {
				dst.AppendChild(clone(child, dir))
			}
		}
		return dst
	}

	return clone(root, "")
}

// shallowClone copies n without its children or tree links.
func shallowClone(n *html.Node) *html.Node {
	return &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
}
