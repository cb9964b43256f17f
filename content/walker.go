package content

import (
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// BoilerplateTags are element names that never carry readable content.
var BoilerplateTags = []string{"script", "style", "noscript", "template"}

// TreeVisitor receives callbacks during a Walk.
type TreeVisitor interface {
	// Visit is called pre-order for every node that is not skipped.
	// Returning false prunes the node's subtree.
	Visit(n *html.Node) bool

	// Exit is called post-order for nodes whose Visit returned true,
	// after all of their descendants have been processed.
	Exit(n *html.Node)

	// Skip is called instead of Visit for elements excluded by tag name.
	Skip(el *html.Node)
}

// VisitorFuncs adapts plain functions to a TreeVisitor. Nil fields are no-ops,
// and a nil VisitFn descends into every node.
type VisitorFuncs struct {
	VisitFn func(n *html.Node) bool
	ExitFn  func(n *html.Node)
	SkipFn  func(el *html.Node)
}

func (v VisitorFuncs) Visit(n *html.Node) bool {
	if v.VisitFn == nil {
		return true
	}
	return v.VisitFn(n)
}

func (v VisitorFuncs) Exit(n *html.Node) {
	if v.ExitFn != nil {
		v.ExitFn(n)
	}
}

func (v VisitorFuncs) Skip(el *html.Node) {
	if v.SkipFn != nil {
		v.SkipFn(el)
	}
}

// Walker performs depth-first, document-order traversal of a node tree.
// A Walker holds no state between walks but must not be used concurrently
// over trees that are being mutated.
type Walker struct {
	skipTags map[string]struct{}
}

// NewWalker returns a Walker that reports elements with the given tag names
// to TreeVisitor.Skip instead of visiting them.
func NewWalker(skipTags ...string) *Walker {
	w := &Walker{skipTags: make(map[string]struct{}, len(skipTags))}
	for _, tag := range skipTags {
		w.skipTags[tag] = struct{}{}
	}
	return w
}

// Walk traverses the tree rooted at root.
func (w *Walker) Walk(root *html.Node, v TreeVisitor) {
	if root == nil {
		return
	}

	if root.Type == html.ElementNode {
		if _, skip := w.skipTags[dom.TagName(root)]; skip {
			v.Skip(root)
			return
		}
	}

	if !v.Visit(root) {
		return
	}

	for child := root.FirstChild; child != nil; child = child.NextSibling {
		w.Walk(child, v)
	}

	v.Exit(root)
}

// Walk traverses the tree rooted at root without skipping any tags.
func Walk(root *html.Node, v TreeVisitor) {
	NewWalker().Walk(root, v)
}
