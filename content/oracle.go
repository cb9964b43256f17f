package content

import (
	"github.com/fwojciec/distill"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// Oracle answers visibility and geometry questions about nodes using the
// host document's layout. It never caches; every call queries the layout.
//
// When the layout is missing or reports an error, visibility checks fail
// open and return true.
type Oracle struct {
	layout distill.Layout
}

// NewOracle returns an Oracle backed by layout. A nil layout is allowed.
func NewOracle(layout distill.Layout) *Oracle {
	return &Oracle{layout: layout}
}

// IsVisible reports whether the computed style of n leaves it visible,
// i.e. display is not none, visibility is not hidden and opacity is not 0.
func (o *Oracle) IsVisible(n *html.Node) bool {
	style, ok := o.style(n)
	if !ok {
		return true
	}
	return !(style.Display == "none" ||
		style.Visibility == "hidden" ||
		style.Opacity == 0)
}

// IsVisibleByOffset reports whether n has an offset parent or a non-zero
// rendered size. The offset parent alone is not enough since it is null for
// fixed-position elements.
func (o *Oracle) IsVisibleByOffset(n *html.Node) bool {
	box, ok := o.box(n)
	if !ok {
		return true
	}
	return box.HasOffsetParent || box.Width != 0 || box.Height != 0
}

// Area returns the rendered width times height of n, or 0 when n is not
// rendered or no layout is available.
func (o *Oracle) Area(n *html.Node) int {
	if !o.IsVisible(n) {
		return 0
	}
	box, ok := o.box(n)
	if !ok {
		return 0
	}
	return box.Area()
}

// hasArea is the area check used for filtering. Unlike Area it fails open.
func (o *Oracle) hasArea(n *html.Node) bool {
	box, ok := o.box(n)
	if !ok {
		return true
	}
	return box.Area() > 0
}

// VisibleElements returns the elements of nodes that are visible, visible by
// offset and occupy a non-zero area, in their original order.
func (o *Oracle) VisibleElements(nodes []*html.Node) []*html.Node {
	var visible []*html.Node
	for _, n := range nodes {
		if o.IsVisible(n) && o.IsVisibleByOffset(n) && o.hasArea(n) {
			visible = append(visible, n)
		}
	}
	return visible
}

// Direction returns the text direction in effect for n. The computed style is
// preferred; without it the nearest dir attribute on n or its ancestors is
// used. Returns an empty string when nothing is known.
func (o *Oracle) Direction(n *html.Node) string {
	if style, ok := o.style(n); ok && style.Direction != "" {
		return style.Direction
	}
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if dir := dom.GetAttribute(p, "dir"); dir != "" {
			return dir
		}
	}
	return ""
}

func (o *Oracle) style(n *html.Node) (distill.Style, bool) {
	if o == nil || o.layout == nil || n == nil || n.Type != html.ElementNode {
		return distill.Style{}, false
	}
	style, err := o.layout.ComputedStyle(n)
	if err != nil {
		return distill.Style{}, false
	}
	return style, true
}

func (o *Oracle) box(n *html.Node) (distill.Box, bool) {
	if o == nil || o.layout == nil || n == nil || n.Type != html.ElementNode {
		return distill.Box{}, false
	}
	box, err := o.layout.Box(n)
	if err != nil {
		return distill.Box{}, false
	}
	return box, true
}
