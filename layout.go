package distill

import "golang.org/x/net/html"

// Style holds the subset of an element's computed style that content
// selection depends on.
type Style struct {
	Display    string
	Visibility string
	Position   string
	Direction  string
	Opacity    float64
}

// Box describes an element's rendered offset box.
type Box struct {
	// HasOffsetParent reports whether the element has a non-null offsetParent.
	// It is false for elements inside a display:none subtree and for
	// fixed-position elements.
	HasOffsetParent bool

	// Width and Height are the rendered offsetWidth and offsetHeight.
	Width  int
	Height int
}

// Area returns the rendered area of the box.
func (b Box) Area() int {
	return b.Width * b.Height
}

// Layout answers computed style and layout box queries for nodes of a host
// document. Implementations must not cache verdicts across calls in a way
// that would hide a re-render of the document.
type Layout interface {
	// ComputedStyle returns the computed style of an element.
	// Returns ENOLAYOUT if the host cannot provide style information.
	ComputedStyle(n *html.Node) (Style, error)

	// Box returns the rendered offset box of an element.
	// Returns ENOLAYOUT if the host cannot provide layout information.
	Box(n *html.Node) (Box, error)
}
