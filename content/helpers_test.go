package content_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/content"
	"github.com/fwojciec/distill/douceur"
	"github.com/fwojciec/distill/mock"
	"github.com/go-shiori/dom"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func byID(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()
	n := dom.QuerySelector(root, "#"+id)
	require.NotNil(t, n, "no element with id %q", id)
	return n
}

func body(t *testing.T, root *html.Node) *html.Node {
	t.Helper()
	n := dom.QuerySelector(root, "body")
	require.NotNil(t, n)
	return n
}

// staticOracle lays root out with the static CSS layout.
func staticOracle(root *html.Node) *content.Oracle {
	return content.NewOracle(douceur.NewLayout(root))
}

var (
	visibleStyle = distill.Style{Display: "block", Visibility: "visible", Opacity: 1}
	visibleBox   = distill.Box{HasOffsetParent: true, Width: 100, Height: 10}
)

// layoutByID returns a layout that answers from the given maps, keyed by
// element id, and reports a visible 100x10 block for everything else.
func layoutByID(styles map[string]distill.Style, boxes map[string]distill.Box) *mock.Layout {
	return &mock.Layout{
		ComputedStyleFn: func(el *html.Node) (distill.Style, error) {
			if s, ok := styles[dom.GetAttribute(el, "id")]; ok {
				return s, nil
			}
			return visibleStyle, nil
		},
		BoxFn: func(el *html.Node) (distill.Box, error) {
			if b, ok := boxes[dom.GetAttribute(el, "id")]; ok {
				return b, nil
			}
			return visibleBox, nil
		},
	}
}

func ids(nodes []*html.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, dom.GetAttribute(n, "id"))
	}
	return out
}
