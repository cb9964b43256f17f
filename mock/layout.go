package mock

import (
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

var _ distill.Layout = (*Layout)(nil)

// Layout is a mock implementation of distill.Layout.
type Layout struct {
	ComputedStyleFn func(el *html.Node) (distill.Style, error)
	BoxFn           func(el *html.Node) (distill.Box, error)
}

func (l *Layout) ComputedStyle(el *html.Node) (distill.Style, error) {
	return l.ComputedStyleFn(el)
}

func (l *Layout) Box(el *html.Node) (distill.Box, error) {
	return l.BoxFn(el)
}
