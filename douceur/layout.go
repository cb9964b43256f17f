// Package douceur provides a static layout host for documents that are not
// rendered by a browser. Computed styles come from the user agent defaults,
// <style> sheets (parsed with douceur, matched with cascadia) and style
// attributes; boxes come from an approximate block layout. It is meant for
// degraded, no-browser operation and for tests.
package douceur

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/distill"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// Layout defaults.
const (
	DefaultViewportWidth  = 1024
	DefaultViewportHeight = 768
	DefaultLineHeight     = 16
	DefaultCharWidth      = 8

	defaultFontSize = 16
)

// Ensure Layout implements distill.Layout at compile time.
var _ distill.Layout = (*Layout)(nil)

// Layout answers style and box queries from the document's own CSS.
// Stylesheets are parsed once by NewLayout; styles and boxes are computed
// on every call.
type Layout struct {
	root  *html.Node
	rules []rule

	viewportWidth  int
	viewportHeight int
	lineHeight     int
	charWidth      int
}

// Option configures a Layout.
type Option func(*Layout)

// WithViewport sets the viewport size. Defaults to 1024x768.
func WithViewport(width, height int) Option {
	return func(l *Layout) {
		l.viewportWidth = width
		l.viewportHeight = height
	}
}

// WithLineHeight sets the height of a line box. Defaults to 16px.
func WithLineHeight(px int) Option {
	return func(l *Layout) {
		l.lineHeight = px
	}
}

// WithCharWidth sets the average glyph advance used to size inline text.
// Defaults to 8px.
func WithCharWidth(px int) Option {
	return func(l *Layout) {
		l.charWidth = px
	}
}

// NewLayout returns a Layout for the tree rooted at root.
func NewLayout(root *html.Node, opts ...Option) *Layout {
	l := &Layout{
		root:           root,
		viewportWidth:  DefaultViewportWidth,
		viewportHeight: DefaultViewportHeight,
		lineHeight:     DefaultLineHeight,
		charWidth:      DefaultCharWidth,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.rules = parseStylesheets(root)
	return l
}

// ComputedStyle returns the computed style of el.
func (l *Layout) ComputedStyle(el *html.Node) (distill.Style, error) {
	if err := l.check(el); err != nil {
		return distill.Style{}, err
	}
	return l.computedStyle(el), nil
}

// Box returns the approximate offset box of el.
func (l *Layout) Box(el *html.Node) (distill.Box, error) {
	if err := l.check(el); err != nil {
		return distill.Box{}, err
	}

	for p := el; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if l.display(p) == "none" {
			return distill.Box{}, nil
		}
	}

	tag := dom.TagName(el)
	return distill.Box{
		HasOffsetParent: tag != "html" && tag != "body" && l.declared(el)["position"] != "fixed",
		Width:           l.width(el),
		Height:          l.height(el),
	}, nil
}

func (l *Layout) check(el *html.Node) error {
	if el == nil || el.Type != html.ElementNode {
		return distill.Errorf(distill.ENOLAYOUT, "layout is only available for elements")
	}
	for p := el; p != nil; p = p.Parent {
		if p == l.root {
			return nil
		}
	}
	return distill.Errorf(distill.ENOLAYOUT, "element is not part of the laid out document")
}

func (l *Layout) computedStyle(el *html.Node) distill.Style {
	values := l.declared(el)

	style := distill.Style{
		Display:    l.display(el),
		Visibility: l.visibility(el),
		Position:   "static",
		Direction:  l.direction(el),
		Opacity:    parseOpacity(values["opacity"]),
	}
	if v := values["position"]; v != "" {
		style.Position = v
	}
	return style
}

// visibility returns the inherited visibility of el.
func (l *Layout) visibility(el *html.Node) string {
	for p := el; p != nil; p = parentElement(p) {
		if v := l.declared(p)["visibility"]; v != "" && v != "inherit" {
			return v
		}
	}
	return "visible"
}

// direction returns the inherited direction of el. The direction property
// wins over the dir attribute, and dir="auto" defers to the parent.
func (l *Layout) direction(el *html.Node) string {
	for p := el; p != nil; p = parentElement(p) {
		if v := l.declared(p)["direction"]; v == "ltr" || v == "rtl" {
			return v
		}
		if dir := strings.ToLower(dom.GetAttribute(p, "dir")); dir == "ltr" || dir == "rtl" {
			return dir
		}
	}
	return "ltr"
}

// display returns the computed display of el, not accounting for ancestors.
func (l *Layout) display(el *html.Node) string {
	if v := l.declared(el)["display"]; v != "" && v != "inherit" && v != "initial" {
		return v
	}
	if dom.HasAttribute(el, "hidden") {
		return "none"
	}
	return defaultDisplay(dom.TagName(el))
}

// width returns the border-box width of a rendered element.
func (l *Layout) width(el *html.Node) int {
	values := l.declared(el)
	display := l.display(el)
	available := l.containingWidth(el)

	if isReplaced(el) {
		return l.replacedSize(el, values["width"], "width", available)
	}

	if display == "inline" {
		return min(l.textWidth(el), available)
	}

	if w, ok := parseLength(values["width"]); ok {
		return resolve(w, available)
	}

	switch display {
	case "inline-block", "inline-flex", "inline-grid", "inline-table":
		return min(l.textWidth(el), available)
	case "table-cell":
		return available / max(1, countCells(el.Parent))
	}
	return available
}

// height returns the border-box height of a rendered element.
func (l *Layout) height(el *html.Node) int {
	values := l.declared(el)
	display := l.display(el)

	if isReplaced(el) {
		return l.replacedSize(el, values["height"], "height", 0)
	}

	if display == "inline" {
		if strings.TrimSpace(dom.TextContent(el)) != "" {
			return l.lineHeight
		}
		return l.inlineReplacedHeight(el)
	}

	if h, ok := l.definiteHeight(el); ok {
		return h
	}
	return l.autoHeight(el, display)
}

// definiteHeight resolves a declared height. Percentages only resolve when
// the containing block has a definite height, and the root element resolves
// them against the viewport.
func (l *Layout) definiteHeight(el *html.Node) (int, bool) {
	h, ok := parseLength(l.declared(el)["height"])
	if !ok {
		return 0, false
	}
	if !h.percent {
		return resolve(h, 0), true
	}

	parent := parentElement(el)
	if parent == nil {
		return resolve(h, l.viewportHeight), true
	}
	parentHeight, ok := l.definiteHeight(parent)
	if !ok {
		return 0, false
	}
	return resolve(h, parentHeight), true
}

// autoHeight stacks block-level children and gives each run of inline
// content one line box.
func (l *Layout) autoHeight(el *html.Node, display string) int {
	total := 0
	inlineRun := 0
	flush := func() {
		total += inlineRun
		inlineRun = 0
	}

	for child := el.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if strings.TrimSpace(child.Data) != "" {
				inlineRun = max(inlineRun, l.lineHeight)
			}
		case html.ElementNode:
			childDisplay := l.display(child)
			if childDisplay == "none" || isOutOfFlow(l.declared(child)["position"]) {
				continue
			}
			if isInlineLevel(childDisplay) {
				inlineRun = max(inlineRun, l.height(child))
				continue
			}
			flush()
			if display == "table-row" {
				total = max(total, l.height(child))
			} else {
				total += l.height(child)
			}
		}
	}
	flush()
	return total
}

// containingWidth returns the width available to el inside its nearest
// block-level ancestor, or the viewport width for the root element.
func (l *Layout) containingWidth(el *html.Node) int {
	for p := parentElement(el); p != nil; p = parentElement(p) {
		if display := l.display(p); display != "inline" && display != "contents" {
			return l.width(p)
		}
	}
	return l.viewportWidth
}

func (l *Layout) textWidth(el *html.Node) int {
	text := strings.Join(strings.Fields(dom.TextContent(el)), " ")
	return utf8.RuneCountInString(text)*l.charWidth + l.inlineReplacedWidth(el)
}

func (l *Layout) replacedSize(el *html.Node, declared, attr string, available int) int {
	if v, ok := parseLength(declared); ok {
		return resolve(v, available)
	}
	if v, ok := parseLength(dom.GetAttribute(el, attr)); ok {
		return resolve(v, available)
	}
	return 0
}

func (l *Layout) inlineReplacedWidth(el *html.Node) int {
	width := 0
	for _, child := range dom.Children(el) {
		if isReplaced(child) && l.display(child) != "none" {
			width += l.width(child)
		}
	}
	return width
}

func (l *Layout) inlineReplacedHeight(el *html.Node) int {
	height := 0
	for _, child := range dom.Children(el) {
		if isReplaced(child) && l.display(child) != "none" {
			height = max(height, l.height(child))
		}
	}
	return height
}

func resolve(v length, base int) int {
	if v.percent {
		return int(math.Round(v.value * float64(base)))
	}
	return max(0, int(math.Round(v.value)))
}

func parentElement(el *html.Node) *html.Node {
	for p := el.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

func countCells(row *html.Node) int {
	if row == nil {
		return 0
	}
	n := 0
	for _, child := range dom.Children(row) {
		if tag := dom.TagName(child); tag == "td" || tag == "th" {
			n++
		}
	}
	return n
}

func isOutOfFlow(position string) bool {
	return position == "absolute" || position == "fixed"
}

func isInlineLevel(display string) bool {
	return strings.HasPrefix(display, "inline") || display == "contents"
}

func isReplaced(el *html.Node) bool {
	switch dom.TagName(el) {
	case "img", "video", "iframe", "canvas", "embed", "object", "svg":
		return true
	}
	return false
}

var uaDisplay = map[string]string{
	"html": "block", "body": "block", "div": "block", "p": "block",
	"article": "block", "section": "block", "aside": "block", "nav": "block",
	"header": "block", "footer": "block", "main": "block", "h1": "block",
	"h2": "block", "h3": "block", "h4": "block", "h5": "block", "h6": "block",
	"ul": "block", "ol": "block", "dl": "block", "dt": "block", "dd": "block",
	"figure": "block", "figcaption": "block", "blockquote": "block",
	"pre": "block", "form": "block", "fieldset": "block", "address": "block",
	"hr": "block", "details": "block", "summary": "block", "center": "block",
	"li": "list-item", "table": "table", "caption": "table-caption",
	"thead": "table-header-group", "tbody": "table-row-group",
	"tfoot": "table-footer-group", "tr": "table-row", "td": "table-cell",
	"th":   "table-cell",
	"head": "none", "script": "none", "style": "none", "title": "none",
	"meta": "none", "link": "none", "template": "none", "noscript": "none",
	"base": "none", "param": "none", "source": "none", "track": "none",
	"datalist": "none", "area": "none",
}

// defaultDisplay returns the user agent display value for a tag.
func defaultDisplay(tag string) string {
	if display, ok := uaDisplay[tag]; ok {
		return display
	}
	return "inline"
}
