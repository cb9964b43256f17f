// Package snapshot captures a browser-rendered page together with the
// computed styles and offset boxes of its elements, and rebuilds it as an
// html.Node tree with a matching distill.Layout. Browser hosts evaluate
// Script in the page and pass its result to Decode.
package snapshot

import (
	"net/url"
	"strconv"

	"github.com/fwojciec/distill"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Script is a JavaScript function expression that serializes the current
// document to a JSON string.
const Script = `() => {
	function serialize(node) {
		const out = { t: node.nodeType };
		switch (node.nodeType) {
		case Node.ELEMENT_NODE: {
			out.n = node.localName;
			if (node.namespaceURI === "http://www.w3.org/2000/svg") out.ns = "svg";
			if (node.namespaceURI === "http://www.w3.org/1998/Math/MathML") out.ns = "math";
			out.a = Array.from(node.attributes, (a) => [a.name, a.value]);
			const cs = getComputedStyle(node);
			out.s = {
				d: cs.display,
				v: cs.visibility,
				o: cs.opacity,
				p: cs.position,
				r: cs.direction,
			};
			if (typeof node.offsetWidth === "number") {
				out.b = {
					p: node.offsetParent !== null,
					w: node.offsetWidth,
					h: node.offsetHeight,
				};
			}
			break;
		}
		case Node.TEXT_NODE:
		case Node.COMMENT_NODE:
			out.d = node.data;
			break;
		case Node.DOCUMENT_TYPE_NODE:
			out.n = node.name;
			break;
		}
		const children = node.localName === "template" ? [] : node.childNodes;
		if (children.length > 0) {
			out.c = Array.from(children, serialize);
		}
		return out;
	}
	return JSON.stringify({
		url: document.baseURI,
		title: document.title,
		root: serialize(document),
	});
}`

// DOM node types as reported by the browser.
const (
	elementNode  = 1
	textNode     = 3
	commentNode  = 8
	documentNode = 9
	doctypeNode  = 10
)

// Page is the decoded form of Script's output.
type Page struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Root  *Node  `json:"root"`
}

// Node is a serialized DOM node.
type Node struct {
	Type      int        `json:"t"`
	Name      string     `json:"n"`
	Namespace string     `json:"ns"`
	Attrs     [][]string `json:"a"`
	Data      string     `json:"d"`
	Style     *Style     `json:"s"`
	Box       *Box       `json:"b"`
	Children  []*Node    `json:"c"`
}

// Style is a serialized computed style.
type Style struct {
	Display    string `json:"d"`
	Visibility string `json:"v"`
	Opacity    string `json:"o"`
	Position   string `json:"p"`
	Direction  string `json:"r"`
}

// Box is a serialized offset box.
type Box struct {
	HasOffsetParent bool    `json:"p"`
	Width           float64 `json:"w"`
	Height          float64 `json:"h"`
}

// Decode rebuilds the document serialized by Script.
func Decode(data []byte) (*distill.Document, error) {
	var page Page
	if err := jsoniter.Unmarshal(data, &page); err != nil {
		return nil, distill.Errorf(distill.EINVALID, "invalid snapshot: %v", err)
	}
	return page.Document()
}

// Document converts the page into a distill.Document whose Layout reports
// the recorded styles and boxes.
func (p *Page) Document() (*distill.Document, error) {
	if p.Root == nil || p.Root.Type != documentNode {
		return nil, distill.Errorf(distill.EINVALID, "snapshot root is not a document")
	}

	layout := &Layout{records: make(map[*html.Node]record)}
	root := layout.build(p.Root)

	doc := &distill.Document{
		Title:  p.Title,
		Root:   root,
		Layout: layout,
	}
	if p.URL != "" {
		u, err := url.Parse(p.URL)
		if err != nil {
			return nil, distill.Errorf(distill.EINVALID, "invalid snapshot URL: %v", err)
		}
		doc.URL = u
	}
	return doc, nil
}

// Ensure Layout implements distill.Layout at compile time.
var _ distill.Layout = (*Layout)(nil)

// Layout reports the styles and boxes recorded when the snapshot was taken.
// Taking a new snapshot is the way to observe a re-render.
type Layout struct {
	records map[*html.Node]record
}

type record struct {
	style *distill.Style
	box   *distill.Box
}

// ComputedStyle returns the recorded computed style of el.
func (l *Layout) ComputedStyle(el *html.Node) (distill.Style, error) {
	if r, ok := l.records[el]; ok && r.style != nil {
		return *r.style, nil
	}
	return distill.Style{}, distill.Errorf(distill.ENOLAYOUT, "no computed style recorded for node")
}

// Box returns the recorded offset box of el.
func (l *Layout) Box(el *html.Node) (distill.Box, error) {
	if r, ok := l.records[el]; ok && r.box != nil {
		return *r.box, nil
	}
	return distill.Box{}, distill.Errorf(distill.ENOLAYOUT, "no layout box recorded for node")
}

func (l *Layout) build(src *Node) *html.Node {
	n := &html.Node{}
	switch src.Type {
	case documentNode:
		n.Type = html.DocumentNode
	case elementNode:
		n.Type = html.ElementNode
		n.Data = src.Name
		n.Namespace = src.Namespace
		if src.Namespace == "" {
			n.DataAtom = atom.Lookup([]byte(src.Name))
		}
		for _, kv := range src.Attrs {
			if len(kv) == 2 {
				n.Attr = append(n.Attr, html.Attribute{Key: kv[0], Val: kv[1]})
			}
		}
		l.records[n] = record{style: src.Style.toStyle(), box: src.Box.toBox()}
	case textNode:
		n.Type = html.TextNode
		n.Data = src.Data
	case commentNode:
		n.Type = html.CommentNode
		n.Data = src.Data
	case doctypeNode:
		n.Type = html.DoctypeNode
		n.Data = src.Name
	default:
		n.Type = html.RawNode
	}

	for _, child := range src.Children {
		if child != nil {
			n.AppendChild(l.build(child))
		}
	}
	return n
}

func (s *Style) toStyle() *distill.Style {
	if s == nil {
		return nil
	}
	opacity, err := strconv.ParseFloat(s.Opacity, 64)
	if err != nil {
		opacity = 1
	}
	return &distill.Style{
		Display:    s.Display,
		Visibility: s.Visibility,
		Position:   s.Position,
		Direction:  s.Direction,
		Opacity:    opacity,
	}
}

func (b *Box) toBox() *distill.Box {
	if b == nil {
		return nil
	}
	return &distill.Box{
		HasOffsetParent: b.HasOffsetParent,
		Width:           int(b.Width),
		Height:          int(b.Height),
	}
}
