package content

import (
	"regexp"
	"strings"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

var rxSpaceBeforePunctuation = regexp.MustCompile(`[ \t]+([.?!,;])`)

// InnerText returns the text a reader would see in the tree rooted at n:
// text of invisible elements and boilerplate tags is left out and br
// elements become line breaks.
func InnerText(n *html.Node, oracle *Oracle) string {
	var sb strings.Builder
	walker := NewWalker(BoilerplateTags...)
	walker.Walk(n, VisitorFuncs{VisitFn: func(node *html.Node) bool {
		switch node.Type {
		case html.TextNode:
			// Source line breaks are plain whitespace; only br breaks lines.
			sb.WriteString(" ")
			sb.WriteString(strings.Join(strings.Fields(node.Data), " "))
			sb.WriteString(" ")
			return false
		case html.ElementNode:
			if dom.TagName(node) == "br" {
				sb.WriteString("\n")
				return false
			}
			return oracle.IsVisible(node)
		case html.DocumentNode:
			return true
		default:
			return false
		}
	}})

	lines := strings.Split(sb.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	return rxSpaceBeforePunctuation.ReplaceAllString(text, "$1")
}

// LinkDensity returns the share of the words under n that sit inside
// hyperlinks, between 0 and 1. A tree without words has density 0.
func LinkDensity(n *html.Node, counter WordCounter) float64 {
	var all, linked strings.Builder
	depth := 0

	walker := NewWalker(BoilerplateTags...)
	walker.Walk(n, VisitorFuncs{
		VisitFn: func(node *html.Node) bool {
			switch node.Type {
			case html.TextNode:
				all.WriteString(node.Data + " ")
				if depth > 0 {
					linked.WriteString(node.Data + " ")
				}
				return false
			case html.ElementNode:
				if dom.TagName(node) == "a" {
					depth++
				}
				return true
			case html.DocumentNode:
				return true
			default:
				return false
			}
		},
		ExitFn: func(node *html.Node) {
			if node.Type == html.ElementNode && dom.TagName(node) == "a" {
				depth--
			}
		},
	})

	text := all.String()
	if counter == nil {
		counter = SelectWordCounter(text)
	}
	total := CountWords(text, counter)
	if total == 0 {
		return 0
	}
	return float64(CountWords(linked.String(), counter)) / float64(total)
}
