package douceur

import (
	"sort"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
)

// rule is a qualified stylesheet rule with a single selector.
type rule struct {
	sel          cascadia.Sel
	specificity  cascadia.Specificity
	order        int
	declarations []*css.Declaration
}

// parseStylesheets collects the rules of every <style> element under root in
// document order. Sheets that fail to parse are ignored, like a browser
// ignores invalid CSS.
func parseStylesheets(root *html.Node) []rule {
	var rules []rule
	for _, styleEl := range dom.GetElementsByTagName(root, "style") {
		if media := dom.GetAttribute(styleEl, "media"); !appliesToScreen(media) {
			continue
		}
		sheet, err := parser.Parse(dom.TextContent(styleEl))
		if err != nil {
			continue
		}
		rules = appendRules(rules, sheet.Rules)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].specificity != rules[j].specificity {
			return rules[i].specificity.Less(rules[j].specificity)
		}
		return rules[i].order < rules[j].order
	})
	return rules
}

func appendRules(rules []rule, cssRules []*css.Rule) []rule {
	for _, r := range cssRules {
		if r.Kind == css.AtRule {
			if r.Name == "@media" && appliesToScreen(r.Prelude) {
				rules = appendRules(rules, r.Rules)
			}
			continue
		}

		for _, selector := range r.Selectors {
			sel, err := cascadia.Parse(selector)
			if err != nil || sel.PseudoElement() != "" {
				continue
			}
			rules = append(rules, rule{
				sel:          sel,
				specificity:  sel.Specificity(),
				order:        len(rules),
				declarations: r.Declarations,
			})
		}
	}
	return rules
}

// appliesToScreen reports whether a media query list can match a screen.
// Only media types are considered, features are assumed to match.
func appliesToScreen(media string) bool {
	media = strings.ToLower(strings.TrimSpace(media))
	if media == "" {
		return true
	}
	for _, query := range strings.Split(media, ",") {
		query = strings.TrimSpace(query)
		if !strings.HasPrefix(query, "print") && !strings.HasPrefix(query, "speech") &&
			!strings.HasPrefix(query, "not screen") && !strings.HasPrefix(query, "not all") {
			return true
		}
	}
	return false
}

// declared returns the cascaded value of every property set on el by author
// stylesheets or its style attribute. Important declarations win over
// normal ones, inline wins over sheets at the same importance.
func (l *Layout) declared(el *html.Node) map[string]string {
	var sheet, inline []*css.Declaration
	for _, r := range l.rules {
		if r.sel.Match(el) {
			sheet = append(sheet, r.declarations...)
		}
	}
	if style := dom.GetAttribute(el, "style"); style != "" {
		if decls, err := parser.ParseDeclarations(style); err == nil {
			inline = decls
		}
	}

	values := make(map[string]string)
	for _, important := range []bool{false, true} {
		for _, decls := range [][]*css.Declaration{sheet, inline} {
			for _, d := range decls {
				if d.Important == important {
					values[strings.ToLower(d.Property)] = strings.ToLower(strings.TrimSpace(d.Value))
				}
			}
		}
	}
	return values
}

// length is a parsed CSS length.
type length struct {
	value   float64
	percent bool
}

// parseLength parses px, unitless, em, rem and percentage lengths.
// Keywords like auto report false.
func parseLength(v string) (length, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return length{}, false
	}

	unit := ""
	for _, suffix := range []string{"px", "rem", "em", "%"} {
		if strings.HasSuffix(v, suffix) {
			unit = suffix
			v = strings.TrimSpace(strings.TrimSuffix(v, suffix))
			break
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return length{}, false
	}

	switch unit {
	case "%":
		return length{value: f / 100, percent: true}, true
	case "em", "rem":
		return length{value: f * defaultFontSize}, true
	default:
		return length{value: f}, true
	}
}

// parseOpacity parses a number or percentage opacity, defaulting to 1.
func parseOpacity(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 1
	}
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 1
		}
		return f / 100
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1
	}
	return f
}
