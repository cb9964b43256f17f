// Package bluemonday applies a final HTML allow-list to distilled content.
package bluemonday

import (
	"github.com/fwojciec/distill"
	"github.com/microcosm-cc/bluemonday"
)

var _ distill.Policy = (*Policy)(nil)

// Policy is bluemonday's user-generated-content policy widened to keep
// the attributes distillation relies on: text direction, microdata and
// responsive image sources.
type Policy struct {
	p *bluemonday.Policy
}

// NewPolicy returns the content policy.
func NewPolicy() *Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("dir").Matching(bluemonday.Direction).Globally()
	p.AllowAttrs("itemscope", "itemtype", "itemprop").Globally()
	p.AllowElements("picture", "source", "figure", "figcaption")
	p.AllowAttrs("srcset", "sizes").OnElements("img", "source")
	p.AllowAttrs("src", "type", "media").OnElements("source")
	return &Policy{p: p}
}

// Sanitize returns html with everything outside the policy removed.
func (p *Policy) Sanitize(html string) string {
	return p.p.Sanitize(html)
}
