package mock

import "github.com/fwojciec/distill"

var _ distill.Policy = (*Policy)(nil)

// Policy is a mock implementation of distill.Policy.
type Policy struct {
	SanitizeFn func(html string) string
}

func (p *Policy) Sanitize(html string) string {
	return p.SanitizeFn(html)
}
