package bluemonday_test

import (
	"testing"

	"github.com/fwojciec/distill/bluemonday"
	"github.com/stretchr/testify/assert"
)

func TestPolicy_Sanitize(t *testing.T) {
	t.Parallel()

	p := bluemonday.NewPolicy()

	tests := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{
			name:     "removes scripts",
			in:       `<p>hi</p><script>alert(1)</script>`,
			contains: []string{"<p>hi</p>"},
			excludes: []string{"script", "alert"},
		},
		{
			name:     "removes event handlers",
			in:       `<p onclick="x()">hi</p>`,
			excludes: []string{"onclick"},
		},
		{
			name:     "keeps direction",
			in:       `<div dir="rtl">x</div>`,
			contains: []string{`dir="rtl"`},
		},
		{
			name:     "drops invalid direction",
			in:       `<div dir="sideways">x</div>`,
			excludes: []string{"sideways"},
		},
		{
			name:     "keeps microdata",
			in:       `<div itemscope itemtype="https://schema.org/Article"><span itemprop="name">n</span></div>`,
			contains: []string{`itemtype="https://schema.org/Article"`, `itemprop="name"`},
		},
		{
			name:     "keeps srcset",
			in:       `<img src="https://e.com/a.png" srcset="https://e.com/a.png 1x, https://e.com/b.png 2x">`,
			contains: []string{"srcset="},
		},
		{
			name:     "does not add nofollow",
			in:       `<a href="https://example.com/">x</a>`,
			excludes: []string{"nofollow"},
		},
		{
			name:     "drops javascript URLs",
			in:       `<a href="javascript:alert(1)">x</a>`,
			excludes: []string{"javascript"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := p.Sanitize(tt.in)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
