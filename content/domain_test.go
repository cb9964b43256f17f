package content_test

import (
	"testing"

	"github.com/fwojciec/distill/content"
	"github.com/stretchr/testify/assert"
)

func TestHasRootDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		root string
		want bool
	}{
		{"http://www.foo.bar/foo/bar.html", "foo.bar", true},
		{"https://www.m.foo.bar/foo/bar.html", "foo.bar", true},
		{"https://www.m.foo.bar/foo/bar.html", "www.m.foo.bar", true},
		{"http://localhost/foo/bar.html", "localhost", true},
		{"https://www.m.foo.bar.baz", "foo.bar.baz", true},
		{"//cdn.foo.bar/x.js", "foo.bar", true},
		{"https://www.m.foo.bar.baz", "x.foo.bar.baz", false},
		{"https://www.foo.bar.baz", "foo.bar", false},
		{"http://foo", "m.foo", false},
		{"https://www.badfoobar.baz", "foobar.baz", false},
		{"", "foo", false},
		{"http://foo.bar", "", false},
		{"not a url", "foo", false},
	}

	for _, tt := range tests {
		t.Run(tt.url+"|"+tt.root, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, content.HasRootDomain(tt.url, tt.root))
		})
	}
}
