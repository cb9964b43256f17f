package content_test

import (
	"testing"

	"github.com/fwojciec/distill/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const tree = `<div id="r"><div id="a"><p id="a1">x</p><p id="a2">y</p></div><div id="b"><p id="b1">z</p></div></div>`

func TestNearestCommonAncestor(t *testing.T) {
	t.Parallel()

	root := parse(t, tree)
	n := func(id string) *html.Node { return byID(t, root, id) }

	tests := []struct {
		name  string
		nodes []*html.Node
		want  *html.Node
	}{
		{"siblings", []*html.Node{n("a1"), n("a2")}, n("a")},
		{"cousins", []*html.Node{n("a1"), n("b1")}, n("r")},
		{"ancestor and descendant", []*html.Node{n("a"), n("a2")}, n("a")},
		{"single node", []*html.Node{n("b1")}, n("b1")},
		{"same node twice", []*html.Node{n("a1"), n("a1")}, n("a1")},
		{"order does not matter", []*html.Node{n("b1"), n("a2"), n("a1")}, n("r")},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := content.NearestCommonAncestor(tt.nodes...)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}

	t.Run("separate trees", func(t *testing.T) {
		t.Parallel()

		other := byID(t, parse(t, tree), "a1")
		assert.Nil(t, content.NearestCommonAncestor(n("a1"), other))
	})

	t.Run("nil node", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, content.NearestCommonAncestor(n("a1"), nil))
	})
}

func TestAncestors_Counts(t *testing.T) {
	t.Parallel()

	root := parse(t, tree)
	a1, a2, b1 := byID(t, root, "a1"), byID(t, root, "a2"), byID(t, root, "b1")

	counts, nearest := content.Ancestors(a1, a2, b1)

	require.NotNil(t, nearest)
	assert.Equal(t, "r", label(nearest))
	assert.Equal(t, 3, counts[byID(t, root, "r")])
	assert.Equal(t, 3, counts[root])
	assert.Equal(t, 2, counts[byID(t, root, "a")])
	assert.Equal(t, 1, counts[byID(t, root, "b")])
	assert.Equal(t, 1, counts[a1])
	_, listed := counts[a1.FirstChild]
	assert.False(t, listed)
}
