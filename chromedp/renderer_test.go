//go:build integration

package chromedp_test

import (
	"context"
	"testing"

	"github.com/fwojciec/distill/chromedp"
	"github.com/fwojciec/distill/content"
	"github.com/go-shiori/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RenderHTML(t *testing.T) {
	t.Parallel()

	r, err := chromedp.NewRenderer(chromedp.WithNoSandbox())
	require.NoError(t, err)
	defer r.Close()

	doc, err := r.RenderHTML(context.Background(), `<html><body>
		<article id="zero" style="width:0px"><p>x</p></article>
		<div itemscope itemtype="https://schema.org/BlogPosting" id="post"><p>post</p></div>
	</body></html>`, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", doc.URL.String())

	oracle := content.NewOracle(doc.Layout)
	zero := dom.QuerySelector(doc.Root, "#zero")
	require.NotNil(t, zero)
	assert.Zero(t, oracle.Area(zero))

	node, _ := content.Locate(doc.Root, oracle)
	require.NotNil(t, node)
	assert.Equal(t, "post", dom.GetAttribute(node, "id"))
}

func TestRenderer_ClosedContextFails(t *testing.T) {
	t.Parallel()

	r, err := chromedp.NewRenderer(chromedp.WithNoSandbox())
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.RenderHTML(ctx, "<p>x</p>", "")
	require.ErrorIs(t, err, context.Canceled)
}
