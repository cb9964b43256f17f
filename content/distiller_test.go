package content_test

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/content"
	"github.com/fwojciec/distill/douceur"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func document(t *testing.T, page string) *distill.Document {
	t.Helper()
	root := parse(t, page)
	return &distill.Document{
		URL:    mustURL(t, "https://example.com/blog/post"),
		Title:  "Title",
		Root:   root,
		Layout: douceur.NewLayout(root),
	}
}

func TestDistiller_Distill(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid documents", func(t *testing.T) {
		t.Parallel()

		d := &content.Distiller{}

		_, err := d.Distill(nil)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))

		_, err = d.Distill(&distill.Document{})
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("uses the article fast path", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><nav><a href="/">Home</a></nav><article><p>Some words <a href="/x">here</a> now.</p></article></body>`)
		d := &content.Distiller{
			Fallback: &mock.Extractor{ExtractFn: func(string, *url.URL) (*distill.ExtractResult, error) {
				t.Fatal("fallback must not run")
				return nil, nil
			}},
		}

		res, err := d.Distill(doc)

		require.NoError(t, err)
		assert.Equal(t, distill.StrategyArticle, res.Strategy)
		assert.Equal(t, "https://example.com/blog/post", res.URL)
		assert.Equal(t, "Title", res.Title)
		assert.True(t, strings.HasPrefix(res.ContentHTML, "<article"))
		assert.Contains(t, res.ContentHTML, `href="https://example.com/x"`)
		assert.NotContains(t, res.ContentHTML, "Home")
		assert.Equal(t, 4, res.WordCount)
		assert.InDelta(t, 0.25, res.LinkDensity, 1e-9)
		assert.Len(t, res.ContentHash, 16)
	})

	t.Run("uses microdata when there is no article", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><div itemscope itemtype="https://schema.org/BlogPosting"><p>post body</p></div><aside>side</aside></body>`)

		res, err := (&content.Distiller{}).Distill(doc)

		require.NoError(t, err)
		assert.Equal(t, distill.StrategyMicrodata, res.Strategy)
		assert.Contains(t, res.ContentHTML, "post body")
		assert.NotContains(t, res.ContentHTML, "side")
	})

	t.Run("falls back to the extractor", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><div><p>plain page</p></div></body>`)
		doc.Title = ""
		var gotURL *url.URL
		d := &content.Distiller{
			Fallback: &mock.Extractor{ExtractFn: func(html string, pageURL *url.URL) (*distill.ExtractResult, error) {
				gotURL = pageURL
				assert.Contains(t, html, "plain page")
				return &distill.ExtractResult{Title: "Extracted", ContentHTML: `<div><p>plain page <a href="/a">link</a></p></div>`}, nil
			}},
		}

		res, err := d.Distill(doc)

		require.NoError(t, err)
		assert.Equal(t, distill.StrategyFallback, res.Strategy)
		assert.Equal(t, "Extracted", res.Title)
		assert.Same(t, doc.URL, gotURL)
		assert.Equal(t, 3, res.WordCount)
		assert.InDelta(t, 1.0/3, res.LinkDensity, 1e-9)
	})

	t.Run("propagates fallback errors", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><p>x</p></body>`)
		d := &content.Distiller{
			Fallback: &mock.Extractor{ExtractFn: func(string, *url.URL) (*distill.ExtractResult, error) {
				return nil, distill.Errorf(distill.ENOTFOUND, "nothing")
			}},
		}

		_, err := d.Distill(doc)

		require.Error(t, err)
		assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
	})

	t.Run("uses the whole body without a fallback", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><div><p>visible</p><p hidden>invisible</p></div></body>`)

		res, err := (&content.Distiller{}).Distill(doc)

		require.NoError(t, err)
		assert.Equal(t, distill.StrategyDocument, res.Strategy)
		assert.Contains(t, res.ContentHTML, "visible")
		assert.NotContains(t, res.ContentHTML, "invisible")
	})

	t.Run("applies the policy", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><article><p>words</p></article></body>`)
		d := &content.Distiller{Policy: &mock.Policy{SanitizeFn: func(html string) string {
			return strings.ReplaceAll(html, "words", "clean words")
		}}}

		res, err := d.Distill(doc)

		require.NoError(t, err)
		assert.Contains(t, res.ContentHTML, "clean words")
	})

	t.Run("reports empty output as not found", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><article><p>words</p></article></body>`)
		d := &content.Distiller{Policy: &mock.Policy{SanitizeFn: func(string) string { return "" }}}

		_, err := d.Distill(doc)

		require.Error(t, err)
		assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
	})

	t.Run("same content hashes the same", func(t *testing.T) {
		t.Parallel()

		const page = `<body><article><p>stable</p></article></body>`
		a, err := (&content.Distiller{}).Distill(document(t, page))
		require.NoError(t, err)
		b, err := (&content.Distiller{}).Distill(document(t, page))
		require.NoError(t, err)

		assert.Equal(t, a.ContentHash, b.ContentHash)
	})

	t.Run("wrapped errors keep their code", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><p>x</p></body>`)
		d := &content.Distiller{
			Fallback: &mock.Extractor{ExtractFn: func(string, *url.URL) (*distill.ExtractResult, error) {
				return nil, errors.New("boom")
			}},
		}

		_, err := d.Distill(doc)

		assert.Equal(t, distill.EINTERNAL, distill.ErrorCode(err))
	})

	t.Run("falls through when the located article yields nothing", func(t *testing.T) {
		t.Parallel()

		doc := flickeringArticle(t)
		called := false
		d := &content.Distiller{
			Fallback: &mock.Extractor{ExtractFn: func(string, *url.URL) (*distill.ExtractResult, error) {
				called = true
				return &distill.ExtractResult{ContentHTML: `<div><p>rest of page</p></div>`}, nil
			}},
		}

		res, err := d.Distill(doc)

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, distill.StrategyFallback, res.Strategy)
		assert.Contains(t, res.ContentHTML, "rest of page")
	})

	t.Run("falls through to the body when the located article yields nothing", func(t *testing.T) {
		t.Parallel()

		res, err := (&content.Distiller{}).Distill(flickeringArticle(t))

		require.NoError(t, err)
		assert.Equal(t, distill.StrategyDocument, res.Strategy)
		assert.Contains(t, res.ContentHTML, "rest of page")
		assert.NotContains(t, res.ContentHTML, "gone")
	})

	t.Run("detects the content language", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><article><p>대한민국은 민주공화국이다. 대한민국의 주권은 국민에게 있고, 모든 권력은 국민으로부터 나온다.</p></article></body>`)

		res, err := (&content.Distiller{}).Distill(doc)

		require.NoError(t, err)
		assert.Equal(t, "ko", res.Language)
	})

	t.Run("uses the declared language when detection is unreliable", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<html lang="pt-BR"><body><article><p>2024 12 31</p></article></body></html>`)

		res, err := (&content.Distiller{}).Distill(doc)

		require.NoError(t, err)
		assert.Equal(t, "pt", res.Language)
	})

	t.Run("lists content images", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><aside><img src="/sidebar.png"></aside><article><p>caption</p>
			<img src="/a.png" srcset="/a-2x.png 2x, https://cdn.other.net/b.png 3x">
			<img src="https://static.example.com/c.png">
			<img src="/a.png">
			<img src="data:image/png;base64,AAAA">
		</article></body>`)

		res, err := (&content.Distiller{}).Distill(doc)

		require.NoError(t, err)
		assert.Equal(t, []distill.Image{
			{URL: "https://example.com/a.png", SameSite: true},
			{URL: "https://static.example.com/c.png", SameSite: true},
			{URL: "https://example.com/a-2x.png", SameSite: true},
			{URL: "https://cdn.other.net/b.png", SameSite: false},
		}, res.Images)
	})

	t.Run("reads metadata when a reader is configured", func(t *testing.T) {
		t.Parallel()

		doc := document(t, `<body><article><p>words</p></article></body>`)
		d := &content.Distiller{Metadata: &mock.MetadataReader{ReadMetadataFn: func(got *distill.Document) distill.Metadata {
			assert.Same(t, doc, got)
			return distill.Metadata{Author: "Ada", Published: "2024-03-01"}
		}}}

		res, err := d.Distill(doc)

		require.NoError(t, err)
		assert.Equal(t, distill.Metadata{Author: "Ada", Published: "2024-03-01"}, res.Metadata)
	})
}

// flickeringArticle returns a document whose only article is reported
// visible on the first style query and hidden afterwards, so it is located
// but contributes nothing once collected.
func flickeringArticle(t *testing.T) *distill.Document {
	t.Helper()
	root := parse(t, `<body><article><p>gone</p></article><div><p>rest of page</p></div></body>`)
	var mu sync.Mutex
	queries := 0
	return &distill.Document{
		URL:  mustURL(t, "https://example.com/blog/post"),
		Root: root,
		Layout: &mock.Layout{
			ComputedStyleFn: func(el *html.Node) (distill.Style, error) {
				if el.Data == "article" {
					mu.Lock()
					defer mu.Unlock()
					queries++
					if queries > 1 {
						return distill.Style{Display: "none"}, nil
					}
				}
				return distill.Style{Display: "block", Visibility: "visible", Opacity: 1}, nil
			},
			BoxFn: func(*html.Node) (distill.Box, error) {
				return distill.Box{HasOffsetParent: true, Width: 100, Height: 20}, nil
			},
		},
	}
}

func TestContentImages(t *testing.T) {
	t.Parallel()

	root := parse(t, `<div id="r"><img src="x.png"><img src="//www.example.com/y.png"><picture><source srcset="z.webp 1x"></picture></div>`)

	images := content.ContentImages(byID(t, root, "r"), mustURL(t, "https://www.example.com/a/b"))

	assert.Equal(t, []distill.Image{
		{URL: "https://www.example.com/a/x.png", SameSite: true},
		{URL: "https://www.example.com/y.png", SameSite: true},
		{URL: "https://www.example.com/a/z.webp", SameSite: true},
	}, images)

	unresolved := content.ContentImages(byID(t, root, "r"), nil)
	require.NotEmpty(t, unresolved)
	assert.Equal(t, distill.Image{URL: "x.png"}, unresolved[0])
}
