//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/content"
	"github.com/fwojciec/distill/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-shiori/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, opts ...rod.ManagerOption) *rod.BrowserManager {
	t.Helper()
	manager, err := rod.NewBrowserManager(append(opts, rod.WithNoSandbox())...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func TestBrowserManager_RelaunchesAfterMaxPages(t *testing.T) {
	t.Parallel()

	manager := newManager(t, rod.WithMaxPages(2))

	first, releaseFirst, err := manager.Acquire()
	require.NoError(t, err)
	_, releaseSecond, err := manager.Acquire()
	require.NoError(t, err)
	releaseSecond()

	second, releaseThird, err := manager.Acquire()
	require.NoError(t, err)
	defer releaseThird()
	assert.NotSame(t, first, second)

	// The replaced browser keeps serving the render that still holds it.
	page, err := first.Page(proto.TargetCreateTarget{})
	require.NoError(t, err)
	require.NoError(t, page.Close())

	releaseFirst()
	releaseFirst()
}

func TestBrowserManager_KeepsBrowserBelowMaxPages(t *testing.T) {
	t.Parallel()

	manager := newManager(t, rod.WithMaxPages(5))
	first, release, err := manager.Acquire()
	require.NoError(t, err)
	release()

	second, release, err := manager.Acquire()
	require.NoError(t, err)
	defer release()
	assert.Same(t, first, second)
}

func TestBrowserManager_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithNoSandbox())
	require.NoError(t, err)
	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
	assert.Zero(t, manager.LauncherPID())
}

func TestBrowserManager_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithNoSandbox())
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	_, _, err = manager.Acquire()
	assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))

	_, err = rod.NewRenderer(manager).RenderHTML(context.Background(), "<p>x</p>", "")
	assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
}

func TestRenderer_RenderHTML(t *testing.T) {
	t.Parallel()

	r := rod.NewRenderer(newManager(t))
	doc, err := r.RenderHTML(context.Background(), `<html><head><title>T</title></head><body>
		<div id="hidden" style="display:none"><p>gone</p></div>
		<article id="a"><p>Hello <a href="/x">world</a></p></article>
	</body></html>`, "https://example.com/page")
	require.NoError(t, err)
	require.NotNil(t, doc.Layout)
	assert.Equal(t, "https://example.com/page", doc.URL.String())

	oracle := content.NewOracle(doc.Layout)
	hidden := dom.QuerySelector(doc.Root, "#hidden")
	require.NotNil(t, hidden)
	assert.False(t, oracle.IsVisible(hidden))

	article, strategy := content.Locate(doc.Root, oracle)
	require.NotNil(t, article)
	assert.Equal(t, distill.StrategyArticle, strategy)
	assert.Equal(t, "a", dom.GetAttribute(article, "id"))
	assert.Positive(t, oracle.Area(article))
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Served</title></head><body><p dir="rtl">text</p></body></html>`))
	}))
	defer srv.Close()

	r := rod.NewRenderer(newManager(t))
	doc, err := r.Render(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Served", doc.Title)

	p := dom.QuerySelector(doc.Root, "p")
	require.NotNil(t, p)
	assert.Equal(t, "rtl", content.NewOracle(doc.Layout).Direction(p))
}

func TestRenderer_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := rod.NewRenderer(newManager(t))
	_, err := r.RenderHTML(ctx, "<p>x</p>", "")
	require.ErrorIs(t, err, context.Canceled)
}
