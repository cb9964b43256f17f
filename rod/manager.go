// Package rod renders pages in headless Chrome driven by go-rod and
// snapshots their layout for distillation.
package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of renders before the browser is
// relaunched.
const DefaultMaxPages = 75

// BrowserManager owns a headless Chrome process and relaunches it after a
// fixed number of renders, since Chrome's resident memory only grows under
// sustained load. A replaced browser stays up until the renders still
// holding pages on it release them.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	bin       string
	noSandbox bool
	maxPages  int64

	mu       sync.Mutex
	current  *generation
	rendered int64
	closed   bool
}

// generation is one launched browser and the renders using it.
type generation struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	inFlight int
	retired  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many renders happen before the browser is relaunched.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBin sets the Chrome binary. By default rod looks one up or downloads it.
func WithBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, which is required when running
// as root inside most containers.
func WithNoSandbox() ManagerOption {
	return func(bm *BrowserManager) {
		bm.noSandbox = true
	}
}

// NewBrowserManager launches a headless browser. Close must be called to
// release it.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}
	g, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = g
	return bm, nil
}

// Acquire returns the live browser for one render, relaunching it first if
// the render budget is spent. The caller must call release once its page is
// closed. Acquire fails with EINVALID after Close.
func (bm *BrowserManager) Acquire() (browser *rod.Browser, release func(), err error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, distill.Errorf(distill.EINVALID, "browser manager is closed")
	}
	if bm.rendered >= bm.maxPages {
		bm.relaunch()
	}

	g := bm.current
	g.inFlight++
	bm.rendered++

	var once sync.Once
	return g.browser, func() { once.Do(func() { bm.release(g) }) }, nil
}

// Close shuts the current browser down, or marks it to shut down once its
// in-flight renders finish. Calling it more than once is a no-op.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return bm.retire(bm.current)
}

// LauncherPID returns the current browser's process ID, or 0 when none is
// running.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed || bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

func (bm *BrowserManager) launch() (*generation, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("hide-scrollbars").
		Leakless(true).
		Headless(true).
		NoSandbox(bm.noSandbox)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &generation{browser: browser, launcher: l}, nil
}

// relaunch swaps in a fresh browser, keeping the old one if the launch
// fails. Must be called with mu held.
func (bm *BrowserManager) relaunch() {
	g, err := bm.launch()
	if err != nil {
		return
	}
	old := bm.current
	bm.current = g
	bm.rendered = 0
	_ = bm.retire(old)
}

// release ends one render on g.
func (bm *BrowserManager) release(g *generation) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	g.inFlight--
	if g.retired && g.inFlight == 0 {
		_ = g.shutdown()
	}
}

// retire marks g as replaced and shuts it down when idle. Must be called
// with mu held.
func (bm *BrowserManager) retire(g *generation) error {
	if g == nil {
		return nil
	}
	g.retired = true
	if g.inFlight > 0 {
		return nil
	}
	return g.shutdown()
}

func (g *generation) shutdown() error {
	var err error
	if g.browser != nil {
		err = g.browser.Close()
		g.browser = nil
	}
	if g.launcher != nil {
		g.launcher.Kill()
		g.launcher = nil
	}
	return err
}
