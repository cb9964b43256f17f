package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/bluemonday"
	"github.com/fwojciec/distill/chromedp"
	"github.com/fwojciec/distill/content"
	"github.com/fwojciec/distill/douceur"
	"github.com/fwojciec/distill/fs"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/htmltomarkdown"
	distillhttp "github.com/fwojciec/distill/http"
	"github.com/fwojciec/distill/readability"
	"github.com/fwojciec/distill/rod"
	distillslog "github.com/fwojciec/distill/slog"
	"github.com/fwojciec/distill/trafilatura"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Sources       []string      `arg:"" name:"source" help:"URLs or local HTML files to distill"`
	Renderer      string        `short:"r" enum:"static,rod,chromedp" default:"static" env:"DISTILL_RENDERER" help:"Layout engine: static, rod or chromedp"`
	Fallback      string        `enum:"none,readability,trafilatura" default:"readability" env:"DISTILL_FALLBACK" help:"Extractor used when no article root is found"`
	Format        string        `short:"f" enum:"html,markdown" default:"html" env:"DISTILL_FORMAT" help:"Output format: html or markdown"`
	BaseURL       string        `name:"base-url" env:"DISTILL_BASE_URL" help:"Base URL for resolving links in local files"`
	Concurrency   int           `short:"c" default:"4" env:"DISTILL_CONCURRENCY" help:"Sources processed in parallel"`
	Rate          float64       `default:"1" env:"DISTILL_RATE" help:"Requests per second per host for the static renderer (0 disables)"`
	Retries       int           `default:"3" env:"DISTILL_RETRIES" help:"Retries for failed fetches with the static renderer"`
	Timeout       time.Duration `short:"t" default:"10s" env:"DISTILL_TIMEOUT" help:"Render timeout per page"`
	ViewportWidth int           `name:"viewport-width" default:"1024" env:"DISTILL_VIEWPORT_WIDTH" help:"Viewport width in CSS pixels"`
	Chrome        string        `name:"chrome" type:"path" env:"DISTILL_CHROME" help:"Chrome binary for the browser renderers"`
	NoSandbox     bool          `name:"no-sandbox" env:"DISTILL_NO_SANDBOX" help:"Run Chrome without its sandbox (needed as root in containers)"`
	OutputDir     string        `short:"o" name:"output-dir" type:"path" env:"DISTILL_OUTPUT_DIR" help:"Write one file per source under this directory instead of printing"`
	Verbose       bool          `short:"v" env:"DISTILL_VERBOSE" help:"Log every render and distillation"`
}

// Dependencies holds the services a DistillCmd runs against.
type Dependencies struct {
	Renderer  distill.Renderer
	Distiller distill.Distiller
	Converter distill.Converter

	// Writer stores outputs as files when set; otherwise they are printed.
	Writer *fs.Writer
}

func (c *CLI) wire(logger *slog.Logger) (*Dependencies, error) {
	if c.ViewportWidth <= 0 {
		return nil, distill.Errorf(distill.EINVALID, "viewport width must be positive")
	}
	width, height := c.ViewportWidth, c.ViewportWidth*3/4

	renderer, err := c.renderer(logger, width, height)
	if err != nil {
		return nil, err
	}

	distiller := &content.Distiller{
		Fallback: c.fallback(),
		Policy:   bluemonday.NewPolicy(),
		Metadata: goquery.NewParser(),
	}

	deps := &Dependencies{
		Renderer:  distillslog.NewLoggingRenderer(renderer, logger),
		Distiller: distillslog.NewLoggingDistiller(distiller, logger),
	}
	ext := ".html"
	if c.Format == "markdown" {
		deps.Converter = htmltomarkdown.NewConverter()
		ext = ".md"
	}
	if c.OutputDir != "" {
		deps.Writer = fs.NewWriter(c.OutputDir, ext)
	}
	return deps, nil
}

func (c *CLI) renderer(logger *slog.Logger, width, height int) (distill.Renderer, error) {
	switch c.Renderer {
	case "rod":
		var opts []rod.ManagerOption
		if c.Chrome != "" {
			opts = append(opts, rod.WithBin(c.Chrome))
		}
		if c.NoSandbox {
			opts = append(opts, rod.WithNoSandbox())
		}
		manager, err := rod.NewBrowserManager(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (is Chrome installed?): %w", err)
		}
		return &rodRenderer{
			Renderer: rod.NewRenderer(manager, rod.WithTimeout(c.Timeout), rod.WithViewport(width, height)),
			manager:  manager,
		}, nil

	case "chromedp":
		opts := []chromedp.Option{chromedp.WithTimeout(c.Timeout), chromedp.WithViewport(width, height)}
		if c.Chrome != "" {
			opts = append(opts, chromedp.WithExecPath(c.Chrome))
		}
		if c.NoSandbox {
			opts = append(opts, chromedp.WithNoSandbox())
		}
		r, err := chromedp.NewRenderer(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (is Chrome installed?): %w", err)
		}
		return r, nil

	default:
		var fetcher distill.Fetcher = distillhttp.NewFetcher(
			distillhttp.WithTimeout(c.Timeout),
			distillhttp.WithRateLimit(c.Rate),
		)
		if c.Retries > 0 {
			delays := distillhttp.DefaultRetryDelays()
			for len(delays) < c.Retries {
				delays = append(delays, delays[len(delays)-1]*2)
			}
			fetcher = distillhttp.NewRetryFetcher(fetcher, logger, delays[:c.Retries]...)
		}
		return douceur.NewRenderer(
			distillslog.NewLoggingFetcher(fetcher, logger),
			goquery.NewParser(),
			douceur.WithViewport(width, height),
		), nil
	}
}

func (c *CLI) fallback() distill.Extractor {
	switch c.Fallback {
	case "readability":
		return readability.NewExtractor()
	case "trafilatura":
		return trafilatura.NewExtractor()
	default:
		return nil
	}
}

// rodRenderer closes the browser it owns along with the renderer.
type rodRenderer struct {
	*rod.Renderer
	manager *rod.BrowserManager
}

func (r *rodRenderer) Close() error {
	_ = r.Renderer.Close()
	return r.manager.Close()
}
