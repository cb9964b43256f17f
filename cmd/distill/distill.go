package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/distill"
	"golang.org/x/sync/errgroup"
)

// DistillCmd distills a batch of sources.
type DistillCmd struct {
	Sources     []string
	BaseURL     string
	Concurrency int
}

type outcome struct {
	source string
	result *distill.Distillation
	output string
	err    error
}

// Run distills every source concurrently and prints the results in input
// order, or the paths of the written files when an output directory is set.
// A failing source is reported on stderr without stopping the rest.
func (c *DistillCmd) Run(ctx context.Context, deps *Dependencies, stdout, stderr io.Writer) error {
	sources := dedupe(c.Sources)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	outcomes := make([]outcome, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range sources {
		g.Go(func() error {
			res, out, err := c.distill(gctx, deps, src)
			outcomes[i] = outcome{source: src, result: res, output: out, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(stderr, "error: %s: %s\n", o.source, errorText(o.err))
			continue
		}
		if deps.Writer != nil {
			path, err := deps.Writer.Write(o.source, o.result, o.output)
			if err != nil {
				failed++
				fmt.Fprintf(stderr, "error: %s: %s\n", o.source, errorText(err))
				continue
			}
			fmt.Fprintln(stdout, path)
			continue
		}
		if len(sources) > 1 {
			fmt.Fprintf(stdout, "<!-- %s -->\n", o.source)
		}
		fmt.Fprint(stdout, o.output)
		if !strings.HasSuffix(o.output, "\n") {
			fmt.Fprintln(stdout)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(sources))
	}
	return nil
}

func (c *DistillCmd) distill(ctx context.Context, deps *Dependencies, src string) (*distill.Distillation, string, error) {
	doc, err := c.render(ctx, deps.Renderer, src)
	if err != nil {
		return nil, "", err
	}

	res, err := deps.Distiller.Distill(doc)
	if err != nil {
		return nil, "", err
	}

	if deps.Converter == nil {
		return res, res.ContentHTML, nil
	}
	out, err := deps.Converter.Convert(res.ContentHTML)
	if err != nil {
		return nil, "", err
	}
	return res, out, nil
}

func (c *DistillCmd) render(ctx context.Context, r distill.Renderer, src string) (*distill.Document, error) {
	if isURL(src) {
		return r.Render(ctx, src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, distill.Errorf(distill.ENOTFOUND, "no such file %q", src)
		}
		return nil, err
	}

	base := c.BaseURL
	if base == "" {
		abs, err := filepath.Abs(src)
		if err != nil {
			return nil, err
		}
		base = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
	return r.RenderHTML(ctx, string(data), base)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// dedupe drops repeated sources, keeping first occurrences in order.
func dedupe(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// errorText prefers the human-readable message of application errors.
func errorText(err error) string {
	if distill.ErrorCode(err) == distill.EINTERNAL {
		return err.Error()
	}
	return distill.ErrorMessage(err)
}
