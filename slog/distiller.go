package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

var _ distill.Distiller = (*LoggingDistiller)(nil)

// LoggingDistiller wraps a Distiller with logging. Failures to find
// content are logged at warn level; other failures at error level.
type LoggingDistiller struct {
	next   distill.Distiller
	logger *slog.Logger
}

// NewLoggingDistiller creates a new LoggingDistiller.
func NewLoggingDistiller(next distill.Distiller, logger *slog.Logger) *LoggingDistiller {
	return &LoggingDistiller{next: next, logger: logger}
}

// Distill delegates to the wrapped distiller and logs the outcome.
func (d *LoggingDistiller) Distill(doc *distill.Document) (res *distill.Distillation, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if doc != nil && doc.URL != nil {
			attrs = append(attrs, "url", doc.URL.String())
		}
		switch {
		case err == nil:
			d.logger.Info("distill", append(attrs,
				"strategy", string(res.Strategy),
				"words", res.WordCount,
				"link_density", res.LinkDensity,
				"hash", res.ContentHash,
				"language", res.Language,
				"images", len(res.Images),
			)...)
		case distill.ErrorCode(err) == distill.ENOTFOUND:
			d.logger.Warn("distill", append(attrs, "err", err)...)
		default:
			d.logger.Error("distill", append(attrs, "err", err)...)
		}
	}(time.Now())
	return d.next.Distill(doc)
}
