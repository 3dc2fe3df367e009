package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importchain/pkg/observability"
	"github.com/matzehuels/importchain/pkg/render"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms"
// (e.g., "14:32:01.45"), filtering below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level with the elapsed time and any key/value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", render.FormatDuration(time.Since(p.start)))
	p.logger.Debug(msg, keyvals...)
}

// logHooks reports searches and cache activity to the CLI logger at debug
// level.
type logHooks struct {
	observability.NoopSearchHooks
	logger *log.Logger
}

func (h logHooks) OnSearchComplete(_ context.Context, importer, imported string, chainCount, length int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("search failed", "importer", importer, "imported", imported, "err", err)
		return
	}
	h.logger.Debug("search", "importer", importer, "imported", imported,
		"chains", chainCount, "length", length, "took", render.FormatDuration(d))
}

func (h logHooks) OnContractChecked(_ context.Context, name string, kept bool, violations int, d time.Duration) {
	h.logger.Debug("contract", "name", name, "kept", kept, "violations", violations, "took", render.FormatDuration(d))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// InstallHooks routes the process-wide observability hooks to the CLI logger.
func (c *CLI) InstallHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetSearchHooks(h)
	observability.SetCacheHooks(h)
}
