package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charmbracelet logger. The CLI registers it under --verbose.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Register installs h for all hook categories.
func (h *LogHooks) Register() {
	SetBuildHooks(h)
	SetCacheHooks(h)
	SetStoreHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, records int) {
	h.logger.Debug("build start", "records", records)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, s BuildSummary, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "error", err, "elapsed", d)
		return
	}
	h.logger.Debug("build complete", "roots", s.Roots, "nodes", s.Nodes, "unreachable", s.Unreachable, "elapsed", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "elapsed", d, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnQueryStart(_ context.Context, backend, rootPath string) {
	h.logger.Debug("store query", "backend", backend, "root", rootPath)
}

func (h *LogHooks) OnQueryComplete(_ context.Context, backend, rootPath string, count int, d time.Duration, err error) {
	h.logger.Debug("store query complete", "backend", backend, "root", rootPath, "nodes", count, "elapsed", d, "error", err)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "elapsed", d)
}
