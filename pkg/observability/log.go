package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// logger. Hosts install it with [Register] when verbose output is on.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to l under the "hooks" prefix.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnPrepare(slices int, d time.Duration) {
	h.Logger.Debug("chart prepared", "slices", slices, "took", d)
}

func (h *LogHooks) OnSweepStart(slices int) {
	h.Logger.Debug("sweep start", "slices", slices)
}

func (h *LogHooks) OnSweepComplete(slices int) {
	h.Logger.Debug("sweep complete", "slices", slices)
}

func (h *LogHooks) OnSelect(id string, floating bool) {
	h.Logger.Debug("select", "slice", id, "floating", floating)
}

func (h *LogHooks) OnLoadStart(_ context.Context, path string) {
	h.Logger.Debug("load start", "source", path)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, path string, entries int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("load failed", "source", path, "error", err)
		return
	}
	h.Logger.Debug("load complete", "source", path, "entries", entries, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "took", d, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Debug("handler error", "method", method, "path", path, "error", err)
}
