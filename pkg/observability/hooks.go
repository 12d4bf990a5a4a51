// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: libraries emit events through the registered
// hooks and never depend on a specific backend. Hooks default to no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetChartHooks(&myChartHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRenderStart(ctx, formats)
//	// ... render ...
//	observability.Pipeline().OnRenderComplete(ctx, formats, duration, err)
//
// Chart hooks carry no context: charts run synchronously on the goroutine
// that draws them.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Chart Hooks
// =============================================================================

// ChartHooks receives events from chart state transitions.
type ChartHooks interface {
	// OnPrepare records a completed slice plan.
	OnPrepare(slices int, duration time.Duration)

	// OnSweepStart and OnSweepComplete bracket the reveal animation.
	OnSweepStart(slices int)
	OnSweepComplete(slices int)

	// OnSelect records a pointer selection change.
	OnSelect(sliceID string, floating bool)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, entries int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the session server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a finished response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a handler failure.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopChartHooks is a no-op implementation of ChartHooks.
type NoopChartHooks struct{}

func (NoopChartHooks) OnPrepare(int, time.Duration) {}
func (NoopChartHooks) OnSweepStart(int)             {}
func (NoopChartHooks) OnSweepComplete(int)          {}
func (NoopChartHooks) OnSelect(string, bool)        {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set.
type slot[T any] struct {
	mu   sync.RWMutex
	noop T
	h    T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{noop: noop, h: noop}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h
}

// set ignores nil so a half-configured host keeps the no-ops.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = h
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = s.noop
}

var (
	chartSlot    = newSlot[ChartHooks](NoopChartHooks{})
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetChartHooks registers chart hooks. Call it before any chart is drawn.
func SetChartHooks(h ChartHooks) { chartSlot.set(h) }

// SetPipelineHooks registers pipeline hooks.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers HTTP hooks. Call it before the server starts.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Chart returns the registered chart hooks.
func Chart() ChartHooks { return chartSlot.get() }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Register installs h for every hook interface it implements.
func Register(h any) {
	if v, ok := h.(ChartHooks); ok {
		SetChartHooks(v)
	}
	if v, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(v)
	}
	if v, ok := h.(CacheHooks); ok {
		SetCacheHooks(v)
	}
	if v, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(v)
	}
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	chartSlot.reset()
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
