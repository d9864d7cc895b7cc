// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about diagram generation, cache operations, and HTTP
// requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the libraries stay free
// of import cycles and of any particular metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDiagramHooks(observability.LogDiagramHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Diagram().OnLayoutStart(ctx, roadmapID, expanded)
//	// ... compute layout ...
//	observability.Diagram().OnLayoutComplete(ctx, roadmapID, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Diagram Hooks
// =============================================================================

// DiagramHooks receives events from layout and rendering.
type DiagramHooks interface {
	// Layout events
	OnLayoutStart(ctx context.Context, roadmapID string, expanded int)
	OnLayoutComplete(ctx context.Context, roadmapID string, nodeCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, roadmapID, format string)
	OnRenderComplete(ctx context.Context, roadmapID, format string, size int, duration time.Duration, err error)
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

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDiagramHooks is a no-op implementation of DiagramHooks.
type NoopDiagramHooks struct{}

func (NoopDiagramHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopDiagramHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopDiagramHooks) OnRenderStart(context.Context, string, string)                       {}
func (NoopDiagramHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Logging Implementations
// =============================================================================

// LogDiagramHooks writes diagram events to the context logger at debug level.
type LogDiagramHooks struct{}

func (LogDiagramHooks) OnLayoutStart(ctx context.Context, roadmapID string, expanded int) {
	log.FromContext(ctx).Debug("layout start", "roadmap", roadmapID, "expanded", expanded)
}

func (LogDiagramHooks) OnLayoutComplete(ctx context.Context, roadmapID string, nodeCount int, d time.Duration, err error) {
	log.FromContext(ctx).Debug("layout done", "roadmap", roadmapID, "nodes", nodeCount, "took", d, "err", err)
}

func (LogDiagramHooks) OnRenderStart(ctx context.Context, roadmapID, format string) {
	log.FromContext(ctx).Debug("render start", "roadmap", roadmapID, "format", format)
}

func (LogDiagramHooks) OnRenderComplete(ctx context.Context, roadmapID, format string, size int, d time.Duration, err error) {
	log.FromContext(ctx).Debug("render done", "roadmap", roadmapID, "format", format, "bytes", size, "took", d, "err", err)
}

// LogCacheHooks writes cache events to the context logger at debug level.
type LogCacheHooks struct{}

func (LogCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	log.FromContext(ctx).Debug("cache hit", "type", keyType)
}

func (LogCacheHooks) OnCacheMiss(ctx context.Context, keyType string) {
	log.FromContext(ctx).Debug("cache miss", "type", keyType)
}

func (LogCacheHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	log.FromContext(ctx).Debug("cache set", "type", keyType, "bytes", size)
}

// LogHTTPHooks writes route-level request events at debug level.
type LogHTTPHooks struct{}

func (LogHTTPHooks) OnRequest(ctx context.Context, method, route string) {
	log.FromContext(ctx).Debug("request start", "method", method, "path", route)
}

func (LogHTTPHooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	log.FromContext(ctx).Debug("request done", "method", method, "route", route, "status", status, "took", d)
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	diagramHooks DiagramHooks = NoopDiagramHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetDiagramHooks registers custom diagram hooks.
// This should be called once at application startup before any diagram is built.
func SetDiagramHooks(h DiagramHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		diagramHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Diagram returns the registered diagram hooks.
func Diagram() DiagramHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return diagramHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	diagramHooks = NoopDiagramHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
