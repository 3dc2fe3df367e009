// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about chain searches, cache operations, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the search packages
// never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSearchHooks(&mySearchHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Search().OnSearchStart(ctx, importer, imported)
//	// ... search ...
//	observability.Search().OnSearchComplete(ctx, importer, imported, chainCount, length, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from shortest-chain searches and contract checks.
type SearchHooks interface {
	// Chain search events
	OnSearchStart(ctx context.Context, importer, imported string)
	OnSearchComplete(ctx context.Context, importer, imported string, chainCount, length int, duration time.Duration, err error)

	// Contract check events
	OnContractChecked(ctx context.Context, name string, kept bool, violations int, duration time.Duration)
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
	OnRequest(ctx context.Context, requestID, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnSearchStart(context.Context, string, string) {}
func (NoopSearchHooks) OnSearchComplete(context.Context, string, string, int, int, time.Duration, error) {
}
func (NoopSearchHooks) OnContractChecked(context.Context, string, bool, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string) {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	searchHooks SearchHooks = NoopSearchHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetSearchHooks registers custom search hooks.
// This should be called once at application startup before any searches run.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
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

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
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
	searchHooks = NoopSearchHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
