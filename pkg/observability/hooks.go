// Package observability provides hooks for metrics and logging.
//
// Libraries in this module emit events through the hooks registered here
// instead of importing a metrics backend directly. The API server installs
// Prometheus-backed hooks at startup; everything else sees no-op defaults.
//
// Register hooks once, before serving:
//
//	observability.SetPipelineHooks(metrics)
//	observability.SetCacheHooks(metrics)
//	observability.SetRegistryHooks(metrics)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnCanonicalizeStart(ctx, atoms)
//	// ... refine, traverse, relabel ...
//	observability.Pipeline().OnCanonicalizeComplete(ctx, atoms, rounds, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the canonicalization pipeline.
type PipelineHooks interface {
	// Loading a molecule from its source format.
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, atoms int, duration time.Duration, err error)

	// Refinement, traversal and relabeling of one molecule.
	OnCanonicalizeStart(ctx context.Context, atoms int)
	OnCanonicalizeComplete(ctx context.Context, atoms, rounds int, duration time.Duration, err error)
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
// Registry Hooks
// =============================================================================

// RegistryHooks receives events from molecule registries.
type RegistryHooks interface {
	// OnRegister records a Put. created is false for a duplicate key.
	OnRegister(ctx context.Context, backend string, created bool)

	// OnLookup records a Get.
	OnLookup(ctx context.Context, backend string, found bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnCanonicalizeStart(context.Context, int)                           {}
func (NoopPipelineHooks) OnCanonicalizeComplete(context.Context, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopRegistryHooks is a no-op implementation of RegistryHooks.
type NoopRegistryHooks struct{}

func (NoopRegistryHooks) OnRegister(context.Context, string, bool) {}
func (NoopRegistryHooks) OnLookup(context.Context, string, bool)   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	registryHooks RegistryHooks = NoopRegistryHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetRegistryHooks registers custom registry hooks. Nil is ignored.
func SetRegistryHooks(h RegistryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		registryHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Registry returns the registered registry hooks.
func Registry() RegistryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return registryHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	registryHooks = NoopRegistryHooks{}
}
