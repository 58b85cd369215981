// Package observability carries pipeline, cache and HTTP events to
// whoever wants them.
//
// Code that does work emits events through the accessors:
//
//	observability.Pipeline().OnLayoutStart(ctx, len(d.Regions))
//	observability.Cache().OnCacheHit(ctx, cache.PrefixLayout)
//
// and a program installs receivers once at startup:
//
//	stats := observability.NewStats()
//	observability.Register(stats)
//
// Until something is registered every event goes to [Noop].
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives parse, layout, color and render events.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, format string)
	OnParseComplete(ctx context.Context, regions, statements int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, regions int)
	// OnLayoutComplete reports the margin resolver's pass count and
	// whether it converged.
	OnLayoutComplete(ctx context.Context, passes int, converged bool, duration time.Duration, err error)

	// OnColorComplete reports how many regions fell back to the
	// fallback color.
	OnColorComplete(ctx context.Context, strategy string, degraded int, duration time.Duration)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. kind is the key prefix,
// "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// ServerHooks receives HTTP API requests.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// Noop implements every hook interface and ignores all events.
type Noop struct{}

func (Noop) OnParseStart(context.Context, string)                              {}
func (Noop) OnParseComplete(context.Context, int, int, time.Duration, error)   {}
func (Noop) OnLayoutStart(context.Context, int)                                {}
func (Noop) OnLayoutComplete(context.Context, int, bool, time.Duration, error) {}
func (Noop) OnColorComplete(context.Context, string, int, time.Duration)       {}
func (Noop) OnRenderStart(context.Context, []string)                           {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error)  {}
func (Noop) OnCacheHit(context.Context, string)                                {}
func (Noop) OnCacheMiss(context.Context, string)                               {}
func (Noop) OnCacheSet(context.Context, string, int)                           {}
func (Noop) OnRequest(context.Context, string, string)                         {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)    {}

var (
	mu       sync.RWMutex
	pipeline PipelineHooks = Noop{}
	cache    CacheHooks    = Noop{}
	server   ServerHooks   = Noop{}
)

// Register installs h for each hook interface it implements and leaves
// the others alone. It reports whether h implemented any of them.
func Register(h any) bool {
	mu.Lock()
	defer mu.Unlock()
	matched := false
	if p, ok := h.(PipelineHooks); ok {
		pipeline, matched = p, true
	}
	if c, ok := h.(CacheHooks); ok {
		cache, matched = c, true
	}
	if s, ok := h.(ServerHooks); ok {
		server, matched = s, true
	}
	return matched
}

// Reset puts [Noop] back for every interface.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	pipeline, cache, server = Noop{}, Noop{}, Noop{}
}

func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipeline
}

func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cache
}

func Server() ServerHooks {
	mu.RLock()
	defer mu.RUnlock()
	return server
}
