package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type pipelineOnly struct{ Noop }

// cacheOnly hides the pipeline and server methods of Noop.
type cacheOnly struct{ hits int }

func (c *cacheOnly) OnCacheHit(context.Context, string)      { c.hits++ }
func (c *cacheOnly) OnCacheMiss(context.Context, string)     {}
func (c *cacheOnly) OnCacheSet(context.Context, string, int) {}

func TestRegisterDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(Noop); !ok {
		t.Errorf("Pipeline() = %T, want Noop", Pipeline())
	}
	if _, ok := Cache().(Noop); !ok {
		t.Errorf("Cache() = %T, want Noop", Cache())
	}
	if _, ok := Server().(Noop); !ok {
		t.Errorf("Server() = %T, want Noop", Server())
	}
}

func TestRegisterPartial(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	c := &cacheOnly{}
	if !Register(c) {
		t.Fatal("Register should accept cache hooks")
	}
	if Cache() != CacheHooks(c) {
		t.Error("cache hooks not installed")
	}
	if _, ok := Pipeline().(Noop); !ok {
		t.Error("pipeline hooks should stay untouched")
	}
	Cache().OnCacheHit(context.Background(), "layout")
	if c.hits != 1 {
		t.Errorf("hits = %d, want 1", c.hits)
	}

	if Register("not a hook") || Register(nil) {
		t.Error("Register should reject values without hook methods")
	}
	if Cache() != CacheHooks(c) {
		t.Error("rejected values should not replace hooks")
	}
}

func TestRegisterAll(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	p := &pipelineOnly{}
	Register(p)
	if Pipeline() != PipelineHooks(p) || Cache() != CacheHooks(p) || Server() != ServerHooks(p) {
		t.Error("embedding Noop implements every interface")
	}

	Reset()
	if _, ok := Server().(Noop); !ok {
		t.Error("Reset should restore Noop")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := NewStats()

	s.OnParseComplete(ctx, 3, 5, time.Millisecond, nil)
	s.OnParseComplete(ctx, 0, 0, time.Millisecond, errors.New("bad"))
	s.OnLayoutComplete(ctx, 2, true, 10*time.Millisecond, nil)
	s.OnLayoutComplete(ctx, 7, false, 5*time.Millisecond, nil)
	s.OnLayoutComplete(ctx, 0, false, 0, errors.New("bad"))
	s.OnColorComplete(ctx, "balanced", 2, time.Millisecond)
	s.OnRenderComplete(ctx, []string{"svg", "png"}, time.Millisecond, nil)
	s.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	s.OnRenderComplete(ctx, []string{"pdf"}, time.Millisecond, errors.New("bad"))
	s.OnCacheHit(ctx, "layout")
	s.OnCacheMiss(ctx, "artifact")
	s.OnCacheMiss(ctx, "artifact")
	s.OnCacheSet(ctx, "artifact", 100)
	s.OnRequest(ctx, "POST", "/v1/layout")
	s.OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
	s.OnRequest(ctx, "POST", "/v1/layout")
	s.OnResponse(ctx, "POST", "/v1/layout", 422, time.Millisecond)
	s.OnRequest(ctx, "GET", "/healthz")

	got := s.Snapshot()
	checks := []struct {
		name      string
		got, want int64
	}{
		{"parses", got.Parses, 2},
		{"parse errors", got.ParseErrors, 1},
		{"layouts", got.Layouts, 3},
		{"layout errors", got.LayoutErrors, 1},
		{"unconverged", got.Unconverged, 1},
		{"degraded", got.Degraded, 2},
		{"svg renders", got.Renders["svg"], 2},
		{"png renders", got.Renders["png"], 1},
		{"pdf renders", got.Renders["pdf"], 0},
		{"render errors", got.RenderErrors, 1},
		{"layout hits", got.CacheHits["layout"], 1},
		{"artifact misses", got.CacheMisses["artifact"], 2},
		{"bytes written", got.CacheWritten, 100},
		{"requests", got.Requests, 3},
		{"in flight", got.InFlight, 1},
		{"2xx", got.Statuses["2xx"], 1},
		{"4xx", got.Statuses["4xx"], 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if got.LayoutTime != 15*time.Millisecond {
		t.Errorf("layout time = %v, want 15ms", got.LayoutTime)
	}

	// Snapshots are copies.
	got.Renders["svg"] = 99
	if s.Snapshot().Renders["svg"] != 2 {
		t.Error("mutating a snapshot changed the stats")
	}
}

func TestStatsConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStats()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.OnCacheHit(ctx, "layout")
				s.OnRequest(ctx, "GET", "/")
				s.OnResponse(ctx, "GET", "/", 200, 0)
			}
		}()
	}
	wg.Wait()

	got := s.Snapshot()
	if got.CacheHits["layout"] != 800 || got.Requests != 800 || got.InFlight != 0 {
		t.Errorf("snapshot = %+v", got)
	}
}
