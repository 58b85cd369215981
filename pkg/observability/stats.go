package observability

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Stats counts events in memory. It implements every hook interface, so
// one value registered with [Register] sees the whole process.
type Stats struct {
	mu    sync.Mutex
	start time.Time
	snap  Snapshot
}

// Snapshot is a point-in-time copy of [Stats].
type Snapshot struct {
	Uptime time.Duration `json:"uptime_ns"`

	Parses      int64 `json:"parses"`
	ParseErrors int64 `json:"parse_errors"`

	Layouts      int64 `json:"layouts"`
	LayoutErrors int64 `json:"layout_errors"`
	// Unconverged counts layouts whose margins hit the pass limit.
	Unconverged int64 `json:"unconverged"`
	// Degraded counts regions colored with the fallback color.
	Degraded   int64         `json:"degraded_regions"`
	LayoutTime time.Duration `json:"layout_time_ns"`

	Renders      map[string]int64 `json:"renders"`
	RenderErrors int64            `json:"render_errors"`

	CacheHits    map[string]int64 `json:"cache_hits"`
	CacheMisses  map[string]int64 `json:"cache_misses"`
	CacheWritten int64            `json:"cache_bytes_written"`

	Requests int64            `json:"requests"`
	InFlight int64            `json:"in_flight"`
	Statuses map[string]int64 `json:"statuses"`
}

func NewStats() *Stats {
	return &Stats{start: time.Now(), snap: Snapshot{
		Renders:     map[string]int64{},
		CacheHits:   map[string]int64{},
		CacheMisses: map[string]int64{},
		Statuses:    map[string]int64{},
	}}
}

// Snapshot copies the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snap
	out.Uptime = time.Since(s.start)
	out.Renders = maps.Clone(s.snap.Renders)
	out.CacheHits = maps.Clone(s.snap.CacheHits)
	out.CacheMisses = maps.Clone(s.snap.CacheMisses)
	out.Statuses = maps.Clone(s.snap.Statuses)
	return out
}

func (s *Stats) update(f func(*Snapshot)) {
	s.mu.Lock()
	f(&s.snap)
	s.mu.Unlock()
}

func (s *Stats) OnParseStart(context.Context, string) {}

func (s *Stats) OnParseComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	s.update(func(n *Snapshot) {
		n.Parses++
		if err != nil {
			n.ParseErrors++
		}
	})
}

func (s *Stats) OnLayoutStart(context.Context, int) {}

func (s *Stats) OnLayoutComplete(_ context.Context, _ int, converged bool, d time.Duration, err error) {
	s.update(func(n *Snapshot) {
		n.Layouts++
		n.LayoutTime += d
		switch {
		case err != nil:
			n.LayoutErrors++
		case !converged:
			n.Unconverged++
		}
	})
}

func (s *Stats) OnColorComplete(_ context.Context, _ string, degraded int, _ time.Duration) {
	s.update(func(n *Snapshot) { n.Degraded += int64(degraded) })
}

func (s *Stats) OnRenderStart(context.Context, []string) {}

func (s *Stats) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	s.update(func(n *Snapshot) {
		if err != nil {
			n.RenderErrors++
			return
		}
		for _, f := range formats {
			n.Renders[f]++
		}
	})
}

func (s *Stats) OnCacheHit(_ context.Context, kind string) {
	s.update(func(n *Snapshot) { n.CacheHits[kind]++ })
}

func (s *Stats) OnCacheMiss(_ context.Context, kind string) {
	s.update(func(n *Snapshot) { n.CacheMisses[kind]++ })
}

func (s *Stats) OnCacheSet(_ context.Context, _ string, size int) {
	s.update(func(n *Snapshot) { n.CacheWritten += int64(size) })
}

func (s *Stats) OnRequest(context.Context, string, string) {
	s.update(func(n *Snapshot) {
		n.Requests++
		n.InFlight++
	})
}

// OnResponse buckets statuses by class ("2xx", "4xx", ...).
func (s *Stats) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	class := string(rune('0'+status/100)) + "xx"
	s.update(func(n *Snapshot) {
		n.InFlight--
		n.Statuses[class]++
	})
}

var (
	_ PipelineHooks = (*Stats)(nil)
	_ CacheHooks    = (*Stats)(nil)
	_ ServerHooks   = (*Stats)(nil)
)
