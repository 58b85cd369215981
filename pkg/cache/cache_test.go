package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newFileCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); hit || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want a clean miss", data, hit, err)
	}
	if cleared, _ := Clear(ctx, c); cleared {
		t.Error("NullCache has nothing to clear")
	}
	if _, ok, _ := Prune(ctx, c); ok {
		t.Error("NullCache has nothing to prune")
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)

	// Values may contain newlines; only the first line is the header.
	value := []byte("{\n  \"width\": 3\n}\n")
	if err := c.Set(ctx, "layout:abc", value, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if string(data) != string(value) {
		t.Errorf("Get = %q, want %q", data, value)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheLayout(t *testing.T) {
	c := newFileCache(t)

	tests := []struct {
		key  string
		kind string
	}{
		{"layout:abc", "layout"},
		{"artifact:abc", "artifact"},
		{"staging:layout:abc", "staging_layout"},
		{"plain", "misc"},
	}
	for _, tt := range tests {
		rel, err := filepath.Rel(c.Dir(), c.path(tt.key))
		if err != nil {
			t.Fatal(err)
		}
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) != 3 || parts[0] != tt.kind || len(parts[1]) != 2 {
			t.Errorf("path(%q) = %s, want %s/<hh>/<hash>", tt.key, rel, tt.kind)
		}
	}
}

func TestFileCacheNoTempLeftovers(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)
	if err := c.Set(ctx, "layout:x", []byte("1"), 0); err != nil {
		t.Fatal(err)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(c.path("layout:x")), ".tmp-*"))
	if len(matches) != 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed on read")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL should hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)

	for _, raw := range []string{"no header", "expires soon\nx", "ttl 5\nx"} {
		path := c.path("broken")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, hit, err := c.Get(ctx, "broken"); err != nil || hit {
			t.Errorf("%q: want a clean miss, got hit=%v err=%v", raw, hit, err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%q: corrupt entry should be removed", raw)
		}
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)

	_ = c.Set(ctx, "layout:old", []byte("1"), time.Nanosecond)
	_ = c.Set(ctx, "artifact:old", []byte("2"), time.Nanosecond)
	_ = c.Set(ctx, "layout:fresh", []byte("3"), time.Hour)
	_ = c.Set(ctx, "layout:forever", []byte("4"), 0)
	time.Sleep(2 * time.Millisecond)

	n, ok, err := Prune(ctx, c)
	if err != nil || !ok {
		t.Fatalf("Prune: ok=%v err=%v", ok, err)
	}
	if n != 2 {
		t.Errorf("pruned %d entries, want 2", n)
	}
	for _, k := range []string{"layout:fresh", "layout:forever"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("%s should survive pruning", k)
		}
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)
	for _, k := range []string{"layout:a", "artifact:b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	cleared, err := Clear(ctx, c)
	if err != nil || !cleared {
		t.Fatalf("Clear: cleared=%v err=%v", cleared, err)
	}
	for _, k := range []string{"layout:a", "artifact:b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s should be cleared", k)
		}
	}
	if err := c.Set(ctx, "d", []byte("d"), 0); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Config{Backend: BackendNone})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	dir := t.TempDir()
	c, err = Open(ctx, Config{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*FileCache)
	if !ok || fc.Dir() != dir {
		t.Errorf("default backend = %T", c)
	}

	for _, cfg := range []Config{
		{Backend: BackendRedis},
		{Backend: BackendMongo},
		{Backend: "memcached"},
	} {
		if _, err := Open(ctx, cfg); err == nil {
			t.Errorf("Open(%+v) should fail", cfg)
		}
	}
}

func TestHashJSON(t *testing.T) {
	a, err := HashJSON(map[string]int{"x": 1, "y": 2})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashJSON(map[string]int{"y": 2, "x": 1})
	if a != b {
		t.Error("map key order should not change the hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
	if a != Hash([]byte(`{"x":1,"y":2}`)) {
		t.Error("HashJSON should hash the JSON encoding")
	}
	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("unencodable value should fail")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := LayoutKeyOpts{Strategy: "balanced", ShowHeaders: true}

	key := k.LayoutKey("h", base)
	if key != k.LayoutKey("h", base) {
		t.Error("LayoutKey should be deterministic")
	}
	if !strings.HasPrefix(key, PrefixLayout+":") {
		t.Errorf("LayoutKey prefix: %s", key)
	}

	variants := []LayoutKeyOpts{
		{Strategy: "perceptual", ShowHeaders: true},
		{Strategy: "balanced"},
		{Strategy: "balanced", ShowHeaders: true, Merge: true},
		{Strategy: "balanced", ShowHeaders: true, Palette: []string{"#ff0000"}},
	}
	for _, v := range variants {
		if k.LayoutKey("h", v) == key {
			t.Errorf("%+v should change the layout key", v)
		}
	}
	if k.LayoutKey("other", base) == key {
		t.Error("input hash should change the layout key")
	}

	svg := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	png := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png", Scale: 2})
	if svg == png || !strings.HasPrefix(svg, PrefixArtifact+":") {
		t.Errorf("artifact keys: %s, %s", svg, png)
	}
}

func TestNewKeyerNamespace(t *testing.T) {
	if _, ok := NewKeyer("").(DefaultKeyer); !ok {
		t.Error("empty namespace should give the default keyer")
	}

	k := NewKeyer("staging")
	opts := LayoutKeyOpts{Strategy: "balanced"}
	if got, want := k.LayoutKey("h", opts), "staging:"+(DefaultKeyer{}).LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}
	if ak := k.ArtifactKey("h", ArtifactKeyOpts{Format: "pdf"}); !strings.HasPrefix(ak, "staging:artifact:") {
		t.Errorf("ArtifactKey = %s", ak)
	}
}

var errDown = errors.New("connection refused")

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	err := Transient(errDown)
	if !IsTransient(err) || !errors.Is(err, errDown) || err.Error() != errDown.Error() {
		t.Errorf("Transient(%v) = %v", errDown, err)
	}
	if IsTransient(errDown) {
		t.Error("unmarked errors are not transient")
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Delay: time.Millisecond}

	tests := []struct {
		name      string
		failures  int
		transient bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent failure", 5, false, 1, true},
		{"recovers", 2, true, 3, false},
		{"gives up", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Do(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.transient {
						return Transient(errDown)
					}
					return errDown
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Backoff{Attempts: 3, Delay: time.Hour}.Do(ctx, func() error {
		calls++
		return Transient(errDown)
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("err=%v calls=%d, want context.Canceled after one call", err, calls)
	}
}

func TestBackoffZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Do(context.Background(), func() error {
		calls++
		return Transient(errDown)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want at least one attempt", calls)
	}
}
