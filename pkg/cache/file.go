package cache

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileCache keeps one file per entry under a directory, grouped by key
// kind ("layout", "artifact"). A file starts with an expiry header line
// followed by the raw value. Writes go through a temporary file and a
// rename, so concurrent CLI runs never observe partial entries.
type FileCache struct {
	dir string
}

// NewFileCache opens (and creates) a cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	expires, data, ok := decodeEntry(raw)
	if !ok || expired(expires, time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "expires %d\n", expires)
	w.Write(data)
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every entry.
func (c *FileCache) Clear(ctx context.Context) error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// Prune removes expired and unreadable entries and returns how many it
// removed.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	now := time.Now()
	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if expires, _, ok := decodeEntry(raw); ok && !expired(expires, now) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

func (c *FileCache) Close() error { return nil }

// path maps a key to dir/<kind>/<hh>/<hash>. The kind is everything
// before the last colon of the key.
func (c *FileCache) path(key string) string {
	kind := "misc"
	if i := strings.LastIndexByte(key, ':'); i > 0 {
		kind = strings.ReplaceAll(key[:i], ":", "_")
	}
	h := Hash([]byte(key))
	return filepath.Join(c.dir, kind, h[:2], h[2:])
}

func decodeEntry(raw []byte) (expires int64, data []byte, ok bool) {
	header, data, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return 0, nil, false
	}
	v, found := strings.CutPrefix(string(header), "expires ")
	if !found {
		return 0, nil, false
	}
	expires, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, nil, false
	}
	return expires, data, true
}

func expired(expires int64, now time.Time) bool {
	return expires != 0 && now.UnixNano() > expires
}

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
	_ Pruner  = (*FileCache)(nil)
)
