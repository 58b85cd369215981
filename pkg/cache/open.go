package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend string `json:"backend" toml:"backend"`
	// Dir is the FileCache directory. Empty uses [DefaultDir].
	Dir string `json:"dir,omitempty" toml:"dir"`
	// URL is the Redis URL or MongoDB URI.
	URL string `json:"url,omitempty" toml:"url"`
	// Prefix namespaces Redis keys.
	Prefix     string `json:"prefix,omitempty" toml:"prefix"`
	Database   string `json:"database,omitempty" toml:"database"`
	Collection string `json:"collection,omitempty" toml:"collection"`
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "regionmap")
	}
	return filepath.Join(os.TempDir(), "regionmap-cache")
}

// Open creates the configured backend. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFileCache(dir)
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		if cfg.URL == "" {
			return nil, fmt.Errorf("redis cache requires a url")
		}
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = "regionmap:"
		}
		return NewRedisCache(ctx, cfg.URL, prefix)
	case BackendMongo:
		if cfg.URL == "" {
			return nil, fmt.Errorf("mongo cache requires a url")
		}
		db, coll := cfg.Database, cfg.Collection
		if db == "" {
			db = "regionmap"
		}
		if coll == "" {
			coll = "cache"
		}
		return NewMongoCache(ctx, cfg.URL, db, coll)
	}
	return nil, fmt.Errorf("unknown cache backend %q (use none, file, redis or mongo)", cfg.Backend)
}
