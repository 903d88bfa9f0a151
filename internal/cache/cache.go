// Package cache provides a bounded in-memory TTL cache with ETag support.
package cache

import (
	"crypto/md5"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// TTLs for the cached catalog views. Both only change when a sync runs,
// which purges the cache anyway.
const (
	TTLMetadata = 1 * time.Hour
	TTLBySeries = 1 * time.Hour
)

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe LRU of TTL entries.
type Cache struct {
	entries *lru.Cache
	enabled bool

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache holding at most size entries. Pass enabled=false to
// create a no-op cache.
func New(enabled bool, size int) *Cache {
	if size < 1 {
		size = 256
	}
	entries, err := lru.New(size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		enabled = false
	}
	return &Cache{entries: entries, enabled: enabled}
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	v, found := c.entries.Get(key)
	if !found {
		c.misses.Add(1)
		return nil, "", false
	}
	e := v.(entry)
	if time.Now().After(e.expiresAt) {
		c.entries.Remove(key)
		c.misses.Add(1)
		return nil, "", false
	}
	c.hits.Add(1)
	return e.data, e.etag, true
}

// Set stores a value with a TTL and returns its ETag.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.entries.Add(key, entry{
		data:      data,
		etag:      etag,
		expiresAt: time.Now().Add(ttl),
	})
	return etag
}

// Purge drops every entry.
func (c *Cache) Purge() {
	if c.enabled {
		c.entries.Purge()
	}
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]interface{} {
	keys := 0
	if c.enabled {
		keys = c.entries.Len()
	}
	return map[string]interface{}{
		"enabled": c.enabled,
		"keys":    keys,
		"hits":    c.hits.Load(),
		"misses":  c.misses.Load(),
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if an If-None-Match header matches the current ETag.
// The header may list several tags.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimSpace(candidate) == etag {
			return true
		}
	}
	return false
}
