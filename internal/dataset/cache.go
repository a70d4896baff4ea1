// internal/dataset/cache.go
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/mwiater/evaldash/internal/evaluation"
)

// Digest returns the content key used by Cache.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Cache holds flattened tables keyed by the digest of the bytes they came from.
// Entries are never evicted implicitly.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*evaluation.Table
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*evaluation.Table)}
}

// Get returns the table cached under key.
func (c *Cache) Get(key string) (*evaluation.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[key]
	return t, ok
}

// Put stores t under key, replacing any previous entry.
func (c *Cache) Put(key string, t *evaluation.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = t
}

// Invalidate drops key and reports whether it was present.
func (c *Cache) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*evaluation.Table)
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
