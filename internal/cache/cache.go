// Package cache provides the fetch-response cache.
// Entries are content-addressed: the key is derived from the normalized
// upstream query plus a version tag, so bumping the tag invalidates
// everything previously stored.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"
)

// Cache maps a content-addressed key to a previously fetched raw response.
type Cache interface {
	// Get retrieves a cached value
	Get(key string) (string, bool)

	// Put stores a value with a time-to-live
	Put(key string, value string, ttl time.Duration)
}

// Key derives the cache key for a query under a version tag.
// The MD5 hex digest is truncated to 32 characters.
func Key(version, query string) string {
	sum := md5.Sum([]byte(version + "::" + query))
	return hex.EncodeToString(sum[:])[:32]
}

type entry struct {
	value   string
	expires time.Time
}

// Memory is an in-process Cache safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get retrieves a cached value, expiring it lazily.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if m.now().After(e.expires) {
		delete(m.entries, key)
		return "", false
	}
	return e.value, true
}

// Put stores a value with a time-to-live.
func (m *Memory) Put(key string, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{
		value:   value,
		expires: m.now().Add(ttl),
	}
}

// Size returns the number of cached entries
func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
