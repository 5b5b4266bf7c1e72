// Package cache provides the LRU cache used to memoize transliterated lines.
//
// Bible corpora repeat short lines often (headings, refrains, names), so the
// batch runner keeps recently produced outputs keyed by script, options and
// input text.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a generic LRU cache interface.
type Cache[K comparable, V any] interface {
	// Get retrieves a value from the cache.
	Get(key K) (V, bool)

	// Put stores a value in the cache.
	Put(key K, value V)

	// Clear removes all entries from the cache.
	Clear()

	// Len returns the number of entries in the cache.
	Len() int

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
}

// HitRate returns hits divided by lookups, or 0 when nothing was looked up.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Config contains cache configuration options.
type Config struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int

	// TTL is the time-to-live for entries (0 = no expiration).
	TTL time.Duration

	// OnEvict is called when an entry is evicted.
	OnEvict func(key, value any)
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{MaxSize: 4096}
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// lruCache is a thread-safe LRU cache implementation.
type lruCache[K comparable, V any] struct {
	mu      sync.Mutex
	config  Config
	entries map[K]*list.Element
	order   *list.List
	stats   Stats
}

// NewLRUCache creates a new LRU cache with the given configuration.
func NewLRUCache[K comparable, V any](config Config) Cache[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	return &lruCache[K, V]{
		config:  config,
		entries: make(map[K]*list.Element),
		order:   list.New(),
	}
}

func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.config.TTL > 0 && time.Now().After(e.expiresAt) {
		c.removeElement(el)
		c.stats.Misses++
		return zero, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return e.value, true
}

func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.config.TTL > 0 {
		expires = time.Now().Add(c.config.TTL)
	}

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expires
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expires})
	if c.config.MaxSize > 0 && c.order.Len() > c.config.MaxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
			c.stats.Evictions++
		}
	}
}

func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*list.Element)
	c.order.Init()
}

func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lruCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = c.order.Len()
	s.MaxSize = c.config.MaxSize
	return s
}

func (c *lruCache[K, V]) removeElement(el *list.Element) {
	c.order.Remove(el)
	e := el.Value.(*entry[K, V])
	delete(c.entries, e.key)
	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value)
	}
}

// LineKey identifies one memoized transliteration.
type LineKey struct {
	Script     string
	Capitalize bool
	Text       string
}

// LineCache memoizes transliterated lines. A LineCache built with size 0 is
// disabled: every lookup misses and nothing is stored.
type LineCache struct {
	cache    Cache[LineKey, string]
	disabled bool
}

// NewLineCache creates a line cache holding at most size entries.
func NewLineCache(size int) *LineCache {
	if size <= 0 {
		return &LineCache{disabled: true}
	}
	return &LineCache{cache: NewLRUCache[LineKey, string](Config{MaxSize: size})}
}

// Get returns the memoized output for key.
func (c *LineCache) Get(key LineKey) (string, bool) {
	if c.disabled {
		return "", false
	}
	return c.cache.Get(key)
}

// Put stores the output for key.
func (c *LineCache) Put(key LineKey, out string) {
	if c.disabled {
		return
	}
	c.cache.Put(key, out)
}

// Clear drops every memoized line. Called when a table is reloaded.
func (c *LineCache) Clear() {
	if c.disabled {
		return
	}
	c.cache.Clear()
}

// Stats returns cache statistics. A disabled cache reports zeros.
func (c *LineCache) Stats() Stats {
	if c.disabled {
		return Stats{}
	}
	return c.cache.Stats()
}
