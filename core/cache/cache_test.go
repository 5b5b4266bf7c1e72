package cache

import (
	"sync"
	"testing"
	"time"
)

func TestLRUCache_BasicOperations(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 3})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		if v, ok := cache.Get(key); !ok || v != want {
			t.Errorf("Get(%s) = %d, %v; want %d, true", key, v, ok, want)
		}
	}
	if _, ok := cache.Get("d"); ok {
		t.Error("Get(d) should return false")
	}
	if n := cache.Len(); n != 3 {
		t.Errorf("Len() = %d; want 3", n)
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a")    // a is now most recently used
	cache.Put("c", 3) // evicts b

	if _, ok := cache.Get("b"); ok {
		t.Error("Get(b) should return false after eviction")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("Get(a) should survive eviction")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("Get(c) should be present")
	}
}

func TestLRUCache_Update(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})
	cache.Put("a", 1)
	cache.Put("a", 10)
	if v, _ := cache.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d; want 10", v)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d; want 1", cache.Len())
	}
}

func TestLRUCache_Clear(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 3})
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after Clear; want 0", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should return false after Clear")
	}
}

func TestLRUCache_TTL(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 3, TTL: 50 * time.Millisecond})
	cache.Put("a", 1)
	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	time.Sleep(100 * time.Millisecond)
	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should return false after TTL expiration")
	}
}

func TestLRUCache_Stats(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a")
	cache.Get("b")
	cache.Get("c")
	cache.Get("d")
	cache.Put("c", 3)

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 2 || stats.Evictions != 1 {
		t.Errorf("Stats = %+v; want 2 hits, 2 misses, 1 eviction", stats)
	}
	if stats.Size != 2 || stats.MaxSize != 2 {
		t.Errorf("Size/MaxSize = %d/%d; want 2/2", stats.Size, stats.MaxSize)
	}
	if got := stats.HitRate(); got != 0.5 {
		t.Errorf("HitRate() = %v; want 0.5", got)
	}
	if got := (Stats{}).HitRate(); got != 0 {
		t.Errorf("empty HitRate() = %v; want 0", got)
	}
}

func TestLRUCache_OnEvict(t *testing.T) {
	var evictedKey string
	var evictedValue int
	cache := NewLRUCache[string, int](Config{
		MaxSize: 2,
		OnEvict: func(key, value any) {
			evictedKey = key.(string)
			evictedValue = value.(int)
		},
	})
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)
	if evictedKey != "a" || evictedValue != 1 {
		t.Errorf("evicted %s=%d; want a=1", evictedKey, evictedValue)
	}
}

func TestLRUCache_UnlimitedAndNegativeSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		cache := NewLRUCache[int, int](Config{MaxSize: size})
		for i := 0; i < 500; i++ {
			cache.Put(i, i)
		}
		if cache.Len() != 500 {
			t.Errorf("MaxSize %d: Len() = %d; want 500", size, cache.Len())
		}
	}
}

func TestLRUCache_Concurrency(t *testing.T) {
	const maxSize = 100
	cache := NewLRUCache[int, int](Config{MaxSize: maxSize})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Put(id*100+j, j)
			}
		}(i)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Get(id*100 + j)
			}
		}(i)
	}
	wg.Wait()

	if n := cache.Len(); n > maxSize {
		t.Errorf("Len() = %d; want <= %d", n, maxSize)
	}
}

func TestLineCache(t *testing.T) {
	c := NewLineCache(2)
	hebrew := LineKey{Script: "Hebrew", Text: "בָּרָא"}
	title := LineKey{Script: "Hebrew", Capitalize: true, Text: "בָּרָא"}

	c.Put(hebrew, "bārāʼ")
	c.Put(title, "Bārāʼ")

	if got, ok := c.Get(hebrew); !ok || got != "bārāʼ" {
		t.Errorf("Get(hebrew) = %q, %v", got, ok)
	}
	if got, ok := c.Get(title); !ok || got != "Bārāʼ" {
		t.Errorf("Get(title) = %q, %v", got, ok)
	}

	c.Clear()
	if _, ok := c.Get(hebrew); ok {
		t.Error("Get after Clear should miss")
	}
	if s := c.Stats(); s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Stats() = %+v; want 2 hits, 1 miss", s)
	}
}

func TestLineCache_Disabled(t *testing.T) {
	c := NewLineCache(0)
	key := LineKey{Script: "Greek", Text: "λόγος"}
	c.Put(key, "logos")
	if _, ok := c.Get(key); ok {
		t.Error("disabled cache should never hit")
	}
	c.Clear()
	if s := c.Stats(); s != (Stats{}) {
		t.Errorf("disabled Stats() = %+v; want zero", s)
	}
}

func BenchmarkLineCache_PutGet(b *testing.B) {
	c := NewLineCache(1024)
	key := LineKey{Script: "Hebrew", Text: "בְּרֵאשִׁית"}
	for i := 0; i < b.N; i++ {
		c.Put(key, "bərēʼshiyt")
		c.Get(key)
	}
}
