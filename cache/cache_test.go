package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func Test_Cache_PutGet(t *testing.T) {
	c := New(10, 1<<20)
	key := Query(1, "analyze")
	c.Put(key, "a.py", 100, "report-a")

	v, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit")
	}
	if v.(string) != "report-a" {
		t.Errorf("unexpected value %v", v)
	}
}

func Test_Cache_MissThenHitCounters(t *testing.T) {
	c := New(10, 1<<20)
	key := Fingerprint(42)

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss")
	}
	c.Put(key, "a.py", 10, "v")
	if _, ok := c.Get(key); !ok {
		t.Fatal("expected hit")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", stats.Hits, stats.Misses)
	}
}

func Test_Cache_LRUEvictionOrder(t *testing.T) {
	c := New(3, 1<<20)
	for i := 1; i <= 3; i++ {
		c.Put(Fingerprint(i), fmt.Sprintf("f%d", i), 10, i)
	}

	// Touch 1 so 2 becomes least recently used.
	if _, ok := c.Get(Fingerprint(1)); !ok {
		t.Fatal("expected hit on 1")
	}
	c.Put(Fingerprint(4), "f4", 10, 4)

	if _, ok := c.Get(Fingerprint(2)); ok {
		t.Error("expected 2 to be evicted")
	}
	for _, k := range []Fingerprint{1, 3, 4} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %d to survive", k)
		}
	}
}

func Test_Cache_ByteBudgetEviction(t *testing.T) {
	c := New(100, 100)
	c.Put(Fingerprint(1), "a", 60, "a")
	c.Put(Fingerprint(2), "b", 60, "b")

	if _, ok := c.Get(Fingerprint(1)); ok {
		t.Error("expected oldest entry evicted to satisfy byte budget")
	}
	if _, ok := c.Get(Fingerprint(2)); !ok {
		t.Error("expected newest entry to remain")
	}

	if got := c.Stats().Bytes; got != 60 {
		t.Errorf("expected 60 bytes accounted, got %d", got)
	}
}

func Test_Cache_ReplaceSameKey(t *testing.T) {
	c := New(10, 1<<20)
	key := Fingerprint(7)
	c.Put(key, "a.py", 50, "old")
	c.Put(key, "a.py", 70, "new")

	v, _ := c.Get(key)
	if v.(string) != "new" {
		t.Errorf("expected replacement, got %v", v)
	}
	if c.Len() != 1 {
		t.Errorf("expected single entry, got %d", c.Len())
	}
	if got := c.Stats().Bytes; got != 70 {
		t.Errorf("expected 70 bytes after replace, got %d", got)
	}
}

func Test_Cache_InvalidatePath(t *testing.T) {
	c := New(10, 1<<20)
	fp := File("src/a.py", 120, time.Now())
	c.Put(Query(fp, "analyze"), "src/a.py", 10, "report")
	c.Put(Query(fp, "search", "TODO"), "src/a.py", 10, "matches")
	c.Put(Fingerprint(99), "src/b.py", 10, "other")

	c.InvalidatePath("src/a.py")

	if _, ok := c.Get(Query(fp, "analyze")); ok {
		t.Error("analyze entry should be gone")
	}
	if _, ok := c.Get(Query(fp, "search", "TODO")); ok {
		t.Error("search entry should be gone")
	}
	if _, ok := c.Get(Fingerprint(99)); !ok {
		t.Error("unrelated path must survive")
	}
}

func Test_Cache_ConcurrentAccess(t *testing.T) {
	c := New(64, 1<<20)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := Fingerprint(i % 50)
				c.Put(key, fmt.Sprintf("f%d", i%50), 16, i)
				c.Get(key)
				if i%17 == 0 {
					c.Invalidate(key)
				}
			}
		}(w)
	}
	wg.Wait()

	if c.Len() > 64 {
		t.Errorf("entry budget violated: %d", c.Len())
	}
}

func Test_Fingerprint_ChangesWithMetadata(t *testing.T) {
	now := time.Now()
	base := File("a.py", 100, now)

	if File("a.py", 101, now) == base {
		t.Error("size change must change fingerprint")
	}
	if File("a.py", 100, now.Add(time.Nanosecond)) == base {
		t.Error("mtime change must change fingerprint")
	}
	if File("b.py", 100, now) == base {
		t.Error("path change must change fingerprint")
	}
	if File("a.py", 100, now) != base {
		t.Error("identical metadata must reproduce fingerprint")
	}
}

func Test_Fingerprint_QuerySignatures(t *testing.T) {
	fp := File("a.py", 100, time.Now())
	if Query(fp, "analyze", "docs") == Query(fp, "analyze", "nodocs") {
		t.Error("different signatures must not collide")
	}
	if Query(fp, "analyze") != Query(fp, "analyze") {
		t.Error("query keys must be deterministic")
	}
}
