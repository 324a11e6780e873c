package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[string](2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Set("a", "1")
	c.Set("b", "2")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("get a = %q, %v", v, ok)
	}

	// "a" was just touched, so adding "c" evicts "b".
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a retained")
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](4, 10*time.Millisecond)
	c.Set("k", 42)
	if v, ok := c.Get("k"); !ok || v != 42 {
		t.Fatalf("get = %d, %v", v, ok)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}

	c.Set("x", 1)
	c.Set("y", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("z", 3)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("cleaned %d, want 2", n)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
}

func TestLRUGetOrCompute(t *testing.T) {
	c := NewLRU[int](4, time.Minute)

	calls := 0
	compute := func() int {
		calls++
		return 7
	}
	if v := c.GetOrCompute("k", compute); v != 7 {
		t.Fatalf("got %d", v)
	}
	if v := c.GetOrCompute("k", compute); v != 7 {
		t.Fatalf("got %d", v)
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times, want 1", calls)
	}

	c.Delete("k")
	c.GetOrCompute("k", compute)
	if calls != 2 {
		t.Fatalf("compute ran %d times after delete, want 2", calls)
	}
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU[string](2, time.Minute)
	c.Set("k", "old")
	c.Set("k", "new")
	if v, _ := c.Get("k"); v != "new" {
		t.Fatalf("got %q", v)
	}
	if c.Size() != 1 {
		t.Fatalf("overwrite grew the cache: %d", c.Size())
	}
}
