package cache

import (
	"fmt"
	"testing"
	"time"

	"ragagent/internal/domain"
)

func answer(text string) *domain.QueryAnswer {
	return &domain.QueryAnswer{Answer: text}
}

func TestAnswerCacheHitAndMiss(t *testing.T) {
	c := NewAnswerCache(10, time.Minute)

	if _, ok := c.Get("what color is the sky", 5); ok {
		t.Error("expected miss on empty cache")
	}

	c.Put("what color is the sky", 5, answer("blue"))

	got, ok := c.Get("what color is the sky", 5)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Answer != "blue" {
		t.Errorf("unexpected cached answer: %q", got.Answer)
	}

	// Same question with a different top-k is a different entry.
	if _, ok := c.Get("what color is the sky", 3); ok {
		t.Error("expected miss for different top-k")
	}
}

func TestAnswerCacheInvalidate(t *testing.T) {
	c := NewAnswerCache(10, time.Minute)

	c.Put("q", 5, answer("stale"))
	c.Invalidate()

	if _, ok := c.Get("q", 5); ok {
		t.Error("entry survived invalidation")
	}

	// Entries written after the bump are served.
	c.Put("q", 5, answer("fresh"))
	got, ok := c.Get("q", 5)
	if !ok || got.Answer != "fresh" {
		t.Errorf("expected fresh entry, got %v %v", got, ok)
	}
}

func TestAnswerCacheTTL(t *testing.T) {
	c := NewAnswerCache(10, time.Millisecond)

	c.Put("q", 5, answer("short lived"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("q", 5); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestAnswerCacheEviction(t *testing.T) {
	c := NewAnswerCache(3, time.Minute)

	for i := 0; i < 4; i++ {
		c.Put(fmt.Sprintf("question %d", i), 5, answer(fmt.Sprintf("answer %d", i)))
	}

	if _, ok := c.Get("question 0", 5); ok {
		t.Error("oldest entry was not evicted")
	}
	for i := 1; i < 4; i++ {
		if _, ok := c.Get(fmt.Sprintf("question %d", i), 5); !ok {
			t.Errorf("entry %d was evicted too early", i)
		}
	}
}

func TestAnswerCacheDefaults(t *testing.T) {
	c := NewAnswerCache(0, 0)

	c.Put("q", 5, answer("a"))
	if _, ok := c.Get("q", 5); !ok {
		t.Error("cache with defaulted limits should still serve entries")
	}
}
