package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"ragagent/internal/domain"
)

// AnswerCache memoizes full query answers keyed by (question, top-k).
// Entries expire after the TTL and are invalidated wholesale whenever the
// index generation changes, so ingestion never serves stale answers.
type AnswerCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
}

type cacheEntry struct {
	answer    *domain.QueryAnswer
	timestamp time.Time
	indexGen  uint64
}

func NewAnswerCache(maxSize int, ttl time.Duration) *AnswerCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(question string, topK int) string {
	data := []byte(question)
	data = append(data, byte(topK>>8), byte(topK))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *AnswerCache) Get(question string, topK int) (*domain.QueryAnswer, bool) {
	c.mu.RLock()
	key := cacheKey(question, topK)
	entry, exists := c.entries[key]
	currentGen := c.indexGen
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if entry.indexGen != currentGen || time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.answer, true
}

func (c *AnswerCache) Put(question string, topK int, answer *domain.QueryAnswer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(question, topK)
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = &cacheEntry{
		answer:    answer,
		timestamp: time.Now(),
		indexGen:  c.indexGen,
	}
}

// Invalidate bumps the index generation; all existing entries become stale.
func (c *AnswerCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexGen++
}
