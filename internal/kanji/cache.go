package kanji

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/hyperjump/jiten/internal/models"
)

// DefaultCacheCapacity is the number of kanji kept in memory.
const DefaultCacheCapacity = 10000

// Cache is an LRU cache of kanji keyed by id with a literal index.
type Cache struct {
	mu        sync.Mutex
	lru       *simplelru.LRU[int, *models.Kanji]
	byLiteral map[string]int
}

// NewCache creates a new cache with the given capacity.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c := &Cache{byLiteral: make(map[string]int)}
	lru, err := simplelru.NewLRU[int, *models.Kanji](capacity, func(_ int, k *models.Kanji) {
		delete(c.byLiteral, k.Literal)
	})
	if err != nil {
		return nil, fmt.Errorf("create kanji cache: %w", err)
	}
	c.lru = lru
	return c, nil
}

// ByLiterals returns cached kanji in the order of literals and the literals
// that were not cached.
func (c *Cache) ByLiterals(literals []string) ([]*models.Kanji, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hits []*models.Kanji
	var misses []string
	for _, l := range literals {
		if id, ok := c.byLiteral[l]; ok {
			if k, ok := c.lru.Get(id); ok {
				hits = append(hits, k)
				continue
			}
		}
		misses = append(misses, l)
	}
	return hits, misses
}

// ByIDs returns cached kanji in the order of ids and the ids that were not
// cached.
func (c *Cache) ByIDs(ids []int) ([]*models.Kanji, []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hits []*models.Kanji
	var misses []int
	for _, id := range ids {
		if k, ok := c.lru.Get(id); ok {
			hits = append(hits, k)
			continue
		}
		misses = append(misses, id)
	}
	return hits, misses
}

// Add stores kanji, evicting the least recently used entries at capacity.
func (c *Cache) Add(kanji ...*models.Kanji) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range kanji {
		if old, ok := c.lru.Peek(k.ID); ok && old.Literal != k.Literal {
			delete(c.byLiteral, old.Literal)
		}
		c.lru.Add(k.ID, k)
		c.byLiteral[k.Literal] = k.ID
	}
}

// Len returns the number of cached kanji.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
