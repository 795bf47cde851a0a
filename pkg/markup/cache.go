package markup

import (
	"container/list"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultCacheSize is the number of parsed templates kept per compiler.
const DefaultCacheSize = 256

// Stats reports template cache activity.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// cache is a bounded LRU of parsed templates keyed by their chunks.
type cache struct {
	mu      sync.Mutex
	max     int
	entries map[uint64]*list.Element
	order   *list.List // front is most recent
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	hash uint64
	key  string
	sk   *skeleton
}

func newCache(max int) *cache {
	return &cache{
		max:     max,
		entries: make(map[uint64]*list.Element),
		order:   list.New(),
	}
}

// cacheKey joins chunks with a separator that cannot appear in markup.
func cacheKey(chunks []string) (uint64, string) {
	key := strings.Join(chunks, "\x00")
	return xxhash.Sum64String(key), key
}

func (c *cache) get(chunks []string) (*skeleton, uint64, string) {
	hash, key := cacheKey(chunks)
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[hash]; ok {
		e := el.Value.(*cacheEntry)
		if e.key == key {
			c.order.MoveToFront(el)
			c.hits++
			return e.sk, hash, key
		}
	}
	c.misses++
	return nil, hash, key
}

func (c *cache) put(hash uint64, key string, sk *skeleton) {
	if c.max <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[hash]; ok {
		el.Value = &cacheEntry{hash: hash, key: key, sk: sk}
		c.order.MoveToFront(el)
		return
	}
	c.entries[hash] = c.order.PushFront(&cacheEntry{hash: hash, key: key, sk: sk})
	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).hash)
	}
}

func (c *cache) stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: c.order.Len()}
}

func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*list.Element)
	c.order.Init()
	c.hits, c.misses = 0, 0
}
