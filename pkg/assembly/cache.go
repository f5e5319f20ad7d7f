package assembly

import (
	"container/list"
	"sync"

	"github.com/algorithmx/stratum/pkg/kernel"
)

// CacheKey identifies one memoized pairwise cut: target minus cutter,
// with a content hash of each operand's geometric state at the time
// the cut was computed. A lookup hits only when both hashes still
// match, so a stale result can never be returned for a moved layer.
type CacheKey struct {
	Target     int
	Cutter     int
	TargetHash uint64
	CutterHash uint64
}

// IntersectionCache memoizes pairwise boolean-cut results with LRU
// eviction at a fixed capacity. Safe for concurrent use; it is shared
// across the resolve worker pool.
type IntersectionCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[CacheKey]*list.Element
	order    *list.List // front is most recently used

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	key    CacheKey
	result kernel.Solid
}

// NewIntersectionCache creates a cache bounded to capacity entries.
// Capacity must be at least 1.
func NewIntersectionCache(capacity int) *IntersectionCache {
	if capacity < 1 {
		capacity = 1
	}
	return &IntersectionCache{
		capacity: capacity,
		entries:  make(map[CacheKey]*list.Element),
		order:    list.New(),
	}
}

// TryGet returns the memoized result for an exact key match.
func (c *IntersectionCache) TryGet(key CacheKey) (kernel.Solid, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return elem.Value.(*cacheEntry).result, true
}

// Put inserts or overwrites the result for key, evicting the least
// recently used entries past capacity.
func (c *IntersectionCache) Put(key CacheKey, result kernel.Solid) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).result = result
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, result: result})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// InvalidateLayer removes every entry referencing the layer as either
// operand. After this, no lookup involving the layer can hit until a
// fresh result is stored.
func (c *IntersectionCache) InvalidateLayer(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		key := elem.Value.(*cacheEntry).key
		if key.Target == i || key.Cutter == i {
			c.order.Remove(elem)
			delete(c.entries, key)
		}
		elem = next
	}
}

// Len returns the current entry count.
func (c *IntersectionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns the cumulative hit and miss counts.
func (c *IntersectionCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
