package pipeline

import (
	"container/list"
	"sync"

	"github.com/couchcryptid/county-income-map/internal/domain"
)

// viewCache is a thread-safe LRU of computed views keyed by source digest.
// The front of order is the most recently used view.
type viewCache struct {
	capacity int
	mu       sync.Mutex
	order    *list.List
	byDigest map[string]*list.Element
}

func newViewCache(capacity int) *viewCache {
	return &viewCache{
		capacity: max(capacity, 1),
		order:    list.New(),
		byDigest: make(map[string]*list.Element),
	}
}

func (c *viewCache) get(digest string) (domain.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byDigest[digest]
	if !ok {
		return domain.View{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(domain.View), true
}

func (c *viewCache) put(view domain.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byDigest[view.Digest]; ok {
		el.Value = view
		c.order.MoveToFront(el)
		return
	}

	c.byDigest[view.Digest] = c.order.PushFront(view)
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byDigest, oldest.Value.(domain.View).Digest)
	}
}

func (c *viewCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
