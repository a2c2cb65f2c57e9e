// Package cache keeps decoded frame sequences in memory, bounded by an
// approximate byte budget and evicted least recently used first.
//
// The cache is written by the UI thread only and is not safe for concurrent use.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"

	"github.com/nekomimist/nvpix/internal/decode"
	"github.com/nekomimist/nvpix/internal/metrics"
	"github.com/nekomimist/nvpix/internal/navigator"
	"github.com/nekomimist/nvpix/internal/worker"
)

// maxEntries bounds the recency list; the byte budget is the real limit.
const maxEntries = 1 << 16

// Entry is one cached decode result. Entries are never modified after
// insertion except for LastAccess.
type Entry struct {
	Path       navigator.ImagePath
	Generation uint64
	Seq        *decode.FrameSequence
	LastAccess time.Time
	Cost       int64
}

// Requester accepts decode requests on a miss.
type Requester interface {
	Submit(req worker.Request) bool
}

// Cache maps image paths to decoded sequences.
type Cache struct {
	lru     *simplelru.LRU[string, *Entry]
	budget  int64
	cost    int64
	pinned  string
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a cache holding at most budget bytes of frames.
func New(budget int64, logger *zap.Logger, m *metrics.Metrics) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		budget:  budget,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
	// NewLRU only fails for a non-positive size.
	c.lru, _ = simplelru.NewLRU[string, *Entry](maxEntries, c.onRemove)
	return c
}

func (c *Cache) onRemove(key string, e *Entry) {
	c.cost -= e.Cost
	c.metrics.CacheCost(c.cost)
}

// GetOrRequest returns the cached sequence for path, updating its recency.
// On a miss a decode request for generation is dispatched through r.
func (c *Cache) GetOrRequest(path navigator.ImagePath, generation uint64, r Requester) (*decode.FrameSequence, bool) {
	if e, ok := c.lru.Get(path.Key()); ok {
		e.LastAccess = c.now()
		c.metrics.CacheLookup(true)
		c.logger.Debug("cache hit", zap.String("path", path.Path))
		return e.Seq, true
	}
	c.metrics.CacheLookup(false)
	c.logger.Debug("cache miss", zap.String("path", path.Path), zap.Uint64("generation", generation))
	if r != nil {
		r.Submit(worker.Request{Path: path, Generation: generation, ScaleHint: 1, Priority: worker.PriorityNormal})
	}
	return nil, false
}

// Prefetch dispatches a low priority request for path unless it is cached.
func (c *Cache) Prefetch(path navigator.ImagePath, generation uint64, r Requester) bool {
	if c.lru.Contains(path.Key()) || r == nil {
		return false
	}
	c.logger.Debug("prefetch", zap.String("path", path.Path))
	return r.Submit(worker.Request{Path: path, Generation: generation, ScaleHint: 1, Priority: worker.PriorityPrefetch})
}

// Insert stores seq for path, replacing any previous entry and evicting least
// recently used entries until the total cost fits the budget. The pinned entry
// is never evicted. An entry that cannot fit is dropped unless it is the pinned
// one, which is always kept.
func (c *Cache) Insert(path navigator.ImagePath, generation uint64, seq *decode.FrameSequence) bool {
	key := path.Key()
	c.lru.Remove(key)

	cost := seq.Cost()
	if key != c.pinned && cost > c.budget-c.pinnedCost() {
		c.logger.Debug("entry exceeds cache budget",
			zap.String("path", path.Path), zap.Int64("cost", cost), zap.Int64("budget", c.budget))
		return false
	}
	for c.cost+cost > c.budget {
		if !c.evictOne() {
			break
		}
	}

	c.lru.Add(key, &Entry{
		Path:       path,
		Generation: generation,
		Seq:        seq,
		LastAccess: c.now(),
		Cost:       cost,
	})
	c.cost += cost
	c.metrics.CacheCost(c.cost)
	return true
}

func (c *Cache) pinnedCost() int64 {
	if e, ok := c.lru.Peek(c.pinned); ok {
		return e.Cost
	}
	return 0
}

// evictOne removes the least recently used entry that is not pinned.
func (c *Cache) evictOne() bool {
	for _, key := range c.lru.Keys() {
		if key == c.pinned {
			continue
		}
		c.lru.Remove(key)
		c.metrics.CacheEvicted()
		c.logger.Debug("cache evict", zap.String("key", key), zap.Int64("cost", c.cost))
		return true
	}
	return false
}

// Touch marks path as used now.
func (c *Cache) Touch(path navigator.ImagePath) {
	if e, ok := c.lru.Get(path.Key()); ok {
		e.LastAccess = c.now()
	}
}

// Pin protects path from eviction while it is displayed. Pinning another path
// releases the previous one.
func (c *Cache) Pin(path navigator.ImagePath) {
	c.pinned = path.Key()
}

// Unpin releases the pinned entry.
func (c *Cache) Unpin() {
	c.pinned = ""
}

// Get returns the entry for path without touching its recency.
func (c *Cache) Get(path navigator.ImagePath) (*Entry, bool) {
	return c.lru.Peek(path.Key())
}

func (c *Cache) Contains(path navigator.ImagePath) bool {
	return c.lru.Contains(path.Key())
}

func (c *Cache) Remove(path navigator.ImagePath) {
	c.lru.Remove(path.Key())
}

// Purge drops every entry, including the pinned one.
func (c *Cache) Purge() {
	c.lru.Purge()
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

// Cost returns the total cost of all entries in bytes.
func (c *Cache) Cost() int64 {
	return c.cost
}

func (c *Cache) Budget() int64 {
	return c.budget
}
