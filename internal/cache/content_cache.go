package cache

import (
	"fmt"
	"sync"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/neuralspace/internal/telemetry/metrics"
)

// Content kinds; an admin write to a kind invalidates every cached entry of it.
const (
	KindProjects = "projects"
	KindBlogs    = "blogs"
	KindPages    = "pages"
	// KindNeural is the combined projects + blogs scene feed.
	KindNeural = "neural"
)

const (
	megabyte          = 1024 * 1024
	DefaultSize       = 16 * megabyte
	DefaultTTLSeconds = 10 * 60
)

// ContentCache keeps rendered public JSON responses. It never holds
// anything auth related. A nil *ContentCache is a valid, disabled cache.
type ContentCache struct {
	cache          *freecache.Cache
	ttlSeconds     int
	metricsManager *metrics.Manager

	mutex       sync.RWMutex
	generations map[string]uint64
}

func NewContentCache(sizeBytes, ttlSeconds int, metricsManager *metrics.Manager) *ContentCache {
	if sizeBytes <= 0 {
		sizeBytes = DefaultSize
	}
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultTTLSeconds
	}
	return &ContentCache{
		cache:          freecache.NewCache(sizeBytes),
		ttlSeconds:     ttlSeconds,
		metricsManager: metricsManager,
		generations:    map[string]uint64{},
	}
}

func (c *ContentCache) Get(kind, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.get(c.cacheKey(kind, key))
}

func (c *ContentCache) get(cacheKey []byte) ([]byte, bool) {
	value, err := c.cache.Get(cacheKey)
	if err != nil {
		c.countLookup("miss")
		return nil, false
	}
	c.countLookup("hit")
	return value, true
}

func (c *ContentCache) Set(kind, key string, value []byte) {
	if c == nil {
		return
	}
	c.set(c.cacheKey(kind, key), value)
}

func (c *ContentCache) set(cacheKey, value []byte) {
	if err := c.cache.Set(cacheKey, value, c.ttlSeconds); err != nil {
		log.Errorf("content cache set [%s]: %s", cacheKey, err)
	}
}

// Invalidate drops all entries of the given kinds. Stale entries are never
// read again and age out of the ring buffer on their own.
func (c *ContentCache) Invalidate(kinds ...string) {
	if c == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, kind := range kinds {
		c.generations[kind]++
	}
	log.Tracef("content cache invalidated: %v", kinds)
}

func (c *ContentCache) EntryCount() int64 {
	if c == nil {
		return 0
	}
	return c.cache.EntryCount()
}

func (c *ContentCache) cacheKey(kind, key string) []byte {
	c.mutex.RLock()
	gen := c.generations[kind]
	c.mutex.RUnlock()
	return []byte(fmt.Sprintf("%s:%d:%s", kind, gen, key))
}

func (c *ContentCache) countLookup(result string) {
	if c.metricsManager != nil {
		c.metricsManager.CounterCacheLookups.WithLabelValues(result).Inc()
	}
}
