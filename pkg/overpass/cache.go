package overpass

import (
	"strconv"
	"sync"
	"time"

	"github.com/sakay-app/sakay-routing/pkg/geo"
)

type cacheEntry struct {
	data      *Response
	timestamp time.Time
}

// responseCache process-lifetime cache of overpass responses keyed by
// "lat,lon,radius". Entries expire lazily on read after ttl, there is no
// background eviction. Guarded by a mutex so a multi goroutine host is safe.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func cacheKey(center geo.Coordinate, radiusMeters float64) string {
	return strconv.FormatFloat(center.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(center.Lon, 'f', -1, 64) + "," +
		strconv.FormatFloat(radiusMeters, 'f', -1, 64)
}

func (c *responseCache) get(key string) (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.timestamp) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.data, true
}

func (c *responseCache) put(key string, data *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		data:      data,
		timestamp: time.Now(),
	}
}
