package network

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// defaultMaxAge applies when a response sets no max-age.
const defaultMaxAge = 5 * time.Minute

type cacheEntry struct {
	resp    *Response
	expires time.Time
	used    time.Time
}

// Cache keeps successful responses in memory until their max-age runs out.
// When full, the least recently used entry is evicted.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	maxSize int
	now     func() time.Time
}

// NewCache creates a cache holding at most maxSize responses.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &Cache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the fresh response cached for url.
func (c *Cache) Get(url string) (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok {
		return nil, false
	}
	now := c.now()
	if !now.Before(e.expires) {
		delete(c.entries, url)
		return nil, false
	}
	e.used = now
	return e.resp, true
}

// Set stores resp unless its Cache-Control forbids it.
func (c *Cache) Set(url string, resp *Response) {
	maxAge, ok := cacheLifetime(resp.Headers)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[url]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	now := c.now()
	c.entries[url] = &cacheEntry{resp: resp, expires: now.Add(maxAge), used: now}
}

// Len returns the number of cached responses.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *Cache) evictOldest() {
	var oldest string
	var at time.Time
	for k, e := range c.entries {
		if oldest == "" || e.used.Before(at) {
			oldest, at = k, e.used
		}
	}
	delete(c.entries, oldest)
}

// cacheLifetime reads max-age from Cache-Control. no-store, no-cache and
// max-age=0 mean the response is not cached.
func cacheLifetime(h http.Header) (time.Duration, bool) {
	maxAge := defaultMaxAge
	for _, d := range strings.Split(h.Get("Cache-Control"), ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		switch {
		case d == "no-store", d == "no-cache":
			return 0, false
		case strings.HasPrefix(d, "max-age="):
			n, err := strconv.Atoi(d[len("max-age="):])
			if err != nil || n <= 0 {
				return 0, false
			}
			maxAge = time.Duration(n) * time.Second
		}
	}
	return maxAge, true
}
