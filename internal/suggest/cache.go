package suggest

import "time"

// cacheKey identifies a cached lookup. Using a struct key instead of a
// concatenated string means scope values can contain any characters without
// colliding with another (query, scope) pair.
type cacheKey struct {
	query string
	scope string
}

// cacheEntry holds one cached result set. Cached slices are treated as
// immutable; callers must not modify returned suggestions.
type cacheEntry struct {
	suggestions []Suggestion
	createdAt   time.Time
}

// cache is a TTL-bounded map of suggestion results. It carries no lock of its
// own; the owning Engine serializes access.
type cache struct {
	entries    map[cacheKey]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func newCache(ttl time.Duration, maxEntries int) *cache {
	return &cache{
		entries:    make(map[cacheKey]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// get returns the cached suggestions for (query, scope) if the entry exists
// and has not outlived the TTL. Expired entries are never served.
func (c *cache) get(query, scope string) ([]Suggestion, bool) {
	entry, ok := c.entries[cacheKey{query: query, scope: scope}]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.createdAt) > c.ttl {
		return nil, false
	}
	return entry.suggestions, true
}

// put stores a result set. When the cache is at capacity it first drops
// expired entries, then the oldest remaining entries until there is room.
func (c *cache) put(query, scope string, suggestions []Suggestion) {
	now := c.now()

	if len(c.entries) >= c.maxEntries {
		c.sweep(now)
	}
	for len(c.entries) >= c.maxEntries {
		var oldestKey cacheKey
		var oldestAt time.Time
		first := true
		for key, entry := range c.entries {
			if first || entry.createdAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.createdAt
				first = false
			}
		}
		delete(c.entries, oldestKey)
	}

	c.entries[cacheKey{query: query, scope: scope}] = cacheEntry{
		suggestions: suggestions,
		createdAt:   now,
	}
}

// sweep removes every entry older than the TTL.
func (c *cache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.createdAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

// invalidate drops all entries.
func (c *cache) invalidate() {
	c.entries = make(map[cacheKey]cacheEntry)
}

func (c *cache) len() int {
	return len(c.entries)
}
