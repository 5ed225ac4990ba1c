package reconcile

// Cache maps normalized person names to resolved identifiers for the
// lifetime of one batch session. It is never persisted: the remote store is
// the source of truth and may be mutated out-of-band between runs, so every
// session starts cold.
//
// The cache must never hold a placeholder identifier produced by a dry run;
// the driver enforces that by skipping Put entirely in simulated mode.
type Cache struct {
	entries map[string]string
}

// NewCache creates an empty resolution cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the cached person identifier for a normalized name.
func (c *Cache) Get(normalized string) (string, bool) {
	id, ok := c.entries[normalized]
	return id, ok
}

// Put records a resolved identifier under a normalized name.
func (c *Cache) Put(normalized, personID string) {
	c.entries[normalized] = personID
}

// Len returns the number of cached resolutions.
func (c *Cache) Len() int {
	return len(c.entries)
}
