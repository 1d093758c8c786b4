// Package query implements the dev-query API (X2): the read-only
// surface an external query server uses to fetch the latest stylesheet
// and resolve logical class names to utility tokens.
package query

import (
	"strings"
	"sync"

	"github.com/patrickgunnar/galadrielcss/internal/track"
)

// Cache holds the single most recent emitted stylesheet. Writes are
// exclusive, reads are shared, matching the "output CSS cache: single
// string slot" resource note.
type Cache struct {
	mu  sync.RWMutex
	css string
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Set replaces the cached stylesheet text.
func (c *Cache) Set(css string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.css = css
}

// Get returns the cached stylesheet text.
func (c *Cache) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.css
}

// API bundles the read-only state the dev-query server calls into.
type API struct {
	cache     *Cache
	clastrack *track.Clastrack
}

// New creates an API over cache and clastrack.
func New(cache *Cache, clastrack *track.Clastrack) *API {
	return &API{cache: cache, clastrack: clastrack}
}

// GetUpdatedCSS returns the most recent E1 output.
func (a *API) GetUpdatedCSS() string {
	return a.cache.Get()
}

// ResolveClassTokens looks up logicalClass's flattened utility tokens
// within scope ("Central"/"Layout"/"Module") for contextName, with every
// "\\" escape character stripped. Unknown context or class names yield
// the empty string.
func (a *API) ResolveClassTokens(scope, contextName, logicalClass string) string {
	tokens, ok := a.clastrack.Resolve(scope, contextName, logicalClass)
	if !ok {
		return ""
	}
	return strings.ReplaceAll(tokens, "\\", "")
}
