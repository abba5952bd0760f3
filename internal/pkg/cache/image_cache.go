// Package cache holds the process-wide caches shared across requests.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ImageCache maps a lowercased stock-photo query to the image URL it
// resolved to. Entries expire so a bad placeholder does not stick around for
// the process lifetime. The cache is injected into the attraction enricher
// rather than accessed as ambient global state, so tests can swap in a
// fresh or pre-seeded instance.
type ImageCache struct {
	store *gocache.Cache
}

// NewImageCache creates an image cache with the given TTL. Expired entries
// are swept at twice the TTL.
func NewImageCache(ttl time.Duration) *ImageCache {
	return &ImageCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached URL for query, keyed case-insensitively.
func (c *ImageCache) Get(query string) (string, bool) {
	v, ok := c.store.Get(strings.ToLower(query))
	if !ok {
		return "", false
	}
	url, ok := v.(string)
	return url, ok
}

// Set stores the resolved URL for query. Concurrent writers racing on the
// same key are harmless: values are idempotent for a given query.
func (c *ImageCache) Set(query, url string) {
	c.store.SetDefault(strings.ToLower(query), url)
}

// Len reports the number of non-expired entries.
func (c *ImageCache) Len() int {
	return c.store.ItemCount()
}
