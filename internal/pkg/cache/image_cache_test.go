package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImageCacheKeyIsCaseInsensitive(t *testing.T) {
	c := NewImageCache(time.Minute)

	c.Set("Baga Beach beaches", "https://img.example/baga.jpg")

	url, ok := c.Get("baga beach BEACHES")
	assert.True(t, ok)
	assert.Equal(t, "https://img.example/baga.jpg", url)
}

func TestImageCacheMiss(t *testing.T) {
	c := NewImageCache(time.Minute)

	_, ok := c.Get("never stored")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestImageCacheExpiry(t *testing.T) {
	c := NewImageCache(10 * time.Millisecond)

	c.Set("fort aguada architecture", "https://img.example/fort.jpg")
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("fort aguada architecture")
	assert.False(t, ok)
}
