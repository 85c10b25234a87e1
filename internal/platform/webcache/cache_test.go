package webcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetSet(t *testing.T) {
	c := New(5 * time.Minute)

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok := c.Get("http://example.com/a")
		assert.False(t, ok)
	})

	t.Run("hit after set", func(t *testing.T) {
		c.Set("http://example.com/a", []byte(`{"docs":[]}`))
		body, ok := c.Get("http://example.com/a")
		assert.True(t, ok)
		assert.Equal(t, []byte(`{"docs":[]}`), body)
	})
}

func TestCacheExpiry(t *testing.T) {
	c := New(5 * time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("key", []byte("value"))

	t.Run("fresh entry is a hit", func(t *testing.T) {
		_, ok := c.Get("key")
		assert.True(t, ok)
	})

	t.Run("entry older than TTL is a miss", func(t *testing.T) {
		current = current.Add(5*time.Minute + time.Second)
		_, ok := c.Get("key")
		assert.False(t, ok)
		// expired entries are evicted on access
		assert.Equal(t, 0, c.Len())
	})
}

func TestCachePurge(t *testing.T) {
	c := New(time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("old", []byte("1"))
	current = current.Add(2 * time.Minute)
	c.Set("new", []byte("2"))

	c.Purge()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	assert.True(t, ok)
}
