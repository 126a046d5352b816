package llm

import (
	"testing"
	"time"

	"github.com/Veraticus/grocer/internal/parser"
	"github.com/stretchr/testify/assert"
)

func TestResponseCache(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		cache := newResponseCache(5 * time.Minute)
		defer cache.Close()

		_, found := cache.get("missing")
		assert.False(t, found)

		parsed := []parser.ParsedIngredient{{Name: "oats", Unit: "cup", Amount: 2}}
		cache.set("key1", parsed)

		got, found := cache.get("key1")
		assert.True(t, found)
		assert.Equal(t, parsed, got)
		assert.Equal(t, 1, cache.size())

		cache.clear()
		assert.Equal(t, 0, cache.size())
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		cache := newResponseCache(time.Minute)
		defer cache.Close()

		cache.set("k", []parser.ParsedIngredient{{Name: "oats"}})
		got, _ := cache.get("k")
		got[0].Recipe = "porridge"

		again, _ := cache.get("k")
		assert.Empty(t, again[0].Recipe)
	})

	t.Run("expiration", func(t *testing.T) {
		cache := newResponseCache(20 * time.Millisecond)
		defer cache.Close()

		cache.set("k", []parser.ParsedIngredient{{Name: "salt"}})
		_, found := cache.get("k")
		assert.True(t, found)

		time.Sleep(40 * time.Millisecond)
		_, found = cache.get("k")
		assert.False(t, found)

		cache.evictExpired(time.Now())
		assert.Equal(t, 0, cache.size())
	})

	t.Run("close twice", func(t *testing.T) {
		cache := newResponseCache(time.Minute)
		cache.Close()
		assert.NotPanics(t, cache.Close)
	})
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, cacheKey("2 Cups  oats\n1 egg"), cacheKey("2 cups oats 1 egg"))
	assert.NotEqual(t, cacheKey("2 cups oats"), cacheKey("3 cups oats"))
}
