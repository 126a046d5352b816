package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/grocer/internal/parser"
)

type cacheEntry struct {
	expiry time.Time
	parsed []parser.ParsedIngredient
}

// responseCache remembers parsed LLM replies keyed by the text that was sent.
type responseCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

func newResponseCache(ttl time.Duration) *responseCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup(cleanupInterval(ttl))

	return cache
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}

// cacheKey folds case and whitespace so trivially different pastes share an entry.
func cacheKey(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func (c *responseCache) get(key string) ([]parser.ParsedIngredient, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return nil, false
	}

	out := make([]parser.ParsedIngredient, len(entry.parsed))
	copy(out, entry.parsed)
	return out, true
}

func (c *responseCache) set(key string, parsed []parser.ParsedIngredient) {
	stored := make([]parser.ParsedIngredient, len(parsed))
	copy(stored, parsed)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		parsed: stored,
		expiry: time.Now().Add(c.ttl),
	}
}

func (c *responseCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *responseCache) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.After(entry.expiry) {
			delete(c.entries, key)
		}
	}
}

func (c *responseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *responseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *responseCache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}
