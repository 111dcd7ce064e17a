package cache

import (
	"sync"
	"time"

	"study-auth/app/domain"

	"github.com/google/uuid"
)

// cacheEntry holds a cached profile together with its fetch time.
type cacheEntry struct {
	profile   domain.Profile
	fetchedAt time.Time
}

// ProfileCache provides thread-safe in-memory profile caching with TTL.
// It exists purely to reduce repeated profile lookups; it is not a source
// of truth. The whole cache is cleared whenever the authoritative session
// changes.
type ProfileCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*cacheEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewProfileCache creates a new profile cache with the specified TTL.
func NewProfileCache(ttl time.Duration) *ProfileCache {
	c := &ProfileCache{
		entries: make(map[uuid.UUID]*cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached profile by subject ID. Entries older than the TTL
// are treated as absent.
func (c *ProfileCache) Get(userID uuid.UUID) (*domain.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[userID]
	if !found || time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	profile := entry.profile
	return &profile, true
}

// Set stores a profile in the cache.
func (c *ProfileCache) Set(userID uuid.UUID, profile domain.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = &cacheEntry{
		profile:   profile,
		fetchedAt: time.Now(),
	}
}

// Clear drops every entry. Called on sign-in, sign-out and token refresh so
// no decision is ever made from a pre-transition value.
func (c *ProfileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[uuid.UUID]*cacheEntry)
}

// Len returns the number of entries currently held, expired or not.
func (c *ProfileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close stops the background cleanup loop.
func (c *ProfileCache) Close() {
	c.once.Do(func() { close(c.done) })
}

// cleanup removes expired entries.
func (c *ProfileCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.entries {
		if now.Sub(entry.fetchedAt) > c.ttl {
			delete(c.entries, id)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (c *ProfileCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}
