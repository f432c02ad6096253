package auth

import (
	"sync"
	"sync/atomic"
	"time"
)

// SessionCache is a TTL-based in-memory cache for verified sessions.
// Uses sync.Map for lock-free reads on the hot path.
//
// Stale-while-revalidate: when an entry expires, Get() still returns the
// stale value immediately and signals that a background refresh is needed,
// so no request blocks on DB + bcrypt after the first cold start.
type SessionCache struct {
	store sync.Map      // map[string]*cacheEntry
	ttl   time.Duration // Default: 30s
}

type cacheEntry struct {
	session    *Session
	expiresAt  time.Time
	refreshing atomic.Bool // prevents duplicate background refreshes
}

// NewSessionCache creates a cache with the given TTL.
func NewSessionCache(ttl time.Duration) *SessionCache {
	return &SessionCache{ttl: ttl}
}

// GetResult holds the result of a cache lookup.
type GetResult struct {
	Session      *Session
	Hit          bool // true if a value was found (fresh or stale)
	NeedsRefresh bool // true if the entry is expired and should be refreshed in the background
}

// Get looks up the token in the cache.
//
// Returns:
//   - Fresh hit:  {Session, Hit=true,  NeedsRefresh=false}
//   - Stale hit:  {Session, Hit=true,  NeedsRefresh=true}  (serve stale, refresh in background)
//   - Miss:       {nil,     Hit=false, NeedsRefresh=false}
//
// The refreshing flag is set atomically so only one goroutine refreshes
// per token.
func (c *SessionCache) Get(token string) GetResult {
	val, ok := c.store.Load(token)
	if !ok {
		return GetResult{}
	}

	entry := val.(*cacheEntry)

	if time.Now().Before(entry.expiresAt) {
		return GetResult{Session: entry.session, Hit: true}
	}

	// Stale hit — return the value but signal refresh needed.
	needsRefresh := entry.refreshing.CompareAndSwap(false, true)
	return GetResult{
		Session:      entry.session,
		Hit:          true,
		NeedsRefresh: needsRefresh,
	}
}

// Set stores a session in the cache with the configured TTL.
func (c *SessionCache) Set(token string, session *Session) {
	c.store.Store(token, &cacheEntry{
		session:   session,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Delete removes an entry from the cache.
func (c *SessionCache) Delete(token string) {
	c.store.Delete(token)
}
