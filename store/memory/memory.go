// Package memory provides an in-memory session store backed by
// github.com/hashicorp/golang-lru/v2, with optional TTL-based expiry.
// Suitable for tests and single-process tools; sessions do not survive a
// restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ggoodman/wizard-go/store"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Host implements store.Host with a bounded LRU cache.
type Host struct {
	mu    sync.RWMutex
	cache *lru.Cache[string, *store.Item]
	ttl   time.Duration
	done  chan struct{}
}

// Option configures an in-memory host.
type Option func(*Host)

// WithTTL expires sessions after d. Zero (the default) keeps sessions until
// they are evicted or deleted.
func WithTTL(d time.Duration) Option {
	return func(h *Host) { h.ttl = d }
}

// New creates an in-memory host holding at most maxSessions sessions; the
// least recently used session is evicted beyond that.
func New(maxSessions int, opts ...Option) (*Host, error) {
	cache, err := lru.New[string, *store.Item](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("memory: create cache: %w", err)
	}
	h := &Host{
		cache: cache,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.ttl > 0 {
		go h.cleanupExpired()
	}
	return h, nil
}

// Save persists data under the session ID.
func (h *Host) Save(ctx context.Context, sessionID string, data []byte) error {
	item := &store.Item{
		Data:      append([]byte(nil), data...),
		CreatedAt: time.Now(),
	}
	if h.ttl > 0 {
		expires := item.CreatedAt.Add(h.ttl)
		item.ExpiresAt = &expires
	}
	h.mu.Lock()
	h.cache.Add(sessionID, item)
	h.mu.Unlock()
	return nil
}

// Load retrieves the session's data.
func (h *Host) Load(ctx context.Context, sessionID string) ([]byte, error) {
	h.mu.RLock()
	item, ok := h.cache.Get(sessionID)
	h.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	if item.IsExpired() {
		h.mu.Lock()
		h.cache.Remove(sessionID)
		h.mu.Unlock()
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), item.Data...), nil
}

// Delete removes the session, if present.
func (h *Host) Delete(ctx context.Context, sessionID string) error {
	h.mu.Lock()
	h.cache.Remove(sessionID)
	h.mu.Unlock()
	return nil
}

// Close stops the background cleanup.
func (h *Host) Close() error {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
	return nil
}

func (h *Host) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.mu.Lock()
			for _, key := range h.cache.Keys() {
				if item, ok := h.cache.Peek(key); ok && item.IsExpired() {
					h.cache.Remove(key)
				}
			}
			h.mu.Unlock()
		}
	}
}
