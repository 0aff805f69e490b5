package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data     []byte
	expireAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return now.After(e.expireAt)
}

// MemoryCache implements Service with an in-process map. Oversized caches
// evict the least recently read entry; a background sweep drops expired
// ones.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	lastAccess map[string]time.Time
	maxEntries int
	defaultTTL time.Duration
	sweeper    *time.Ticker
	done       chan struct{}
	closeOnce  sync.Once
}

// NewMemoryCache creates an in-process cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxEntries:      1000,
		SweepInterval:   5 * time.Minute,
		DefaultLifetime: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		lastAccess: make(map[string]time.Time),
		maxEntries: cfg.MaxEntries,
		defaultTTL: cfg.DefaultLifetime,
		sweeper:    time.NewTicker(cfg.SweepInterval),
		done:       make(chan struct{}),
	}

	go mc.sweepExpired()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = mc.defaultTTL
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.entries) >= mc.maxEntries {
		mc.evictOldest()
	}

	now := time.Now()
	mc.entries[key] = &memoryEntry{data: data, expireAt: now.Add(ttl)}
	mc.lastAccess[key] = now
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if !ok || entry.expired(time.Now()) {
		if ok {
			delete(mc.entries, key)
			delete(mc.lastAccess, key)
		}
		return ErrCacheMiss
	}

	mc.lastAccess[key] = time.Now()
	return json.Unmarshal(entry.data, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		delete(mc.entries, key)
		delete(mc.lastAccess, key)
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	return ok && !entry.expired(time.Now()), nil
}

// evictOldest drops the entry with the stalest read time. Caller holds mu.
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	oldestTime := time.Now()
	for key, at := range mc.lastAccess {
		if at.Before(oldestTime) {
			oldestTime = at
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(mc.entries, oldestKey)
		delete(mc.lastAccess, oldestKey)
	}
}

func (mc *MemoryCache) sweepExpired() {
	for {
		select {
		case <-mc.done:
			return
		case <-mc.sweeper.C:
		}

		now := time.Now()
		mc.mu.Lock()
		for key, entry := range mc.entries {
			if entry.expired(now) {
				delete(mc.entries, key)
				delete(mc.lastAccess, key)
			}
		}
		mc.mu.Unlock()
	}
}

// Close stops the background sweep. Stopping the ticker alone would leave
// the sweep goroutine parked on its channel, so the done channel releases it.
func (mc *MemoryCache) Close() error {
	mc.closeOnce.Do(func() {
		mc.sweeper.Stop()
		close(mc.done)
	})
	return nil
}
