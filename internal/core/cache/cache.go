// Package cache provides the time-bounded lookup cache shared by the
// support-group and contact resolvers. Entries expire lazily: staleness is
// checked on read and stale entries are evicted as a side effect of that
// read. There is no background sweep and no size bound; the working set is
// the hostnames and support groups seen during one process run.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// Key prefixes keep the flat key space unambiguous across resolvers.
const (
	SupportGroupPrefix = "support_group:"
	AppOwnersPrefix    = "app_owners:"
)

// SupportGroupKey builds the cache key for a hostname lookup.
func SupportGroupKey(hostname string) string {
	return SupportGroupPrefix + hostname
}

// AppOwnersKey builds the cache key for a contact-roster lookup.
func AppOwnersKey(supportGroup string) string {
	return AppOwnersPrefix + supportGroup
}

// Cache stores JSON-serializable lookup results with a time-to-live.
// Implementations must treat an expired entry as absent.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether a
	// fresh entry existed.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores the value, overwriting any existing entry and resetting
	// its timestamp.
	Set(ctx context.Context, key string, value any) error

	// Clear discards all entries unconditionally.
	Clear(ctx context.Context) error
}

type memoryEntry struct {
	payload  []byte
	storedAt time.Time
}

// Memory is the in-process Cache implementation. Safe for concurrent use;
// a Get/Set race can at worst cause a redundant source query, never a
// corrupt entry, since Set is a total overwrite.
type Memory struct {
	TTL   time.Duration
	Clock func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory returns a Memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{TTL: ttl, entries: make(map[string]memoryEntry)}
}

// Get returns the entry for key when it is younger than the TTL. A stale
// entry is removed as a side effect of the read.
func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	if m == nil {
		return false, errors.New("cache is not initialized")
	}
	if key == "" {
		return false, errors.New("cache key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	if m.now().Sub(entry.storedAt) >= m.TTL {
		delete(m.entries, key)
		return false, nil
	}

	if dest != nil {
		if err := json.Unmarshal(entry.payload, dest); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Set stores value under key, resetting its timestamp to now.
func (m *Memory) Set(_ context.Context, key string, value any) error {
	if m == nil {
		return errors.New("cache is not initialized")
	}
	if key == "" {
		return errors.New("cache key is required")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries == nil {
		m.entries = make(map[string]memoryEntry)
	}
	m.entries[key] = memoryEntry{payload: payload, storedAt: m.now()}
	return nil
}

// Clear discards every entry.
func (m *Memory) Clear(_ context.Context) error {
	if m == nil {
		return errors.New("cache is not initialized")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the number of live entries, stale ones included until their
// next read. Used by tests.
func (m *Memory) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) now() time.Time {
	if m != nil && m.Clock != nil {
		return m.Clock()
	}
	return time.Now().UTC()
}
