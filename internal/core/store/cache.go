package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cache adapts the store to the lookup cache interface: JSON payloads
// under flat string keys, expiry enforced at read time. Expired rows are
// deleted lazily when encountered.
type Cache struct {
	Store *Store
	TTL   time.Duration
	Clock func() time.Time
}

// NewCache wraps an open store as a TTL cache.
func NewCache(s *Store, ttl time.Duration) *Cache {
	return &Cache{Store: s, TTL: ttl}
}

// Get loads the payload stored under key into dest. It reports false when
// the key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.Store == nil || c.Store.DB == nil {
		return false, errors.New("cache store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return false, errors.New("cache key is required")
	}

	var (
		payload   string
		expiresAt int64
	)
	row := c.Store.DB.QueryRowContext(ctx, `
		SELECT payload, expires_at
		FROM lookup_cache
		WHERE key = ?
	`, key)
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("fetch cached lookup: %w", err)
	}

	if c.now().Unix() >= expiresAt {
		// nolint:errcheck // best-effort cleanup
		_, _ = c.Store.DB.ExecContext(ctx, `DELETE FROM lookup_cache WHERE key = ?`, key)
		return false, nil
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(payload), dest); err != nil {
			return false, fmt.Errorf("decode cached lookup: %w", err)
		}
	}
	return true, nil
}

// Set stores value under key, replacing any previous entry and restarting
// the TTL window.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.Store == nil || c.Store.DB == nil {
		return errors.New("cache store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key is required")
	}
	if c.TTL <= 0 {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached lookup: %w", err)
	}

	now := c.now()
	_, err = c.Store.DB.ExecContext(ctx, `
		INSERT INTO lookup_cache (key, payload, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`, key, string(payload), now.Unix(), now.Add(c.TTL).Unix())
	if err != nil {
		return fmt.Errorf("store cached lookup: %w", err)
	}

	return nil
}

// Clear removes every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	if c == nil || c.Store == nil || c.Store.DB == nil {
		return errors.New("cache store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := c.Store.DB.ExecContext(ctx, `DELETE FROM lookup_cache`); err != nil {
		return fmt.Errorf("clear lookup cache: %w", err)
	}
	return nil
}

func (c *Cache) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
