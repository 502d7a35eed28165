package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taskql/taskql/pkg/logger"
	"github.com/taskql/taskql/service"
)

const (
	configKey  = "workspace:config"
	DefaultTTL = 5 * time.Minute
)

// FetchFunc loads a fresh workspace config from the source of truth.
type FetchFunc func(ctx context.Context) (*service.WorkspaceConfig, error)

// Cache serves the workspace config from a Store, refetching when the
// cached entry is missing or expired.
type Cache struct {
	store Store
	ttl   time.Duration
	fetch FetchFunc
}

// NewCache wires a store, a TTL and a fetch function. A non-positive
// ttl falls back to DefaultTTL.
func NewCache(store Store, ttl time.Duration, fetch FetchFunc) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl, fetch: fetch}
}

// Config returns the workspace config, from cache when fresh.
func (c *Cache) Config(ctx context.Context) (*service.WorkspaceConfig, error) {
	data, err := c.store.Get(ctx, configKey)
	if err == nil {
		var cfg service.WorkspaceConfig
		if err := json.Unmarshal(data, &cfg); err == nil {
			return &cfg, nil
		}
		logger.Warn("discarding undecodable cached workspace config")
	} else if !errors.Is(err, ErrNotFound) {
		logger.Warn("workspace cache read failed", "error", err)
	}

	cfg, err := c.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch workspace config: %w", err)
	}

	if data, err := json.Marshal(cfg); err == nil {
		if err := c.store.Set(ctx, configKey, data, c.ttl); err != nil {
			logger.Warn("workspace cache write failed", "error", err)
		}
	}
	return cfg, nil
}

// Invalidate drops the cached config so the next read refetches.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, configKey)
}
