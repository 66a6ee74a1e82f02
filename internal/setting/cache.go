// Package setting stores site-wide options and caches them between writes.
package setting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"campuscms/internal/models"
)

const allKey = "settings.all"

func settingKey(key string) string { return "setting." + key }

// Store is the storage a Cache reads through. *Repository implements it.
type Store interface {
	Find(ctx context.Context, key string) (models.Setting, error)
	List(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, key, value string) error
}

// Cache serves settings from memory. Every write through Set or Update
// invalidates the affected entries; ttl <= 0 keeps entries until invalidated.
type Cache struct {
	repo  Store
	cache *ttlcache.Cache[string, any]

	// gen counts invalidations. A fill read before an invalidation is not
	// stored after it.
	mu  sync.Mutex
	gen uint64
}

// NewCache creates a settings cache in front of repo.
func NewCache(repo Store, ttl time.Duration) *Cache {
	opts := []ttlcache.Option[string, any]{ttlcache.WithDisableTouchOnHit[string, any]()}
	if ttl > 0 {
		opts = append(opts, ttlcache.WithTTL[string, any](ttl))
	}
	return &Cache{repo: repo, cache: ttlcache.New(opts...)}
}

// Start runs the expiry loop in the background until ctx is done.
func (c *Cache) Start(ctx context.Context) {
	go c.cache.Start()
	go func() {
		<-ctx.Done()
		c.cache.Stop()
	}()
}

func (c *Cache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// fill stores value unless the cache was invalidated since gen was read.
func (c *Cache) fill(gen uint64, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.cache.Set(key, value, ttlcache.DefaultTTL)
	}
}

// Get returns the value of key, or def when the setting is missing or empty.
func (c *Cache) Get(ctx context.Context, key, def string) (string, error) {
	if item := c.cache.Get(settingKey(key)); item != nil {
		return valueOr(item.Value().(*models.Setting), def), nil
	}

	gen := c.generation()
	s, err := c.repo.Find(ctx, key)
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.fill(gen, settingKey(key), (*models.Setting)(nil))
		return def, nil
	case err != nil:
		return "", err
	}
	c.fill(gen, settingKey(key), &s)
	return valueOr(&s, def), nil
}

func valueOr(s *models.Setting, def string) string {
	if s == nil || s.Value == nil {
		return def
	}
	return *s.Value
}

// All returns every setting grouped by its group name.
func (c *Cache) All(ctx context.Context) (map[string][]models.Setting, error) {
	if item := c.cache.Get(allKey); item != nil {
		return item.Value().(map[string][]models.Setting), nil
	}

	gen := c.generation()
	settings, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]models.Setting)
	for _, s := range settings {
		grouped[s.Group] = append(grouped[s.Group], s)
	}
	c.fill(gen, allKey, grouped)
	return grouped, nil
}

// Values returns every setting as a flat key/value map. It is not cached.
func (c *Cache) Values(ctx context.Context) (map[string]string, error) {
	settings, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = valueOr(&s, "")
	}
	return values, nil
}

// Set stores a value and invalidates it.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	if err := c.repo.Upsert(ctx, key, value); err != nil {
		return err
	}
	c.Invalidate(key)
	return nil
}

// Update stores the submitted values of existing settings. Unknown keys are
// ignored and boolean settings are normalised to "1" or "0".
func (c *Cache) Update(ctx context.Context, values map[string]string) error {
	defer c.InvalidateAll()

	for key, value := range values {
		s, err := c.repo.Find(ctx, key)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if s.Type == models.SettingBoolean {
			value = normalizeBool(value)
		}
		if err := c.repo.Upsert(ctx, key, value); err != nil {
			return fmt.Errorf("error updating settings: %w", err)
		}
	}
	return nil
}

func normalizeBool(v string) string {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "yes":
			b = true
		}
	}
	if b {
		return "1"
	}
	return "0"
}

// Invalidate drops the cached entries of keys and the grouped listing.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for _, key := range keys {
		c.cache.Delete(settingKey(key))
	}
	c.cache.Delete(allKey)
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.cache.DeleteAll()
}
