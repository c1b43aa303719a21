// Package appkey owns the application key shared by every enrollment of a
// device type.
package appkey

import (
	"context"
	"strings"
	"sync"

	"github.com/prudhvinik1/deviceprov/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Request describes the application key to create on first use.
type Request struct {
	DeviceType string
	Tags       []string
	KeyType    string
	Username   string
}

func (r Request) cacheKey() string {
	return r.DeviceType + "/" + r.KeyType
}

// KeyManager creates (or returns the existing) application key for a device type.
type KeyManager interface {
	GenerateAndRetrieveApplicationKeys(ctx context.Context, req Request) (*models.ApplicationKey, error)
}

// Observer is notified when the cache creates a key. A nil Observer is allowed.
type Observer interface {
	ApplicationKeyCreated(deviceType string)
	ApplicationKeyCreationFailed(deviceType string)
}

// Cache holds at most one application key for the lifetime of the process.
// The key is never refreshed here; rotation is handled outside this service.
type Cache struct {
	manager  KeyManager
	logger   *zap.SugaredLogger
	observer Observer

	mu    sync.RWMutex
	key   *models.ApplicationKey
	group singleflight.Group
}

type Option func(*Cache)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func WithObserver(o Observer) Option {
	return func(c *Cache) {
		c.observer = o
	}
}

func NewCache(manager KeyManager, opts ...Option) *Cache {
	c := &Cache{manager: manager}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop().Sugar()
	}
	return c
}

// GetOrCreate returns the cached key, creating it through the key manager on
// first use. Concurrent first callers share a single creation call. A failed
// creation leaves the cache empty so the next call tries again.
func (c *Cache) GetOrCreate(ctx context.Context, req Request) (*models.ApplicationKey, error) {
	if key := c.cached(); key != nil {
		return key, nil
	}

	v, err, shared := c.group.Do(req.cacheKey(), func() (any, error) {
		if key := c.cached(); key != nil {
			return key, nil
		}

		key, err := c.manager.GenerateAndRetrieveApplicationKeys(ctx, req)
		if err != nil {
			c.logger.Errorw("application key creation failed",
				"device_type", req.DeviceType,
				"key_type", req.KeyType,
				"error", err,
			)
			if c.observer != nil {
				c.observer.ApplicationKeyCreationFailed(req.DeviceType)
			}
			return nil, err
		}

		c.mu.Lock()
		c.key = key
		c.mu.Unlock()

		c.logger.Infow("application key cached",
			"device_type", req.DeviceType,
			"key_type", req.KeyType,
			"tags", strings.Join(req.Tags, ","),
		)
		if c.observer != nil {
			c.observer.ApplicationKeyCreated(req.DeviceType)
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debugw("application key creation shared", "device_type", req.DeviceType)
	}
	return v.(*models.ApplicationKey), nil
}

// Cached reports the key currently held, if any.
func (c *Cache) Cached() (*models.ApplicationKey, bool) {
	key := c.cached()
	return key, key != nil
}

func (c *Cache) cached() *models.ApplicationKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.key
}
