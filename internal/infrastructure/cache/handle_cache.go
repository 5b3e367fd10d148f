package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
	"github.com/ressKim-io/smartnlp/internal/domain/repository"
	"github.com/ressKim-io/smartnlp/internal/domain/service"
	"github.com/ressKim-io/smartnlp/internal/infrastructure/metrics"
)

// ErrNilHandle is returned when a loader reports success without a handle
var ErrNilHandle = errors.New("loader returned nil handle")

// HandleCache lazily initializes model handles and keeps one per capability
// for the lifetime of the process. Entries are never evicted; Clear drops
// them all.
type HandleCache struct {
	registry repository.ModelRegistry
	loader   service.Loader
	logger   *zap.Logger

	mu      sync.RWMutex
	handles map[entity.Capability]service.Handle
	group   singleflight.Group
}

// NewHandleCache creates a new handle cache
func NewHandleCache(registry repository.ModelRegistry, loader service.Loader, logger *zap.Logger) *HandleCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HandleCache{
		registry: registry,
		loader:   loader,
		logger:   logger,
		handles:  make(map[entity.Capability]service.Handle),
	}
}

// Resolve returns the handle for a capability, loading it on first use.
// Concurrent first calls share a single load.
func (c *HandleCache) Resolve(ctx context.Context, capability entity.Capability) (service.Handle, error) {
	spec, err := c.registry.Lookup(capability)
	if err != nil {
		return nil, err
	}

	if h, ok := c.get(capability); ok {
		return h, nil
	}

	v, err, _ := c.group.Do(string(capability), func() (interface{}, error) {
		if h, ok := c.get(capability); ok {
			return h, nil
		}

		// Initialization is not cancellable; other callers may be waiting on it.
		h, err := c.load(context.WithoutCancel(ctx), spec)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.handles[capability] = h
		c.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(service.Handle), nil
}

// Clear drops every cached handle
func (c *HandleCache) Clear() {
	c.mu.Lock()
	c.handles = make(map[entity.Capability]service.Handle)
	c.mu.Unlock()
}

// Loaded returns the capabilities with a cached handle in canonical order
func (c *HandleCache) Loaded() []entity.Capability {
	c.mu.RLock()
	defer c.mu.RUnlock()

	loaded := make([]entity.Capability, 0, len(c.handles))
	for _, capability := range entity.Capabilities {
		if _, ok := c.handles[capability]; ok {
			loaded = append(loaded, capability)
		}
	}
	return loaded
}

func (c *HandleCache) get(capability entity.Capability) (service.Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handles[capability]
	return h, ok
}

func (c *HandleCache) load(ctx context.Context, spec entity.ModelSpec) (service.Handle, error) {
	h, err := c.loadModel(ctx, spec)
	if err == nil {
		return h, nil
	}
	if !spec.HasFallback() {
		return nil, fmt.Errorf("failed to load model %s: %w", spec.Model, err)
	}

	c.logger.Warn("Primary model failed to load, trying fallback",
		zap.String("capability", spec.Capability.String()),
		zap.String("model", spec.Model),
		zap.String("fallback", spec.Fallback),
		zap.Error(err),
	)

	h, fallbackErr := c.loadModel(ctx, spec.WithModel(spec.Fallback))
	if fallbackErr != nil {
		return nil, fmt.Errorf("failed to load model %s or fallback %s: %w",
			spec.Model, spec.Fallback, errors.Join(err, fallbackErr))
	}
	return h, nil
}

func (c *HandleCache) loadModel(ctx context.Context, spec entity.ModelSpec) (service.Handle, error) {
	start := time.Now()
	h, err := c.loader.Load(ctx, spec)
	if err == nil && h == nil {
		err = ErrNilHandle
	}
	metrics.ModelLoadsTotal.WithLabelValues(spec.Capability.String(), spec.Model, metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	c.logger.Info("Model loaded",
		zap.String("capability", spec.Capability.String()),
		zap.String("model", spec.Model),
		zap.Duration("duration", time.Since(start)),
	)
	return h, nil
}
