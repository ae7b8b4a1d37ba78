package source

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/observability"
)

// Cached wraps a loader with a record cache.
type Cached struct {
	inner  Loader
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewCached returns a loader that consults c before calling inner.
// If keyer is nil, a DefaultKeyer is used.
// If logger is nil, log.Default() is used.
func NewCached(inner Loader, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, logger: logger}
}

// Load returns the cached record or loads and stores it. Cache failures
// degrade to a direct load.
func (c *Cached) Load(ctx context.Context) (*family.Record, error) {
	key := c.keyer.RecordKey(c.inner.Locator())

	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("record cache read failed", "err", err)
	} else if ok {
		var rec family.Record
		if err := json.Unmarshal(data, &rec); err == nil {
			observability.Cache().OnCacheHit(ctx, "record")
			return &rec, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "record")

	rec, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rec); err == nil {
		if err := c.cache.Set(ctx, key, data, cache.RecordTTL); err != nil {
			c.logger.Warn("record cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "record", len(data))
		}
	}
	return rec, nil
}

// Locator returns the wrapped loader's locator.
func (c *Cached) Locator() string { return c.inner.Locator() }

// Inner returns the wrapped loader.
func (c *Cached) Inner() Loader { return c.inner }

var _ Loader = (*Cached)(nil)
