package cache

import (
	"context"
	"time"

	"github.com/getmentor/mentor-application-api/internal/wizard"
	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/getmentor/mentor-application-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	draftKeyPrefix   = "draft:"
	draftCacheName   = "application_drafts"
	draftBackendName = "memory"
	cleanupPeriod    = time.Minute
)

// DraftCache keeps application wizards in process memory.
// Entries expire after the configured TTL, which restarts on every Save.
type DraftCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewDraftCache creates an in-memory draft store
func NewDraftCache(ttl time.Duration) *DraftCache {
	c := gocache.New(ttl, cleanupPeriod)
	c.OnEvicted(func(key string, _ interface{}) {
		logger.Debug("Application draft expired", zap.String("key", key))
	})

	return &DraftCache{
		cache: c,
		ttl:   ttl,
	}
}

// Get returns a copy of the stored wizard
func (dc *DraftCache) Get(_ context.Context, id string) (*wizard.Wizard, error) {
	start := time.Now()

	data, found := dc.cache.Get(draftKeyPrefix + id)
	if !found {
		metrics.CacheMisses.WithLabelValues(draftCacheName).Inc()
		dc.record("get", start, nil)
		return nil, apperrors.NotFoundError("application draft")
	}

	w, ok := data.(*wizard.Wizard)
	if !ok {
		logger.Error("Invalid draft cache data type", zap.String("draft_id", id))
		dc.cache.Delete(draftKeyPrefix + id)
		err := apperrors.InternalError("invalid draft cache data type")
		dc.record("get", start, err)
		return nil, err
	}

	metrics.CacheHits.WithLabelValues(draftCacheName).Inc()
	dc.record("get", start, nil)
	return w.Clone(), nil
}

// Save stores a copy of the wizard and restarts its expiry
func (dc *DraftCache) Save(_ context.Context, w *wizard.Wizard) error {
	start := time.Now()
	if w == nil || w.ID == "" {
		err := apperrors.InvalidInputError("draft", "missing id")
		dc.record("save", start, err)
		return err
	}

	dc.cache.Set(draftKeyPrefix+w.ID, w.Clone(), dc.ttl)
	metrics.CacheSize.WithLabelValues(draftCacheName).Set(float64(dc.cache.ItemCount()))
	dc.record("save", start, nil)
	return nil
}

// Delete removes a wizard
func (dc *DraftCache) Delete(_ context.Context, id string) error {
	start := time.Now()
	dc.cache.Delete(draftKeyPrefix + id)
	metrics.CacheSize.WithLabelValues(draftCacheName).Set(float64(dc.cache.ItemCount()))
	dc.record("delete", start, nil)
	return nil
}

// Ping always succeeds for the in-memory store
func (dc *DraftCache) Ping(_ context.Context) error {
	return nil
}

// Count returns the number of unexpired drafts
func (dc *DraftCache) Count() int {
	return dc.cache.ItemCount()
}

func (dc *DraftCache) record(operation string, start time.Time, err error) {
	status := metrics.Status(err)
	metrics.DraftStoreOperationDuration.WithLabelValues(draftBackendName, operation, status).Observe(metrics.MeasureDuration(start))
	metrics.DraftStoreOperationTotal.WithLabelValues(draftBackendName, operation, status).Inc()
}
