package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/getmentor/mentor-application-api/internal/wizard"
	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
	"github.com/getmentor/mentor-application-api/pkg/metrics"
	goredis "github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix   = "application:draft:"
	draftBackendName = "redis"
)

// DraftStore keeps application wizards in redis as JSON with a sliding TTL
type DraftStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewDraftStore creates a redis-backed draft store
func NewDraftStore(client goredis.UniversalClient, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

// Key returns the redis key holding a draft
func Key(id string) string {
	return draftKeyPrefix + id
}

// Get loads and decodes a wizard
func (s *DraftStore) Get(ctx context.Context, id string) (*wizard.Wizard, error) {
	start := time.Now()

	data, err := s.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		s.record("get", start, nil)
		return nil, apperrors.NotFoundError("application draft")
	}
	if err != nil {
		s.record("get", start, err)
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}

	var w wizard.Wizard
	if err := json.Unmarshal(data, &w); err != nil {
		s.record("get", start, err)
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}

	s.record("get", start, nil)
	return &w, nil
}

// Save encodes the wizard and restarts its expiry
func (s *DraftStore) Save(ctx context.Context, w *wizard.Wizard) error {
	start := time.Now()
	if w == nil || w.ID == "" {
		err := apperrors.InvalidInputError("draft", "missing id")
		s.record("save", start, err)
		return err
	}

	data, err := json.Marshal(w)
	if err != nil {
		s.record("save", start, err)
		return fmt.Errorf("failed to encode draft %s: %w", w.ID, err)
	}

	if err := s.client.Set(ctx, Key(w.ID), data, s.ttl).Err(); err != nil {
		s.record("save", start, err)
		return fmt.Errorf("failed to save draft %s: %w", w.ID, err)
	}

	s.record("save", start, nil)
	return nil
}

// Delete removes a wizard
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.client.Del(ctx, Key(id)).Err()
	s.record("delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

// Ping checks the redis connection
func (s *DraftStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *DraftStore) record(operation string, start time.Time, err error) {
	status := metrics.Status(err)
	metrics.DraftStoreOperationDuration.WithLabelValues(draftBackendName, operation, status).Observe(metrics.MeasureDuration(start))
	metrics.DraftStoreOperationTotal.WithLabelValues(draftBackendName, operation, status).Inc()
}
