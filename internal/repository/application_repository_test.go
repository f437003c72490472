package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/internal/repository"
	"github.com/getmentor/mentor-application-api/pkg/circuitbreaker"
	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
	"github.com/getmentor/mentor-application-api/pkg/retry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyCreator struct {
	failures int
	err      error
	calls    int
}

func (f *flakyCreator) CreateApplication(_ context.Context, draftID string, _ *models.ApplicationDraft, _ string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "app-" + draftID, nil
}

func fastRetry() retry.Config {
	config := retry.DatabaseConfig()
	config.InitialDelay = time.Millisecond
	config.MaxDelay = time.Millisecond
	config.Jitter = false
	return config
}

func TestApplicationRepository_RetriesTransientErrors(t *testing.T) {
	db := &flakyCreator{failures: 2, err: errors.New("connection reset by peer")}
	repo := repository.NewApplicationRepository(db).WithRetryConfig(fastRetry())

	id, err := repo.Create(context.Background(), "d1", models.NewApplicationDraft(), "")

	require.NoError(t, err)
	assert.Equal(t, "app-d1", id)
	assert.Equal(t, 3, db.calls)
}

func TestApplicationRepository_DoesNotRetryInvalidInput(t *testing.T) {
	db := &flakyCreator{failures: 5, err: fmt.Errorf("bad row: %w", apperrors.ErrInvalidInput)}
	repo := repository.NewApplicationRepository(db).WithRetryConfig(fastRetry())

	_, err := repo.Create(context.Background(), "d1", models.NewApplicationDraft(), "")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 1, db.calls)
}

func TestOfflineSink_ReturnsUUID(t *testing.T) {
	id, err := repository.NewOfflineSink().Create(context.Background(), "d1", models.NewApplicationDraft(), "")

	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}

func TestApplicationRepository_FailsFastWhenDatabaseIsDown(t *testing.T) {
	db := &flakyCreator{failures: 100, err: errors.New("connection refused")}
	noRetry := fastRetry()
	noRetry.MaxRetries = 0
	cfg := circuitbreaker.DefaultConfig("test")
	cfg.MinRequests = 2
	repo := repository.NewApplicationRepository(db).
		WithRetryConfig(noRetry).
		WithBreaker(circuitbreaker.New(cfg))

	for i := 0; i < 2; i++ {
		_, err := repo.Create(context.Background(), "d1", models.NewApplicationDraft(), "")
		require.Error(t, err)
	}

	_, err := repo.Create(context.Background(), "d1", models.NewApplicationDraft(), "")
	assert.ErrorIs(t, err, circuitbreaker.ErrUnavailable)
	assert.Equal(t, 2, db.calls)
}
