package repository

import (
	"context"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OfflineSink accepts applications without storing them.
// Used when DB_WORK_OFFLINE is set; submission only flips the wizard state.
type OfflineSink struct{}

// NewOfflineSink creates an offline sink
func NewOfflineSink() *OfflineSink {
	return &OfflineSink{}
}

// Create returns a fresh id for the application
func (s *OfflineSink) Create(_ context.Context, draftID string, _ *models.ApplicationDraft, _ string) (string, error) {
	id := uuid.NewString()
	logger.Info("Application accepted in offline mode",
		zap.String("draft_id", draftID),
		zap.String("application_id", id))
	return id, nil
}

var _ ApplicationSink = (*OfflineSink)(nil)
