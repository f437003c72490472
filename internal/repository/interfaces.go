package repository

import (
	"context"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/internal/wizard"
)

// DraftStore keeps in-progress application wizards between requests.
// Implementations must return copies so callers only change stored state through Save.
type DraftStore interface {
	// Get returns the wizard for id, or an error wrapping ErrNotFound when it is absent or expired
	Get(ctx context.Context, id string) (*wizard.Wizard, error)

	// Save stores the wizard and restarts its expiry
	Save(ctx context.Context, w *wizard.Wizard) error

	// Delete removes the wizard; deleting a missing id is not an error
	Delete(ctx context.Context, id string) error

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}

// ApplicationSink accepts validated applications from the submission handler
type ApplicationSink interface {
	// Create stores the application and returns its id
	Create(ctx context.Context, draftID string, draft *models.ApplicationDraft, profileImageURL string) (string, error)
}
