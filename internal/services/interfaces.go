package services

import (
	"context"
	"io"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/pkg/jwt"
)

// ApplicationServiceInterface defines the mentor application wizard operations
type ApplicationServiceInterface interface {
	Options() models.ApplicationOptions
	Start(ctx context.Context) (*models.WizardState, string, error)
	Get(ctx context.Context, draftID string) (*models.WizardState, error)
	UpdateFields(ctx context.Context, draftID string, fields map[string]any) (*models.WizardState, error)
	ToggleTag(ctx context.Context, draftID, field, tag string) (*models.ToggleTagResponse, error)
	Navigate(ctx context.Context, draftID, tab string) (*models.WizardState, error)
	ValidateSection(ctx context.Context, draftID, tab string) (*models.SectionValidationResponse, error)
	UploadProfileImage(ctx context.Context, draftID string, open func() (io.ReadCloser, error)) (*models.ProfileImageResponse, error)
	Submit(ctx context.Context, draftID string) (*models.SubmitApplicationResponse, error)
	Discard(ctx context.Context, draftID string) error

	GetSessionTTL() int
	GetCookieDomain() string
	GetCookieSecure() bool
	GetTokenManager() *jwt.TokenManager
}

// ImageUploader stores a profile image data URL and returns its public URL
type ImageUploader interface {
	UploadDataURL(ctx context.Context, draftID, dataURL string) (string, error)
}
