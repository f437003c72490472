package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/getmentor/mentor-application-api/config"
	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/internal/repository"
	"github.com/getmentor/mentor-application-api/internal/validation"
	"github.com/getmentor/mentor-application-api/internal/wizard"
	"github.com/getmentor/mentor-application-api/pkg/httpclient"
	"github.com/getmentor/mentor-application-api/pkg/jwt"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/getmentor/mentor-application-api/pkg/metrics"
	"github.com/getmentor/mentor-application-api/pkg/tracing"
	"github.com/getmentor/mentor-application-api/pkg/trigger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	submitSuccessMessage = "Application submitted successfully!"
	submitInvalidMessage = "Please fix the highlighted fields before submitting."
	submitFailedMessage  = "Failed to submit application. Please try again."
)

// ApplicationService runs wizard operations against stored drafts.
// Each call loads the draft, applies one change and saves it back.
type ApplicationService struct {
	drafts       repository.DraftStore
	sink         repository.ApplicationSink
	uploader     ImageUploader
	validator    *validation.Validator
	tokenManager *jwt.TokenManager
	config       *config.Config
	httpClient   httpclient.Client
	locks        draftLocks
	now          func() time.Time
	newID        func() string
}

// NewApplicationService creates a new application service.
// uploader may be nil when object storage is not configured.
func NewApplicationService(
	drafts repository.DraftStore,
	sink repository.ApplicationSink,
	uploader ImageUploader,
	tokenManager *jwt.TokenManager,
	cfg *config.Config,
	httpClient httpclient.Client,
) *ApplicationService {
	return &ApplicationService{
		drafts:       drafts,
		sink:         sink,
		uploader:     uploader,
		validator:    validation.New(),
		tokenManager: tokenManager,
		config:       cfg,
		httpClient:   httpClient,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
}

// Options returns the catalogs of selectable values
func (s *ApplicationService) Options() models.ApplicationOptions {
	return models.Options()
}

// Start creates an empty draft and a session token bound to it
func (s *ApplicationService) Start(ctx context.Context) (*models.WizardState, string, error) {
	w := wizard.New(s.newID(), s.now())

	if err := s.drafts.Save(ctx, w); err != nil {
		logger.Error("Failed to save new application draft", zap.Error(err))
		return nil, "", fmt.Errorf("failed to start application: %w", err)
	}

	token, err := s.tokenManager.GenerateToken(w.ID)
	if err != nil {
		_ = s.drafts.Delete(ctx, w.ID)
		return nil, "", fmt.Errorf("failed to issue application session: %w", err)
	}

	metrics.ApplicationDraftsStarted.Inc()
	logger.Info("Application draft started", zap.String("draft_id", w.ID))

	state := w.State()
	return &state, token, nil
}

// Get returns the current wizard state
func (s *ApplicationService) Get(ctx context.Context, draftID string) (*models.WizardState, error) {
	w, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	state := w.State()
	return &state, nil
}

// UpdateFields applies field edits. Either every edit is stored or none is.
func (s *ApplicationService) UpdateFields(ctx context.Context, draftID string, fields map[string]any) (*models.WizardState, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	w, err := s.update(ctx, draftID, func(w *wizard.Wizard) error {
		for _, name := range names {
			if err := w.SetField(name, fields[name]); err != nil {
				return err
			}
		}
		w.Revalidate(s.validator)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		if section, ok := models.SectionOf(name); ok {
			metrics.ApplicationFieldUpdates.WithLabelValues(section.String()).Inc()
		}
	}

	state := w.State()
	return &state, nil
}

// ToggleTag flips one tag of a tag-set field
func (s *ApplicationService) ToggleTag(ctx context.Context, draftID, field, tag string) (*models.ToggleTagResponse, error) {
	var selected bool
	w, err := s.update(ctx, draftID, func(w *wizard.Wizard) error {
		var toggleErr error
		selected, toggleErr = w.ToggleTag(field, tag)
		if toggleErr != nil {
			return toggleErr
		}
		w.Revalidate(s.validator)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if section, ok := models.SectionOf(field); ok {
		metrics.ApplicationFieldUpdates.WithLabelValues(section.String()).Inc()
	}

	set, _ := w.Draft.TagField(field)
	return &models.ToggleTagResponse{
		Field:    field,
		Tag:      tag,
		Selected: selected,
		Values:   set.Values(),
	}, nil
}

// Navigate switches the active tab
func (s *ApplicationService) Navigate(ctx context.Context, draftID, rawTab string) (*models.WizardState, error) {
	tab, err := models.ParseTab(rawTab)
	if err != nil {
		return nil, err
	}

	w, err := s.update(ctx, draftID, func(w *wizard.Wizard) error {
		return w.NavigateTo(tab)
	})
	if err != nil {
		return nil, err
	}

	metrics.ApplicationTabNavigations.WithLabelValues(tab.String()).Inc()

	state := w.State()
	return &state, nil
}

// ValidateSection checks the fields of one tab and keeps the outcome on the draft
func (s *ApplicationService) ValidateSection(ctx context.Context, draftID, rawTab string) (*models.SectionValidationResponse, error) {
	tab, err := models.ParseTab(rawTab)
	if err != nil {
		return nil, err
	}

	var result validation.Result
	_, err = s.update(ctx, draftID, func(w *wizard.Wizard) error {
		var validateErr error
		result, validateErr = w.ValidateSection(s.validator, tab)
		return validateErr
	})
	if err != nil {
		return nil, err
	}

	return &models.SectionValidationResponse{
		Section: tab,
		Valid:   result.OK(),
		Errors:  result.Errors,
	}, nil
}

// UploadProfileImage reads a picked file into the draft as a data URL preview
func (s *ApplicationService) UploadProfileImage(ctx context.Context, draftID string, open func() (io.ReadCloser, error)) (*models.ProfileImageResponse, error) {
	dataURL, err := wizard.ReadImage(open, s.config.Drafts.ProfileImageMaxBytes)
	if err != nil {
		metrics.ProfileImageReads.WithLabelValues("rejected").Inc()
		logger.Warn("Profile image rejected", zap.String("draft_id", draftID), zap.Error(err))
		return nil, err
	}

	if _, err := s.update(ctx, draftID, func(w *wizard.Wizard) error {
		return w.SetProfileImage(dataURL)
	}); err != nil {
		metrics.ProfileImageReads.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ProfileImageReads.WithLabelValues("success").Inc()
	return &models.ProfileImageResponse{ProfileImage: dataURL}, nil
}

// Submit validates the whole draft and hands it to the application sink.
// The returned response is always set when the draft could be loaded, also
// alongside wizard.ErrValidationFailed or a handoff error.
func (s *ApplicationService) Submit(ctx context.Context, draftID string) (resp *models.SubmitApplicationResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "application.submit", attribute.String("draft.id", draftID))
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.lock(draftID)
	defer unlock()

	w, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	var email string
	result, submitErr := w.Submit(s.validator, func(draft *models.ApplicationDraft) (string, error) {
		email = draft.Email
		return s.handoff(ctx, draftID, draft)
	})

	switch {
	case errors.Is(submitErr, wizard.ErrAlreadySubmitted):
		return nil, submitErr

	case errors.Is(submitErr, wizard.ErrValidationFailed):
		if err := s.drafts.Save(ctx, w); err != nil {
			return nil, err
		}
		for field := range result.Errors {
			metrics.ApplicationValidationFailures.WithLabelValues(field).Inc()
		}
		metrics.ApplicationSubmissions.WithLabelValues("invalid").Inc()
		logger.Info("Application submission rejected by validation",
			zap.String("draft_id", draftID),
			zap.Strings("fields", result.Fields()))
		return &models.SubmitApplicationResponse{
			Submitted: false,
			Error:     submitInvalidMessage,
			Errors:    result.Errors,
			Sections:  result.BySection(),
		}, submitErr

	case submitErr != nil:
		// Draft stays open; the user can retry
		if err := s.drafts.Save(ctx, w); err != nil {
			logger.Error("Failed to save draft after handoff failure", zap.String("draft_id", draftID), zap.Error(err))
		}
		metrics.ApplicationSubmissions.WithLabelValues("error").Inc()
		logger.Error("Failed to submit application", zap.String("draft_id", draftID), zap.Error(submitErr))
		return &models.SubmitApplicationResponse{
			Submitted: false,
			Error:     submitFailedMessage,
		}, submitErr
	}

	if err := s.drafts.Save(ctx, w); err != nil {
		// The application is stored; only the confirmation view is lost
		logger.Error("Failed to save submitted draft state", zap.String("draft_id", draftID), zap.Error(err))
	}

	metrics.ApplicationSubmissions.WithLabelValues("success").Inc()
	logger.Info("Application submitted",
		zap.String("draft_id", draftID),
		zap.String("application_id", w.ApplicationID))

	trigger.CallAsync(s.config.EventTriggers.ApplicationSubmittedTriggerURL, trigger.ApplicationSubmitted{
		ApplicationID: w.ApplicationID,
		DraftID:       draftID,
		Email:         email,
	}, s.httpClient, nil)

	return &models.SubmitApplicationResponse{
		Submitted:     true,
		ApplicationID: w.ApplicationID,
		Message:       submitSuccessMessage,
	}, nil
}

// Discard deletes the draft
func (s *ApplicationService) Discard(ctx context.Context, draftID string) error {
	unlock := s.locks.lock(draftID)
	defer unlock()

	if err := s.drafts.Delete(ctx, draftID); err != nil {
		return fmt.Errorf("failed to discard application: %w", err)
	}
	logger.Info("Application draft discarded", zap.String("draft_id", draftID))
	return nil
}

// GetSessionTTL returns the session cookie lifetime in seconds
func (s *ApplicationService) GetSessionTTL() int {
	return int(s.tokenManager.GetExpirationTime().Seconds())
}

// GetCookieDomain returns the session cookie domain
func (s *ApplicationService) GetCookieDomain() string {
	return s.config.Session.CookieDomain
}

// GetCookieSecure reports whether the session cookie is Secure
func (s *ApplicationService) GetCookieSecure() bool {
	return s.config.Session.CookieSecure
}

// GetTokenManager returns the session token manager
func (s *ApplicationService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}

// update loads a draft, applies fn and saves the result when fn succeeds
func (s *ApplicationService) update(ctx context.Context, draftID string, fn func(w *wizard.Wizard) error) (*wizard.Wizard, error) {
	unlock := s.locks.lock(draftID)
	defer unlock()

	w, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if err := fn(w); err != nil {
		return nil, err
	}

	if err := s.drafts.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to save application draft: %w", err)
	}
	return w, nil
}

// handoff uploads the profile image when storage is configured and stores the application
func (s *ApplicationService) handoff(ctx context.Context, draftID string, draft *models.ApplicationDraft) (applicationID string, err error) {
	ctx, span := tracing.StartSpan(ctx, "application.handoff")
	defer func() { tracing.EndSpan(span, err) }()

	var imageURL string
	if s.uploader != nil && draft.ProfileImage != "" {
		url, err := s.uploader.UploadDataURL(ctx, draftID, draft.ProfileImage)
		if err != nil {
			logger.Warn("Profile image upload failed, submitting without image",
				zap.String("draft_id", draftID),
				zap.Error(err))
		} else {
			imageURL = url
		}
	}

	return s.sink.Create(ctx, draftID, draft, imageURL)
}
