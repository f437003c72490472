package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/getmentor/mentor-application-api/config"
	"github.com/getmentor/mentor-application-api/internal/cache"
	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/internal/services"
	"github.com/getmentor/mentor-application-api/internal/wizard"
	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
	"github.com/getmentor/mentor-application-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fixture struct {
	service  *services.ApplicationService
	drafts   *cache.DraftCache
	sink     *MockApplicationSink
	uploader *MockImageUploader
	http     *MockHTTPClient
	tokens   *jwt.TokenManager
}

func testConfig(triggerURL string) *config.Config {
	return &config.Config{
		Drafts: config.DraftsConfig{
			Store:                config.DraftStoreMemory,
			TTLMinutes:           120,
			ProfileImageMaxBytes: 1024,
		},
		Session: config.SessionConfig{
			JWTSecret:    "test-secret",
			JWTIssuer:    "mentor-application-api",
			TTLHours:     24,
			CookieDomain: "getmentor.dev",
			CookieSecure: true,
		},
		EventTriggers: config.EventTriggersConfig{
			ApplicationSubmittedTriggerURL: triggerURL,
		},
	}
}

func newFixture(t *testing.T, withUploader bool, triggerURL string) *fixture {
	t.Helper()
	f := &fixture{
		drafts: cache.NewDraftCache(time.Hour),
		sink:   new(MockApplicationSink),
		http:   new(MockHTTPClient),
		tokens: jwt.NewTokenManager("test-secret", "mentor-application-api", 24),
	}
	var uploader services.ImageUploader
	if withUploader {
		f.uploader = new(MockImageUploader)
		uploader = f.uploader
	}
	f.service = services.NewApplicationService(f.drafts, f.sink, uploader, f.tokens, testConfig(triggerURL), f.http)
	return f
}

func validFields() map[string]any {
	return map[string]any{
		"firstName":           "Ada",
		"lastName":            "Lovelace",
		"email":               "ada@example.com",
		"phone":               "+44 20 7946 0000",
		"currentPosition":     "Staff Engineer",
		"company":             "Analytical Engines Ltd",
		"experience":          "10+",
		"linkedinUrl":         "https://www.linkedin.com/in/ada",
		"academicBackground":  "BSc Mathematics, University of London",
		"careerExpertise":     []any{"sde"},
		"technicalInterests":  []any{"dsa"},
		"hoursPerWeek":        "3-5",
		"mentorshipDuration":  "1_year",
		"preferredFormat":     []any{"one_on_one"},
		"shortBio":            strings.Repeat("b", 60),
		"motivationStatement": strings.Repeat("m", 120),
		"acceptTerms":         true,
		"acceptCodeOfConduct": true,
	}
}

func pngOpener() func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(pngBytes)), nil }
}

func TestApplicationService_StartIssuesBoundSession(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()

	state, token, err := f.service.Start(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, state.ID)
	assert.Equal(t, models.TabPersonal, state.ActiveTab)
	assert.Equal(t, models.Tabs(), state.Tabs)
	assert.False(t, state.Submitted)

	claims, err := f.tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, state.ID, claims.DraftID)

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, state.ID, stored.ID)
}

func TestApplicationService_StartFailsWhenStoreFails(t *testing.T) {
	store := new(MockDraftStore)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	service := services.NewApplicationService(store, new(MockApplicationSink), nil,
		jwt.NewTokenManager("s", "i", 1), testConfig(""), new(MockHTTPClient))

	_, _, err := service.Start(context.Background())

	assert.Error(t, err)
	store.AssertExpectations(t)
}

func TestApplicationService_GetMissingDraft(t *testing.T) {
	f := newFixture(t, false, "")

	_, err := f.service.Get(context.Background(), "expired")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApplicationService_UpdateFieldsPersists(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	updated, err := f.service.UpdateFields(ctx, state.ID, map[string]any{
		"firstName":       "Ada",
		"careerExpertise": []any{"sde", "aiml"},
		"acceptTerms":     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Draft.FirstName)

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Draft.FirstName)
	assert.True(t, stored.Draft.CareerExpertise.Has("aiml"))
	assert.True(t, stored.Draft.AcceptTerms)
}

func TestApplicationService_UpdateFieldsIsAllOrNothing(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	_, err = f.service.UpdateFields(ctx, state.ID, map[string]any{
		"firstName":  "Ada",
		"experience": "forever",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Draft.FirstName)
}

func TestApplicationService_UpdateFieldsRejectsUnknownField(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	_, err = f.service.UpdateFields(ctx, state.ID, map[string]any{"nickname": "ada"})

	assert.ErrorIs(t, err, wizard.ErrUnknownField)
}

func TestApplicationService_ToggleTag(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	on, err := f.service.ToggleTag(ctx, state.ID, models.FieldTechnicalInterests, "cloud")
	require.NoError(t, err)
	assert.True(t, on.Selected)
	assert.Equal(t, []string{"cloud"}, on.Values)

	off, err := f.service.ToggleTag(ctx, state.ID, models.FieldTechnicalInterests, "cloud")
	require.NoError(t, err)
	assert.False(t, off.Selected)
	assert.Empty(t, off.Values)

	_, err = f.service.ToggleTag(ctx, state.ID, models.FieldTechnicalInterests, "knitting")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestApplicationService_Navigate(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	moved, err := f.service.Navigate(ctx, state.ID, "commitment")
	require.NoError(t, err)
	assert.Equal(t, models.TabCommitment, moved.ActiveTab)

	_, err = f.service.Navigate(ctx, state.ID, "billing")
	assert.ErrorIs(t, err, models.ErrUnknownTab)

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TabCommitment, stored.ActiveTab)
}

func TestApplicationService_ValidateSection(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	result, err := f.service.ValidateSection(ctx, state.ID, "personal")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, models.FieldFirstName)
	assert.NotContains(t, result.Errors, models.FieldCompany)

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Errors, models.FieldFirstName)
}

func TestApplicationService_UploadProfileImage(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	resp, err := f.service.UploadProfileImage(ctx, state.ID, pngOpener())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ProfileImage, "data:image/png;base64,"))

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ProfileImage, stored.Draft.ProfileImage)
}

func TestApplicationService_UploadProfileImageRejectsOversize(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	big := append(append([]byte{}, pngBytes...), make([]byte, 2048)...)
	_, err = f.service.UploadProfileImage(ctx, state.ID, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(big)), nil
	})

	assert.ErrorIs(t, err, wizard.ErrImageTooLarge)
}

func TestApplicationService_SubmitInvalidDraft(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	fields := validFields()
	delete(fields, "email")
	_, err = f.service.UpdateFields(ctx, state.ID, fields)
	require.NoError(t, err)

	resp, err := f.service.Submit(ctx, state.ID)
	assert.ErrorIs(t, err, wizard.ErrValidationFailed)
	require.NotNil(t, resp)
	assert.False(t, resp.Submitted)
	assert.Equal(t, []string{models.FieldEmail}, keys(resp.Errors))
	assert.Contains(t, resp.Sections[models.TabPersonal], models.FieldEmail)

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.False(t, stored.Submitted)
	assert.Contains(t, stored.Errors, models.FieldEmail)
	f.sink.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplicationService_SubmitValidDraft(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)
	_, err = f.service.UpdateFields(ctx, state.ID, validFields())
	require.NoError(t, err)

	f.sink.On("Create", mock.Anything, state.ID, mock.MatchedBy(func(d *models.ApplicationDraft) bool {
		return d.Email == "ada@example.com" && d.CareerExpertise.Has("sde")
	}), "").Return("app-42", nil).Once()

	resp, err := f.service.Submit(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, resp.Submitted)
	assert.Equal(t, "app-42", resp.ApplicationID)
	assert.NotEmpty(t, resp.Message)

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, stored.Submitted)
	assert.Equal(t, "app-42", stored.ApplicationID)
	assert.Nil(t, stored.Draft)

	_, err = f.service.UpdateFields(ctx, state.ID, map[string]any{"firstName": "Grace"})
	assert.ErrorIs(t, err, wizard.ErrAlreadySubmitted)
	_, err = f.service.Submit(ctx, state.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = f.service.ValidateSection(ctx, state.ID, "personal")
	assert.ErrorIs(t, err, wizard.ErrAlreadySubmitted)

	f.sink.AssertExpectations(t)
}

func TestApplicationService_SubmitSinkFailureKeepsDraftOpen(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)
	_, err = f.service.UpdateFields(ctx, state.ID, validFields())
	require.NoError(t, err)

	sinkErr := errors.New("connection refused")
	f.sink.On("Create", mock.Anything, state.ID, mock.Anything, "").Return("", sinkErr).Once()
	f.sink.On("Create", mock.Anything, state.ID, mock.Anything, "").Return("app-43", nil).Once()

	resp, err := f.service.Submit(ctx, state.ID)
	assert.ErrorIs(t, err, sinkErr)
	require.NotNil(t, resp)
	assert.False(t, resp.Submitted)
	assert.NotEmpty(t, resp.Error)

	stored, err := f.service.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.False(t, stored.Submitted)
	assert.Equal(t, "Ada", stored.Draft.FirstName)

	resp, err = f.service.Submit(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, "app-43", resp.ApplicationID)
}

func TestApplicationService_SubmitUploadsProfileImage(t *testing.T) {
	f := newFixture(t, true, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)
	_, err = f.service.UpdateFields(ctx, state.ID, validFields())
	require.NoError(t, err)
	img, err := f.service.UploadProfileImage(ctx, state.ID, pngOpener())
	require.NoError(t, err)

	imageURL := "https://storage.yandexcloud.net/bucket/applications/" + state.ID + "/profile.png"
	f.uploader.On("UploadDataURL", mock.Anything, state.ID, img.ProfileImage).Return(imageURL, nil)
	f.sink.On("Create", mock.Anything, state.ID, mock.Anything, imageURL).Return("app-44", nil)

	resp, err := f.service.Submit(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, resp.Submitted)

	f.uploader.AssertExpectations(t)
	f.sink.AssertExpectations(t)
}

func TestApplicationService_SubmitWithoutImageWhenUploadFails(t *testing.T) {
	f := newFixture(t, true, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)
	_, err = f.service.UpdateFields(ctx, state.ID, validFields())
	require.NoError(t, err)
	_, err = f.service.UploadProfileImage(ctx, state.ID, pngOpener())
	require.NoError(t, err)

	f.uploader.On("UploadDataURL", mock.Anything, state.ID, mock.Anything).Return("", errors.New("bucket missing"))
	f.sink.On("Create", mock.Anything, state.ID, mock.Anything, "").Return("app-45", nil)

	resp, err := f.service.Submit(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, "app-45", resp.ApplicationID)
	f.sink.AssertExpectations(t)
}

func TestApplicationService_SubmitCallsTrigger(t *testing.T) {
	f := newFixture(t, false, "https://hooks.example.com/applications")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)
	_, err = f.service.UpdateFields(ctx, state.ID, validFields())
	require.NoError(t, err)
	f.sink.On("Create", mock.Anything, state.ID, mock.Anything, "").Return("app-46", nil)

	called := make(chan string, 1)
	f.http.On("Post", "https://hooks.example.com/applications", "application/json", mock.Anything).
		Run(func(args mock.Arguments) {
			body, _ := io.ReadAll(args.Get(2).(io.Reader))
			called <- string(body)
		}).
		Return(&http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil)

	_, err = f.service.Submit(ctx, state.ID)
	require.NoError(t, err)

	select {
	case body := <-called:
		assert.Contains(t, body, `"applicationId":"app-46"`)
		assert.Contains(t, body, `"email":"ada@example.com"`)
	case <-time.After(2 * time.Second):
		t.Fatal("trigger was not called")
	}
}

func TestApplicationService_Discard(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()
	state, _, err := f.service.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, f.service.Discard(ctx, state.ID))

	_, err = f.service.Get(ctx, state.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApplicationService_SessionSettings(t *testing.T) {
	f := newFixture(t, false, "")

	assert.Equal(t, 24*3600, f.service.GetSessionTTL())
	assert.Equal(t, "getmentor.dev", f.service.GetCookieDomain())
	assert.True(t, f.service.GetCookieSecure())
	assert.Same(t, f.tokens, f.service.GetTokenManager())
	assert.NotEmpty(t, f.service.Options().CareerExpertise)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
