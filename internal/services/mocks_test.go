package services_test

import (
	"context"
	"io"
	"net/http"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/internal/wizard"
	"github.com/stretchr/testify/mock"
)

// MockDraftStore is a mock implementation of repository.DraftStore
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Get(ctx context.Context, id string) (*wizard.Wizard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Wizard), args.Error(1)
}

func (m *MockDraftStore) Save(ctx context.Context, w *wizard.Wizard) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockDraftStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDraftStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockApplicationSink is a mock implementation of repository.ApplicationSink
type MockApplicationSink struct {
	mock.Mock
}

func (m *MockApplicationSink) Create(ctx context.Context, draftID string, draft *models.ApplicationDraft, profileImageURL string) (string, error) {
	args := m.Called(ctx, draftID, draft, profileImageURL)
	return args.String(0), args.Error(1)
}

// MockImageUploader is a mock implementation of ImageUploader
type MockImageUploader struct {
	mock.Mock
}

func (m *MockImageUploader) UploadDataURL(ctx context.Context, draftID, dataURL string) (string, error) {
	args := m.Called(ctx, draftID, dataURL)
	return args.String(0), args.Error(1)
}

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(url, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}
