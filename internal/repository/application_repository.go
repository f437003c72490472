package repository

import (
	"context"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/pkg/circuitbreaker"
	"github.com/getmentor/mentor-application-api/pkg/retry"
)

// ApplicationCreator stores one application and returns its id
type ApplicationCreator interface {
	CreateApplication(ctx context.Context, draftID string, draft *models.ApplicationDraft, profileImageURL string) (string, error)
}

// ApplicationRepository hands validated applications to the database.
// Retries run inside a circuit breaker so an unreachable database fails fast.
type ApplicationRepository struct {
	db          ApplicationCreator
	retryConfig retry.Config
	breaker     *circuitbreaker.Breaker
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db ApplicationCreator) *ApplicationRepository {
	return &ApplicationRepository{
		db:          db,
		retryConfig: retry.DatabaseConfig(),
		breaker:     circuitbreaker.New(circuitbreaker.DefaultConfig("postgres.applications")),
	}
}

// WithBreaker replaces the circuit breaker
func (r *ApplicationRepository) WithBreaker(breaker *circuitbreaker.Breaker) *ApplicationRepository {
	r.breaker = breaker
	return r
}

// WithRetryConfig replaces the retry policy
func (r *ApplicationRepository) WithRetryConfig(config retry.Config) *ApplicationRepository {
	r.retryConfig = config
	return r
}

// Create stores the application, retrying transient failures
func (r *ApplicationRepository) Create(ctx context.Context, draftID string, draft *models.ApplicationDraft, profileImageURL string) (string, error) {
	return circuitbreaker.Execute(r.breaker, func() (string, error) {
		return retry.DoWithResult(ctx, r.retryConfig, "postgres.createApplication", func() (string, error) {
			return r.db.CreateApplication(ctx, draftID, draft, profileImageURL)
		})
	})
}

var _ ApplicationSink = (*ApplicationRepository)(nil)
