package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/getmentor/mentor-application-api/pkg/metrics"
	"go.uber.org/zap"
)

// ApplicationStatusPending is the review status of a freshly submitted application
const ApplicationStatusPending = "pending"

// A repeated insert for the same draft returns the existing row, so a retried
// submission never stores the application twice.
const insertApplicationQuery = `
	INSERT INTO mentor_applications (
		draft_id, first_name, last_name, email, phone, profile_image_url,
		current_position, company, experience, linkedin_url, github_url, academic_background,
		career_expertise, technical_interests, extracurricular_expertise,
		hours_per_week, mentorship_duration, preferred_format,
		short_bio, motivation_statement, previous_experience,
		accepted_terms, accepted_code_of_conduct, status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24)
	ON CONFLICT (draft_id) DO UPDATE SET draft_id = EXCLUDED.draft_id
	RETURNING id::text
`

// CreateApplication stores a validated application and returns its id
func (c *Client) CreateApplication(ctx context.Context, draftID string, d *models.ApplicationDraft, profileImageURL string) (string, error) {
	start := time.Now()
	operation := "createApplication"

	var id string
	err := c.db.QueryRow(ctx, insertApplicationQuery,
		draftID,
		d.FirstName,
		d.LastName,
		d.Email,
		d.Phone,
		nilIfEmpty(profileImageURL),
		d.CurrentPosition,
		d.Company,
		d.Experience,
		d.LinkedinURL,
		nilIfEmpty(d.GithubURL),
		d.AcademicBackground,
		d.CareerExpertise.Values(),
		d.TechnicalInterests.Values(),
		d.ExtracurricularExpertise.Values(),
		d.HoursPerWeek,
		d.MentorshipDuration,
		d.PreferredFormat.Values(),
		d.ShortBio,
		d.MotivationStatement,
		nilIfEmpty(d.PreviousExperience),
		d.AcceptTerms,
		d.AcceptCodeOfConduct,
		ApplicationStatusPending,
	).Scan(&id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return "", fmt.Errorf("failed to create mentor application: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("application_id", id))

	return id, nil
}
