package validation_test

import (
	"strings"
	"testing"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *models.ApplicationDraft {
	return &models.ApplicationDraft{
		FirstName:                "Ada",
		LastName:                 "Lovelace",
		Email:                    "ada@example.com",
		Phone:                    "+1 555 123 4567",
		CurrentPosition:          "Staff Engineer",
		Company:                  "Analytical Engines Ltd",
		Experience:               "10+",
		LinkedinURL:              "https://www.linkedin.com/in/ada",
		GithubURL:                "",
		AcademicBackground:       "BSc Mathematics, University of London",
		CareerExpertise:          models.NewTagSet("sde", "research"),
		TechnicalInterests:       models.NewTagSet("dsa"),
		ExtracurricularExpertise: models.NewTagSet(),
		HoursPerWeek:             "3-5",
		MentorshipDuration:       "6_months",
		PreferredFormat:          models.NewTagSet("one_on_one"),
		ShortBio:                 strings.Repeat("b", 50),
		MotivationStatement:      strings.Repeat("m", 100),
		AcceptTerms:              true,
		AcceptCodeOfConduct:      true,
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	result := validation.New().Validate(validDraft())

	assert.True(t, result.OK())
	assert.Empty(t, result.Errors)
	assert.Nil(t, result.BySection())
}

func TestValidate_MissingRequiredField(t *testing.T) {
	clearers := map[string]func(d *models.ApplicationDraft){
		"firstName":           func(d *models.ApplicationDraft) { d.FirstName = "" },
		"lastName":            func(d *models.ApplicationDraft) { d.LastName = "" },
		"email":               func(d *models.ApplicationDraft) { d.Email = "" },
		"phone":               func(d *models.ApplicationDraft) { d.Phone = "" },
		"currentPosition":     func(d *models.ApplicationDraft) { d.CurrentPosition = "" },
		"company":             func(d *models.ApplicationDraft) { d.Company = "" },
		"experience":          func(d *models.ApplicationDraft) { d.Experience = "" },
		"linkedinUrl":         func(d *models.ApplicationDraft) { d.LinkedinURL = "" },
		"academicBackground":  func(d *models.ApplicationDraft) { d.AcademicBackground = "" },
		"careerExpertise":     func(d *models.ApplicationDraft) { d.CareerExpertise = models.TagSet{} },
		"technicalInterests":  func(d *models.ApplicationDraft) { d.TechnicalInterests = models.TagSet{} },
		"hoursPerWeek":        func(d *models.ApplicationDraft) { d.HoursPerWeek = "" },
		"mentorshipDuration":  func(d *models.ApplicationDraft) { d.MentorshipDuration = "" },
		"preferredFormat":     func(d *models.ApplicationDraft) { d.PreferredFormat = models.TagSet{} },
		"shortBio":            func(d *models.ApplicationDraft) { d.ShortBio = "" },
		"motivationStatement": func(d *models.ApplicationDraft) { d.MotivationStatement = "" },
		"acceptTerms":         func(d *models.ApplicationDraft) { d.AcceptTerms = false },
		"acceptCodeOfConduct": func(d *models.ApplicationDraft) { d.AcceptCodeOfConduct = false },
	}

	v := validation.New()
	for field, clear := range clearers {
		t.Run(field, func(t *testing.T) {
			draft := validDraft()
			clear(draft)

			result := v.Validate(draft)
			require.False(t, result.OK())
			assert.Contains(t, result.Errors, field)
			assert.Len(t, result.Errors, 1, "only the cleared field is reported")
		})
	}
}

func TestValidate_OptionalFieldsMayBeEmpty(t *testing.T) {
	draft := validDraft()
	draft.GithubURL = ""
	draft.PreviousExperience = ""
	draft.ExtracurricularExpertise = models.TagSet{}
	draft.ProfileImage = ""

	assert.True(t, validation.New().Validate(draft).OK())
}

func TestValidate_ExactMessages(t *testing.T) {
	result := validation.New().Validate(models.NewApplicationDraft())

	expected := map[string]string{
		"firstName":           "First name must be at least 2 characters.",
		"lastName":            "Last name must be at least 2 characters.",
		"email":               "Please enter a valid email address.",
		"phone":               "Please enter a valid phone number.",
		"currentPosition":     "Current position is required.",
		"company":             "Company/institution name is required.",
		"experience":          "Years of experience is required.",
		"linkedinUrl":         "Please enter a valid LinkedIn URL.",
		"academicBackground":  "Please provide your academic background.",
		"careerExpertise":     "Select at least one career area.",
		"technicalInterests":  "Select at least one technical interest.",
		"hoursPerWeek":        "Please specify your availability.",
		"mentorshipDuration":  "Please specify your commitment duration.",
		"preferredFormat":     "Select at least one preferred format.",
		"shortBio":            "Bio should be at least 50 characters.",
		"motivationStatement": "Please provide a detailed motivation statement.",
		"acceptTerms":         "You must accept the terms and conditions.",
		"acceptCodeOfConduct": "You must accept the mentor code of conduct.",
	}
	assert.Equal(t, expected, result.Errors)
}

func TestValidate_LengthBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(d *models.ApplicationDraft, n int)
		min    int
	}{
		{"first name", "firstName", func(d *models.ApplicationDraft, n int) { d.FirstName = strings.Repeat("a", n) }, 2},
		{"phone", "phone", func(d *models.ApplicationDraft, n int) { d.Phone = strings.Repeat("1", n) }, 10},
		{"academic background", "academicBackground", func(d *models.ApplicationDraft, n int) { d.AcademicBackground = strings.Repeat("x", n) }, 10},
		{"bio", "shortBio", func(d *models.ApplicationDraft, n int) { d.ShortBio = strings.Repeat("x", n) }, 50},
		{"motivation", "motivationStatement", func(d *models.ApplicationDraft, n int) { d.MotivationStatement = strings.Repeat("x", n) }, 100},
	}

	v := validation.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft, tt.min-1)
			assert.Contains(t, v.Validate(draft).Errors, tt.field)

			draft = validDraft()
			tt.mutate(draft, tt.min)
			assert.NotContains(t, v.Validate(draft).Errors, tt.field)
		})
	}
}

func TestValidate_PhoneIsLengthOnly(t *testing.T) {
	draft := validDraft()
	draft.Phone = "call me maybe"

	assert.True(t, validation.New().Validate(draft).OK())
}

func TestValidate_URLs(t *testing.T) {
	tests := []struct {
		name     string
		linkedin string
		github   string
		invalid  []string
	}{
		{"both valid", "https://linkedin.com/in/ada", "https://github.com/ada", nil},
		{"github absent", "https://linkedin.com/in/ada", "", nil},
		{"github malformed", "https://linkedin.com/in/ada", "github.com/ada", []string{"githubUrl"}},
		{"linkedin relative", "/in/ada", "", []string{"linkedinUrl"}},
		{"both malformed", "linkedin", "not a url", []string{"linkedinUrl", "githubUrl"}},
	}

	v := validation.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			draft.LinkedinURL = tt.linkedin
			draft.GithubURL = tt.github

			result := v.Validate(draft)
			assert.ElementsMatch(t, tt.invalid, result.Fields())
		})
	}
}

func TestValidate_ConsentGatesSubmission(t *testing.T) {
	v := validation.New()
	for _, consent := range []struct{ terms, conduct bool }{{false, true}, {true, false}, {false, false}} {
		draft := validDraft()
		draft.AcceptTerms = consent.terms
		draft.AcceptCodeOfConduct = consent.conduct

		result := v.Validate(draft)
		assert.False(t, result.OK())
		if !consent.terms {
			assert.Contains(t, result.Errors, "acceptTerms")
		}
		if !consent.conduct {
			assert.Contains(t, result.Errors, "acceptCodeOfConduct")
		}
	}
}

func TestValidate_MixedDraftScenario(t *testing.T) {
	draft := validDraft()
	draft.FirstName = "Al"
	draft.LastName = ""
	draft.Email = "bad-email"
	draft.CareerExpertise = models.TagSet{}

	result := validation.New().Validate(draft)

	assert.Equal(t, "Last name must be at least 2 characters.", result.Errors["lastName"])
	assert.Equal(t, "Please enter a valid email address.", result.Errors["email"])
	assert.Equal(t, "Select at least one career area.", result.Errors["careerExpertise"])
	assert.NotContains(t, result.Errors, "firstName")
	assert.Len(t, result.Errors, 3)
}

func TestValidate_NilDraftDoesNotPanic(t *testing.T) {
	var result validation.Result
	assert.NotPanics(t, func() {
		result = validation.New().Validate(nil)
	})
	assert.False(t, result.OK())
	assert.Contains(t, result.Errors, "firstName")
}

func TestValidateSection_OnlyReportsRenderedFields(t *testing.T) {
	v := validation.New()
	draft := models.NewApplicationDraft()
	draft.FirstName = "Ada"
	draft.LastName = "Lovelace"
	draft.Email = "ada@example.com"
	draft.Phone = "0123456789"

	personal := v.ValidateSection(draft, models.TabPersonal)
	assert.True(t, personal.OK(), "commitment errors must not surface on the personal tab")

	expertise := v.ValidateSection(draft, models.TabExpertise)
	assert.ElementsMatch(t, []string{"careerExpertise", "technicalInterests"}, expertise.Fields())

	commitment := v.ValidateSection(draft, models.TabCommitment)
	assert.Contains(t, commitment.Errors, "acceptTerms")
	assert.NotContains(t, commitment.Errors, "careerExpertise")
}

func TestResult_BySection(t *testing.T) {
	draft := validDraft()
	draft.LastName = ""
	draft.PreferredFormat = models.TagSet{}
	draft.AcceptTerms = false

	sections := validation.New().Validate(draft).BySection()

	assert.Equal(t, map[models.Tab]map[string]string{
		models.TabPersonal: {"lastName": "Last name must be at least 2 characters."},
		models.TabCommitment: {
			"preferredFormat": "Select at least one preferred format.",
			"acceptTerms":     "You must accept the terms and conditions.",
		},
	}, sections)
}
