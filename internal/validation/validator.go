// Package validation checks mentor application drafts against the submission rules.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// fieldMessages holds the one message shown for each invalid field
var fieldMessages = map[string]string{
	models.FieldFirstName:           "First name must be at least 2 characters.",
	models.FieldLastName:            "Last name must be at least 2 characters.",
	models.FieldEmail:               "Please enter a valid email address.",
	models.FieldPhone:               "Please enter a valid phone number.",
	models.FieldCurrentPosition:     "Current position is required.",
	models.FieldCompany:             "Company/institution name is required.",
	models.FieldExperience:          "Years of experience is required.",
	models.FieldLinkedinURL:         "Please enter a valid LinkedIn URL.",
	models.FieldGithubURL:           "Please enter a valid GitHub URL.",
	models.FieldAcademicBackground:  "Please provide your academic background.",
	models.FieldCareerExpertise:     "Select at least one career area.",
	models.FieldTechnicalInterests:  "Select at least one technical interest.",
	models.FieldHoursPerWeek:        "Please specify your availability.",
	models.FieldMentorshipDuration:  "Please specify your commitment duration.",
	models.FieldPreferredFormat:     "Select at least one preferred format.",
	models.FieldShortBio:            "Bio should be at least 50 characters.",
	models.FieldMotivationStatement: "Please provide a detailed motivation statement.",
	models.FieldAcceptTerms:         "You must accept the terms and conditions.",
	models.FieldAcceptCodeOfConduct: "You must accept the mentor code of conduct.",
}

// Result is the outcome of validating a draft. A nil or empty Errors map means valid.
type Result struct {
	Errors map[string]string `json:"errors,omitempty"`
}

// OK reports whether the draft satisfied every checked rule
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Fields returns the names of the invalid fields
func (r Result) Fields() []string {
	fields := make([]string, 0, len(r.Errors))
	for field := range r.Errors {
		fields = append(fields, field)
	}
	return fields
}

// BySection groups field errors by the wizard tab rendering them,
// so errors behind an inactive tab can still be found.
func (r Result) BySection() map[models.Tab]map[string]string {
	if r.OK() {
		return nil
	}
	sections := make(map[models.Tab]map[string]string)
	for field, msg := range r.Errors {
		tab, ok := models.SectionOf(field)
		if !ok {
			continue
		}
		if sections[tab] == nil {
			sections[tab] = make(map[string]string)
		}
		sections[tab][field] = msg
	}
	return sections
}

// Validator evaluates the declarative draft rules
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator reporting fields by their json names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Tag sets are checked as plain slices so min=1 counts selected tags
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if set, ok := field.Interface().(models.TagSet); ok {
			return set.Values()
		}
		return nil
	}, models.TagSet{})

	return &Validator{validate: v}
}

// Validate checks the whole draft and reports every invalid field across all tabs.
// A nil draft is treated as a freshly created one.
func (v *Validator) Validate(draft *models.ApplicationDraft) Result {
	if draft == nil {
		draft = models.NewApplicationDraft()
	}

	err := v.validate.Struct(draft)
	if err == nil {
		return Result{}
	}

	errs := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Only reachable for non-struct input; surface it instead of panicking
		errs["draft"] = "Application could not be validated."
		return Result{Errors: errs}
	}

	for _, fe := range validationErrors {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = messageFor(fe)
	}

	return Result{Errors: errs}
}

// ValidateSection checks only the fields rendered in one tab
func (v *Validator) ValidateSection(draft *models.ApplicationDraft, tab models.Tab) Result {
	full := v.Validate(draft)
	if full.OK() {
		return full
	}

	errs := make(map[string]string)
	for _, field := range models.SectionFields(tab) {
		if msg, ok := full.Errors[field]; ok {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return Result{}
	}
	return Result{Errors: errs}
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}
