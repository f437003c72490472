// Package wizard holds the state of one mentor application: the shared draft,
// the active section and the terminal submitted flag. Every draft mutation goes
// through a Wizard so section bindings stay consistent with the field registry.
package wizard

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/internal/validation"
	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
	"github.com/getmentor/mentor-application-api/pkg/storage"
)

// MaxTextLength caps free-text field values
const MaxTextLength = 5000

var (
	// ErrUnknownField is returned for field names the form does not render
	ErrUnknownField = fmt.Errorf("unknown field: %w", apperrors.ErrInvalidInput)

	// ErrInvalidValue is returned when a value has the wrong kind or is outside the field's catalog
	ErrInvalidValue = fmt.Errorf("invalid value: %w", apperrors.ErrInvalidInput)

	// ErrValidationFailed is returned by Submit when the draft has field errors
	ErrValidationFailed = fmt.Errorf("application has invalid fields: %w", apperrors.ErrInvalidInput)

	// ErrAlreadySubmitted is returned for any change after a successful submission
	ErrAlreadySubmitted = apperrors.ConflictError("application already submitted")
)

// Handoff passes a validated draft to the backend and returns the stored application id
type Handoff func(draft *models.ApplicationDraft) (string, error)

// Wizard is the state of one application session.
// Draft is dropped once the application has been handed off.
type Wizard struct {
	ID            string                   `json:"id"`
	ActiveTab     models.Tab               `json:"activeTab"`
	Draft         *models.ApplicationDraft `json:"draft,omitempty"`
	Errors        map[string]string        `json:"errors,omitempty"`
	Submitted     bool                     `json:"submitted"`
	ApplicationID string                   `json:"applicationId,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// New creates a wizard on the personal tab with an empty draft
func New(id string, now time.Time) *Wizard {
	return &Wizard{
		ID:        id,
		ActiveTab: models.TabPersonal,
		Draft:     models.NewApplicationDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the wizard
func (w *Wizard) Clone() *Wizard {
	if w == nil {
		return nil
	}
	out := *w
	out.Draft = w.Draft.Clone()
	out.Errors = copyErrors(w.Errors)
	return &out
}

// State returns the view of the wizard sent to the form
func (w *Wizard) State() models.WizardState {
	return models.WizardState{
		ID:            w.ID,
		ActiveTab:     w.ActiveTab,
		Tabs:          models.Tabs(),
		Draft:         w.Draft.Clone(),
		Errors:        copyErrors(w.Errors),
		Submitted:     w.Submitted,
		ApplicationID: w.ApplicationID,
	}
}

// NavigateTo makes tab the active section. It does not check earlier sections.
func (w *Wizard) NavigateTo(tab models.Tab) error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	if !tab.Valid() {
		return fmt.Errorf("%q: %w", string(tab), models.ErrUnknownTab)
	}
	w.ActiveTab = tab
	w.touch()
	return nil
}

// SetField stores one value through the named field's binding.
// Text and choice fields take strings, consents take booleans and tag fields
// take a list of strings that replaces the current selection. The profile
// image can only be cleared here; SetProfileImage stores a new one.
func (w *Wizard) SetField(name string, value any) error {
	if err := w.editable(); err != nil {
		return err
	}

	spec, ok := models.LookupField(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownField)
	}

	switch spec.Kind {
	case models.FieldKindText, models.FieldKindChoice, models.FieldKindImage:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s must be a string: %w", name, ErrInvalidValue)
		}
		if err := checkText(spec, s); err != nil {
			return err
		}
		field, _ := w.Draft.TextField(name)
		*field = s

	case models.FieldKindConsent:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%s must be a boolean: %w", name, ErrInvalidValue)
		}
		field, _ := w.Draft.ConsentField(name)
		*field = b

	case models.FieldKindTags:
		tags, err := toStrings(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for _, tag := range tags {
			if !spec.Allows(tag) {
				return fmt.Errorf("%s does not offer %q: %w", name, tag, ErrInvalidValue)
			}
		}
		field, _ := w.Draft.TagField(name)
		*field = models.NewTagSet(tags...)

	default:
		return fmt.Errorf("%q: %w", name, ErrUnknownField)
	}

	w.touch()
	return nil
}

// ToggleTag adds tag to a tag-set field when absent and removes it when present.
// It reports whether the tag is selected afterwards.
func (w *Wizard) ToggleTag(name, tag string) (bool, error) {
	if err := w.editable(); err != nil {
		return false, err
	}

	spec, ok := models.LookupField(name)
	if !ok || spec.Kind != models.FieldKindTags {
		return false, fmt.Errorf("%q is not a tag field: %w", name, ErrUnknownField)
	}
	if !spec.Allows(tag) {
		return false, fmt.Errorf("%s does not offer %q: %w", name, tag, ErrInvalidValue)
	}

	field, _ := w.Draft.TagField(name)
	selected := field.Toggle(tag)
	w.touch()
	return selected, nil
}

// SetProfileImage stores an image preview data URL. An empty string removes it.
// The payload must decode to one of AllowedImageTypes and match its declared type.
func (w *Wizard) SetProfileImage(dataURL string) error {
	if err := w.editable(); err != nil {
		return err
	}
	if dataURL != "" {
		if _, _, err := storage.ParseDataURL(dataURL); err != nil {
			return fmt.Errorf("%s: %w: %w", models.FieldProfileImage, ErrInvalidValue, err)
		}
	}
	w.Draft.ProfileImage = dataURL
	w.touch()
	return nil
}

// ValidateSection checks the fields rendered in tab and replaces that
// section's entries in the stored errors.
func (w *Wizard) ValidateSection(v *validation.Validator, tab models.Tab) (validation.Result, error) {
	if !tab.Valid() {
		return validation.Result{}, fmt.Errorf("%q: %w", string(tab), models.ErrUnknownTab)
	}
	if err := w.editable(); err != nil {
		return validation.Result{}, err
	}

	result := v.ValidateSection(w.Draft, tab)

	for _, field := range models.SectionFields(tab) {
		delete(w.Errors, field)
	}
	for field, msg := range result.Errors {
		if w.Errors == nil {
			w.Errors = make(map[string]string)
		}
		w.Errors[field] = msg
	}
	if len(w.Errors) == 0 {
		w.Errors = nil
	}
	return result, nil
}

// Revalidate refreshes the messages of fields that are already in error,
// dropping the ones the latest edits fixed.
func (w *Wizard) Revalidate(v *validation.Validator) {
	if w.Submitted || len(w.Errors) == 0 {
		return
	}
	current := v.Validate(w.Draft)
	for field := range w.Errors {
		if msg, ok := current.Errors[field]; ok {
			w.Errors[field] = msg
		} else {
			delete(w.Errors, field)
		}
	}
	if len(w.Errors) == 0 {
		w.Errors = nil
	}
}

// Submit validates the whole draft and hands it off when valid.
// On field errors the wizard stays open with every error stored; on a handoff
// failure it stays open with no errors so the submission can be retried.
// A successful handoff is terminal.
func (w *Wizard) Submit(v *validation.Validator, handoff Handoff) (validation.Result, error) {
	if w.Submitted {
		return validation.Result{}, ErrAlreadySubmitted
	}

	result := v.Validate(w.Draft)
	if !result.OK() {
		w.Errors = copyErrors(result.Errors)
		w.touch()
		return result, ErrValidationFailed
	}
	w.Errors = nil

	applicationID, err := handoff(w.Draft.Clone())
	if err != nil {
		w.touch()
		return result, fmt.Errorf("submit application: %w", err)
	}

	w.Submitted = true
	w.ApplicationID = applicationID
	w.Draft = nil
	w.touch()
	return result, nil
}

func (w *Wizard) editable() error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	if w.Draft == nil {
		w.Draft = models.NewApplicationDraft()
	}
	return nil
}

func (w *Wizard) touch() {
	w.UpdatedAt = time.Now().UTC()
}

func checkText(spec models.FieldSpec, s string) error {
	switch spec.Kind {
	case models.FieldKindChoice:
		if s != "" && !spec.Allows(s) {
			return fmt.Errorf("%s does not offer %q: %w", spec.Name, s, ErrInvalidValue)
		}
	case models.FieldKindImage:
		if s != "" {
			return fmt.Errorf("%s is set by uploading an image: %w", spec.Name, ErrInvalidValue)
		}
	default:
		if utf8.RuneCountInString(s) > MaxTextLength {
			return fmt.Errorf("%s exceeds %d characters: %w", spec.Name, MaxTextLength, ErrInvalidValue)
		}
	}
	return nil
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tags must be strings: %w", ErrInvalidValue)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list of tags: %w", ErrInvalidValue)
}

func copyErrors(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
