package models

// WizardState is the view of one application wizard returned to the form
type WizardState struct {
	ID            string            `json:"id"`
	ActiveTab     Tab               `json:"activeTab"`
	Tabs          []Tab             `json:"tabs"`
	Draft         *ApplicationDraft `json:"draft,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
	Submitted     bool              `json:"submitted"`
	ApplicationID string            `json:"applicationId,omitempty"`
}

// UpdateFieldsRequest carries field-level edits keyed by field name
type UpdateFieldsRequest struct {
	Fields map[string]any `json:"fields" binding:"required,min=1,max=30"`
}

// ToggleTagRequest toggles one tag of a tag-set field
type ToggleTagRequest struct {
	Field string `json:"field" binding:"required,max=50"`
	Tag   string `json:"tag" binding:"required,max=50"`
}

// ToggleTagResponse reports the tag-set after a toggle
type ToggleTagResponse struct {
	Field    string   `json:"field"`
	Tag      string   `json:"tag"`
	Selected bool     `json:"selected"`
	Values   []string `json:"values"`
}

// NavigateRequest selects the active wizard tab
type NavigateRequest struct {
	Tab string `json:"tab" binding:"required,max=20"`
}

// SectionValidationResponse is the outcome of validating one section
type SectionValidationResponse struct {
	Section Tab               `json:"section"`
	Valid   bool              `json:"valid"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ProfileImageResponse returns the stored data URL preview
type ProfileImageResponse struct {
	ProfileImage string `json:"profileImage"`
}

// SubmitApplicationResponse is the outcome of the submission handler
type SubmitApplicationResponse struct {
	Submitted     bool                      `json:"submitted"`
	ApplicationID string                    `json:"applicationId,omitempty"`
	Message       string                    `json:"message,omitempty"`
	Errors        map[string]string         `json:"errors,omitempty"`
	Sections      map[Tab]map[string]string `json:"sections,omitempty"`
	Error         string                    `json:"error,omitempty"`
}
