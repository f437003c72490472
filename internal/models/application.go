package models

// ApplicationDraft is the in-memory, unsaved mentor application.
// The validate tags carry the submission rules checked by internal/validation.
type ApplicationDraft struct {
	// Personal Info
	ProfileImage string `json:"profileImage,omitempty"` // data URL, never uploaded while drafting
	FirstName    string `json:"firstName" validate:"min=2"`
	LastName     string `json:"lastName" validate:"min=2"`
	Email        string `json:"email" validate:"email"`
	Phone        string `json:"phone" validate:"min=10"`

	// Professional Info
	CurrentPosition    string `json:"currentPosition" validate:"min=2"`
	Company            string `json:"company" validate:"min=2"`
	Experience         string `json:"experience" validate:"min=1"`
	LinkedinURL        string `json:"linkedinUrl" validate:"url"`
	GithubURL          string `json:"githubUrl" validate:"omitempty,url"`
	AcademicBackground string `json:"academicBackground" validate:"min=10"`

	// Expertise
	CareerExpertise          TagSet `json:"careerExpertise" validate:"min=1"`
	TechnicalInterests       TagSet `json:"technicalInterests" validate:"min=1"`
	ExtracurricularExpertise TagSet `json:"extracurricularExpertise"`

	// Availability & Commitment
	HoursPerWeek        string `json:"hoursPerWeek" validate:"min=1"`
	MentorshipDuration  string `json:"mentorshipDuration" validate:"min=1"`
	PreferredFormat     TagSet `json:"preferredFormat" validate:"min=1"`
	ShortBio            string `json:"shortBio" validate:"min=50"`
	MotivationStatement string `json:"motivationStatement" validate:"min=100"`
	PreviousExperience  string `json:"previousExperience"`

	// Terms and Agreements
	AcceptTerms         bool `json:"acceptTerms" validate:"eq=true"`
	AcceptCodeOfConduct bool `json:"acceptCodeOfConduct" validate:"eq=true"`
}

// NewApplicationDraft returns a draft with the form's default values
func NewApplicationDraft() *ApplicationDraft {
	return &ApplicationDraft{}
}

// Clone returns a deep copy of the draft
func (d *ApplicationDraft) Clone() *ApplicationDraft {
	if d == nil {
		return nil
	}
	out := *d
	out.CareerExpertise = d.CareerExpertise.Clone()
	out.TechnicalInterests = d.TechnicalInterests.Clone()
	out.ExtracurricularExpertise = d.ExtracurricularExpertise.Clone()
	out.PreferredFormat = d.PreferredFormat.Clone()
	return &out
}

// TextField returns a binding to the named string field
func (d *ApplicationDraft) TextField(name string) (*string, bool) {
	switch name {
	case FieldProfileImage:
		return &d.ProfileImage, true
	case FieldFirstName:
		return &d.FirstName, true
	case FieldLastName:
		return &d.LastName, true
	case FieldEmail:
		return &d.Email, true
	case FieldPhone:
		return &d.Phone, true
	case FieldCurrentPosition:
		return &d.CurrentPosition, true
	case FieldCompany:
		return &d.Company, true
	case FieldExperience:
		return &d.Experience, true
	case FieldLinkedinURL:
		return &d.LinkedinURL, true
	case FieldGithubURL:
		return &d.GithubURL, true
	case FieldAcademicBackground:
		return &d.AcademicBackground, true
	case FieldHoursPerWeek:
		return &d.HoursPerWeek, true
	case FieldMentorshipDuration:
		return &d.MentorshipDuration, true
	case FieldShortBio:
		return &d.ShortBio, true
	case FieldMotivationStatement:
		return &d.MotivationStatement, true
	case FieldPreviousExperience:
		return &d.PreviousExperience, true
	}
	return nil, false
}

// TagField returns a binding to the named tag-set field
func (d *ApplicationDraft) TagField(name string) (*TagSet, bool) {
	switch name {
	case FieldCareerExpertise:
		return &d.CareerExpertise, true
	case FieldTechnicalInterests:
		return &d.TechnicalInterests, true
	case FieldExtracurricularExpertise:
		return &d.ExtracurricularExpertise, true
	case FieldPreferredFormat:
		return &d.PreferredFormat, true
	}
	return nil, false
}

// ConsentField returns a binding to the named boolean field
func (d *ApplicationDraft) ConsentField(name string) (*bool, bool) {
	switch name {
	case FieldAcceptTerms:
		return &d.AcceptTerms, true
	case FieldAcceptCodeOfConduct:
		return &d.AcceptCodeOfConduct, true
	}
	return nil, false
}
