package models

// Draft field names, as exchanged with the form
const (
	FieldProfileImage             = "profileImage"
	FieldFirstName                = "firstName"
	FieldLastName                 = "lastName"
	FieldEmail                    = "email"
	FieldPhone                    = "phone"
	FieldCurrentPosition          = "currentPosition"
	FieldCompany                  = "company"
	FieldExperience               = "experience"
	FieldLinkedinURL              = "linkedinUrl"
	FieldGithubURL                = "githubUrl"
	FieldAcademicBackground       = "academicBackground"
	FieldCareerExpertise          = "careerExpertise"
	FieldTechnicalInterests       = "technicalInterests"
	FieldExtracurricularExpertise = "extracurricularExpertise"
	FieldHoursPerWeek             = "hoursPerWeek"
	FieldMentorshipDuration       = "mentorshipDuration"
	FieldPreferredFormat          = "preferredFormat"
	FieldShortBio                 = "shortBio"
	FieldMotivationStatement      = "motivationStatement"
	FieldPreviousExperience       = "previousExperience"
	FieldAcceptTerms              = "acceptTerms"
	FieldAcceptCodeOfConduct      = "acceptCodeOfConduct"
)

// FieldKind describes how a field is edited
type FieldKind string

const (
	FieldKindText    FieldKind = "text"
	FieldKindChoice  FieldKind = "choice"
	FieldKindTags    FieldKind = "tags"
	FieldKindConsent FieldKind = "consent"
	FieldKindImage   FieldKind = "image"
)

// FieldSpec binds a draft field to the section that renders it
type FieldSpec struct {
	Name    string
	Section Tab
	Kind    FieldKind
	Options []Option
}

// Allows reports whether value may be stored in a choice or tag field.
// Fields without a catalog accept anything.
func (f FieldSpec) Allows(value string) bool {
	if len(f.Options) == 0 {
		return true
	}
	return hasOption(f.Options, value)
}

var applicationFields = []FieldSpec{
	{Name: FieldProfileImage, Section: TabPersonal, Kind: FieldKindImage},
	{Name: FieldFirstName, Section: TabPersonal, Kind: FieldKindText},
	{Name: FieldLastName, Section: TabPersonal, Kind: FieldKindText},
	{Name: FieldEmail, Section: TabPersonal, Kind: FieldKindText},
	{Name: FieldPhone, Section: TabPersonal, Kind: FieldKindText},

	{Name: FieldCurrentPosition, Section: TabProfessional, Kind: FieldKindText},
	{Name: FieldCompany, Section: TabProfessional, Kind: FieldKindText},
	{Name: FieldExperience, Section: TabProfessional, Kind: FieldKindChoice, Options: experienceOptions},
	{Name: FieldLinkedinURL, Section: TabProfessional, Kind: FieldKindText},
	{Name: FieldGithubURL, Section: TabProfessional, Kind: FieldKindText},
	{Name: FieldAcademicBackground, Section: TabProfessional, Kind: FieldKindText},

	{Name: FieldCareerExpertise, Section: TabExpertise, Kind: FieldKindTags, Options: careerOptions},
	{Name: FieldTechnicalInterests, Section: TabExpertise, Kind: FieldKindTags, Options: technicalOptions},
	{Name: FieldExtracurricularExpertise, Section: TabExpertise, Kind: FieldKindTags, Options: extracurricularOptions},

	{Name: FieldHoursPerWeek, Section: TabCommitment, Kind: FieldKindChoice, Options: hoursPerWeekOptions},
	{Name: FieldMentorshipDuration, Section: TabCommitment, Kind: FieldKindChoice, Options: durationOptions},
	{Name: FieldPreferredFormat, Section: TabCommitment, Kind: FieldKindTags, Options: formatOptions},
	{Name: FieldShortBio, Section: TabCommitment, Kind: FieldKindText},
	{Name: FieldMotivationStatement, Section: TabCommitment, Kind: FieldKindText},
	{Name: FieldPreviousExperience, Section: TabCommitment, Kind: FieldKindText},
	{Name: FieldAcceptTerms, Section: TabCommitment, Kind: FieldKindConsent},
	{Name: FieldAcceptCodeOfConduct, Section: TabCommitment, Kind: FieldKindConsent},
}

var fieldsByName = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(applicationFields))
	for _, f := range applicationFields {
		m[f.Name] = f
	}
	return m
}()

// LookupField returns the definition of a draft field by name
func LookupField(name string) (FieldSpec, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// SectionFields returns the names of the fields rendered in a section
func SectionFields(tab Tab) []string {
	var names []string
	for _, f := range applicationFields {
		if f.Section == tab {
			names = append(names, f.Name)
		}
	}
	return names
}

// SectionOf returns the section rendering the named field
func SectionOf(name string) (Tab, bool) {
	f, ok := fieldsByName[name]
	if !ok {
		return "", false
	}
	return f.Section, true
}
