package models

// Option is a selectable value shown by the application form
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var careerOptions = []Option{
	{Value: "sde", Label: "Software Development Engineer"},
	{Value: "core_electrical", Label: "Core Electrical Engineering"},
	{Value: "aiml", Label: "AI/ML Engineer"},
	{Value: "govt_jobs", Label: "Government Jobs"},
	{Value: "mba", Label: "MBA/Management"},
	{Value: "research", Label: "Research Scholar"},
	{Value: "product_management", Label: "Product Management"},
	{Value: "data_science", Label: "Data Science"},
}

var technicalOptions = []Option{
	{Value: "dsa", Label: "Data Structures & Algorithms"},
	{Value: "web_dev", Label: "Web Development"},
	{Value: "embedded", Label: "Embedded Systems"},
	{Value: "networking", Label: "Computer Networking"},
	{Value: "cloud", Label: "Cloud Computing"},
	{Value: "cybersecurity", Label: "Cybersecurity"},
	{Value: "mobile_dev", Label: "Mobile Development"},
	{Value: "blockchain", Label: "Blockchain"},
	{Value: "iot", Label: "Internet of Things"},
	{Value: "devops", Label: "DevOps"},
}

var extracurricularOptions = []Option{
	{Value: "sports", Label: "Sports"},
	{Value: "cultural", Label: "Cultural Activities"},
	{Value: "hackathons", Label: "Hackathons & Coding Competitions"},
	{Value: "entrepreneurship", Label: "Entrepreneurship"},
	{Value: "public_speaking", Label: "Public Speaking"},
	{Value: "leadership", Label: "Leadership Programs"},
	{Value: "community_service", Label: "Community Service"},
	{Value: "student_clubs", Label: "Student Clubs & Organizations"},
}

var formatOptions = []Option{
	{Value: "one_on_one", Label: "One-on-One Sessions"},
	{Value: "group", Label: "Group Sessions"},
	{Value: "workshops", Label: "Workshops"},
	{Value: "email", Label: "Email Mentoring"},
	{Value: "chat", Label: "Chat Support"},
	{Value: "project_based", Label: "Project-Based Mentoring"},
}

var experienceOptions = []Option{
	{Value: "1-2", Label: "1-2 years"},
	{Value: "3-5", Label: "3-5 years"},
	{Value: "5-10", Label: "5-10 years"},
	{Value: "10+", Label: "10+ years"},
}

var hoursPerWeekOptions = []Option{
	{Value: "1-2", Label: "1-2 hours"},
	{Value: "3-5", Label: "3-5 hours"},
	{Value: "5-10", Label: "5-10 hours"},
	{Value: "10+", Label: "10+ hours"},
}

var durationOptions = []Option{
	{Value: "3_months", Label: "3 months"},
	{Value: "6_months", Label: "6 months"},
	{Value: "1_year", Label: "1 year"},
	{Value: "ongoing", Label: "Ongoing commitment"},
}

// ApplicationOptions is the option catalog served to the form
type ApplicationOptions struct {
	CareerExpertise          []Option `json:"careerExpertise"`
	TechnicalInterests       []Option `json:"technicalInterests"`
	ExtracurricularExpertise []Option `json:"extracurricularExpertise"`
	PreferredFormat          []Option `json:"preferredFormat"`
	Experience               []Option `json:"experience"`
	HoursPerWeek             []Option `json:"hoursPerWeek"`
	MentorshipDuration       []Option `json:"mentorshipDuration"`
}

// Options returns a copy of every option catalog
func Options() ApplicationOptions {
	return ApplicationOptions{
		CareerExpertise:          cloneOptions(careerOptions),
		TechnicalInterests:       cloneOptions(technicalOptions),
		ExtracurricularExpertise: cloneOptions(extracurricularOptions),
		PreferredFormat:          cloneOptions(formatOptions),
		Experience:               cloneOptions(experienceOptions),
		HoursPerWeek:             cloneOptions(hoursPerWeekOptions),
		MentorshipDuration:       cloneOptions(durationOptions),
	}
}

func cloneOptions(options []Option) []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

func hasOption(options []Option, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}
