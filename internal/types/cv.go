// Package types provides type definitions for structured data used throughout the CV engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ContactInfo holds best-effort contact details. Missing fields are empty strings.
type ContactInfo struct {
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	URLs     []string `json:"urls"`
}

// ExperienceEntry is one position found in the experience section.
// DateRange is kept verbatim; formats are too irregular to normalize safely.
type ExperienceEntry struct {
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location,omitempty"`
	DateRange     string `json:"date_range"`
	Description   string `json:"description"`
	LowConfidence bool   `json:"low_confidence,omitempty"`
}

// EducationEntry is one qualification found in the education section.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	DateRange   string `json:"date_range"`
	GPA         string `json:"gpa,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is a portfolio item, either parsed or synthesized during tailoring.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ParsedCV is the structured form of a CV. Entries keep the order in which they
// appear in the source text.
type ParsedCV struct {
	Contact        ContactInfo       `json:"contact"`
	Summary        string            `json:"summary"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Skills         []string          `json:"skills"`
	Projects       []Project         `json:"projects"`
	Certifications []string          `json:"certifications"`
	Languages      []string          `json:"languages"`
}

// NewParsedCV returns an empty ParsedCV with every slice initialized.
func NewParsedCV() *ParsedCV {
	return &ParsedCV{
		Contact:        ContactInfo{URLs: []string{}},
		Experience:     []ExperienceEntry{},
		Education:      []EducationEntry{},
		Skills:         []string{},
		Projects:       []Project{},
		Certifications: []string{},
		Languages:      []string{},
	}
}

// Clone returns a deep copy of the CV.
func (cv *ParsedCV) Clone() *ParsedCV {
	if cv == nil {
		return NewParsedCV()
	}
	out := &ParsedCV{
		Contact:        cv.Contact,
		Summary:        cv.Summary,
		Experience:     append([]ExperienceEntry{}, cv.Experience...),
		Education:      append([]EducationEntry{}, cv.Education...),
		Skills:         append([]string{}, cv.Skills...),
		Projects:       append([]Project{}, cv.Projects...),
		Certifications: append([]string{}, cv.Certifications...),
		Languages:      append([]string{}, cv.Languages...),
	}
	out.Contact.URLs = append([]string{}, cv.Contact.URLs...)
	return out
}

// TailoredCV is a ParsedCV-shaped value produced for one job. It holds no
// reference back to the CV it was derived from.
type TailoredCV struct {
	ParsedCV
	MatchingSkills        []string `json:"matching_skills"`
	MissingCriticalSkills []string `json:"missing_critical_skills"`
	YearsOfExperience     int      `json:"years_of_experience"`
}
