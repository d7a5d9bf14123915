package parsing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/types"
)

func newTestParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	dict, err := dictionary.Default()
	require.NoError(t, err)
	return NewParser(dict, opts...)
}

func TestParse_BasicCV(t *testing.T) {
	p := newTestParser(t)
	text := "Jane Doe\njane@x.com\n07123456789\nEXPERIENCE\nSENIOR ENGINEER - Acme Corp\n2020 - Present\nBuilt systems.\nEDUCATION\nBSc Computer Science"

	cv := p.Parse(text)
	require.NotNil(t, cv)

	assert.Equal(t, "Jane Doe", cv.Contact.FullName)
	assert.Equal(t, "jane@x.com", cv.Contact.Email)
	assert.Equal(t, "07123456789", cv.Contact.Phone)

	require.Len(t, cv.Experience, 1)
	entry := cv.Experience[0]
	assert.Equal(t, "SENIOR ENGINEER", entry.Title)
	assert.Equal(t, "Acme Corp", entry.Company)
	assert.Equal(t, "2020 - Present", entry.DateRange)
	assert.Contains(t, entry.Description, "Built systems.")
	assert.False(t, entry.LowConfidence)

	require.Len(t, cv.Education, 1)
	assert.Equal(t, "BSc Computer Science", cv.Education[0].Degree)
}

func TestParse_DateFirstEntries(t *testing.T) {
	p := newTestParser(t)
	text := strings.Join([]string{
		"Sam Lee",
		"WORK EXPERIENCE",
		"Jan 2018 - Dec 2019",
		"Software Engineer at Initech",
		"- Built APIs",
		"2020 - Present",
		"Lead Developer, Globex",
		"Shipped things",
		"SKILLS",
	}, "\n")

	cv := p.Parse(text)
	require.Len(t, cv.Experience, 2)

	assert.Equal(t, types.ExperienceEntry{
		Title:       "Software Engineer",
		Company:     "Initech",
		DateRange:   "Jan 2018 - Dec 2019",
		Description: "Built APIs",
	}, cv.Experience[0])
	assert.Equal(t, types.ExperienceEntry{
		Title:       "Lead Developer",
		Company:     "Globex",
		DateRange:   "2020 - Present",
		Description: "Shipped things",
	}, cv.Experience[1])
}

func TestParse_LookaheadSkipsIntermediateLine(t *testing.T) {
	text := "EXPERIENCE\n2015 - 2017\nRemote\nAnalyst - Initech\nWrote reports"

	t.Run("Default window", func(t *testing.T) {
		cv := newTestParser(t).Parse(text)
		require.Len(t, cv.Experience, 1)
		assert.Equal(t, "Analyst", cv.Experience[0].Title)
		assert.Equal(t, "Initech", cv.Experience[0].Company)
		assert.Equal(t, "2015 - 2017", cv.Experience[0].DateRange)
		assert.Equal(t, "Remote Wrote reports", cv.Experience[0].Description)
	})

	t.Run("Window of one", func(t *testing.T) {
		cv := newTestParser(t, WithLookahead(1)).Parse(text)
		require.Len(t, cv.Experience, 2)
		assert.Equal(t, "Remote", cv.Experience[0].Title)
		assert.Equal(t, companyPlaceholder, cv.Experience[0].Company)
		assert.Equal(t, "Analyst", cv.Experience[1].Title)
		assert.Empty(t, cv.Experience[1].DateRange)
	})
}

func TestParse_PlaceholderCompany(t *testing.T) {
	p := newTestParser(t)
	cv := p.Parse("EXPERIENCE\n2019 - 2021\nfreelance consulting work\nDelivered projects")

	require.Len(t, cv.Experience, 1)
	entry := cv.Experience[0]
	assert.Equal(t, "freelance consulting work", entry.Title)
	assert.Equal(t, "Company", entry.Company)
	assert.Equal(t, "2019 - 2021", entry.DateRange)
	assert.Equal(t, "Delivered projects", entry.Description)
}

func TestParse_LocationAfterTitle(t *testing.T) {
	p := newTestParser(t)
	cv := p.Parse("EXPERIENCE\nData Analyst at Initech\nAustin, TX\n2019 - 2020\nBuilt dashboards")

	require.Len(t, cv.Experience, 1)
	assert.Equal(t, "Austin, TX", cv.Experience[0].Location)
	assert.Equal(t, "2019 - 2020", cv.Experience[0].DateRange)
	assert.Equal(t, "Built dashboards", cv.Experience[0].Description)
}

func TestParse_BulletedDescriptionLines(t *testing.T) {
	p := newTestParser(t)
	text := strings.Join([]string{
		"EXPERIENCE",
		"Senior Engineer - Acme Corp",
		"2020 - Present",
		"- Led Platform Migration - Kafka",
		"• Promoted 2021 - 2022 after launch",
		"- Skills: Go, Kafka",
		"EDUCATION",
		"BSc Computer Science, University of Leeds",
		"2014 - 2017",
		"- Thesis on Scheduling - Distributed Systems",
	}, "\n")

	cv := p.Parse(text)

	require.Len(t, cv.Experience, 1)
	assert.Equal(t, types.ExperienceEntry{
		Title:       "Senior Engineer",
		Company:     "Acme Corp",
		DateRange:   "2020 - Present",
		Description: "Led Platform Migration - Kafka Promoted 2021 - 2022 after launch Skills: Go, Kafka",
	}, cv.Experience[0])

	require.Len(t, cv.Education, 1)
	assert.Equal(t, "Thesis on Scheduling - Distributed Systems", cv.Education[0].Description)
	assert.Equal(t, "2014 - 2017", cv.Education[0].DateRange)
}

func TestIsBulleted(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"- Led a team", true},
		{"  • Shipped code", true},
		{"1. First item", true},
		{"2019 - 2020", false},
		{"-5% churn", false},
		{"-", false},
		{"Senior Engineer - Acme", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, isBulleted(tt.line))
		})
	}
}

func TestParse_SentenceFallback(t *testing.T) {
	p := newTestParser(t)
	cv := p.Parse("John Smith\nI have 10 years of experience building distributed systems. Short one.")

	require.Len(t, cv.Experience, 1)
	entry := cv.Experience[0]
	assert.True(t, entry.LowConfidence)
	assert.Equal(t, "Various Companies", entry.Company)
	assert.Contains(t, entry.Description, "10 years of experience")
}

func TestParse_NoExperience(t *testing.T) {
	p := newTestParser(t)
	cv := p.Parse("Hello there")
	assert.NotNil(t, cv.Experience)
	assert.Empty(t, cv.Experience)
}

func TestParse_NeverNilFields(t *testing.T) {
	p := newTestParser(t)
	inputs := []string{
		"",
		"   \n\n  ",
		"EXPERIENCE",
		"EXPERIENCE\n2020 - Present",
		"EDUCATION\nGPA: 3.9",
		"PROJECTS\n- orphan bullet",
		"\x00\xff\xfe garbage ::: ,,,",
		strings.Repeat("A - B\n", 200),
	}

	for _, in := range inputs {
		cv := p.Parse(in)
		require.NotNil(t, cv, "input %q", in)
		assert.NotNil(t, cv.Contact.URLs)
		assert.NotNil(t, cv.Experience)
		assert.NotNil(t, cv.Education)
		assert.NotNil(t, cv.Skills)
		assert.NotNil(t, cv.Projects)
		assert.NotNil(t, cv.Certifications)
		assert.NotNil(t, cv.Languages)
	}
}

func TestParse_Skills(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Labelled line", "Jane\nSkills: Go, python, Go , Docker", []string{"Go", "python", "Docker"}},
		{"Qualified label", "Technical Skills: Kubernetes, Terraform", []string{"Kubernetes", "Terraform"}},
		{"Technologies label", "Technologies: AWS", []string{"AWS"}},
		{"First label wins", "Skills: Go\nExpertise: Rust", []string{"Go"}},
		{"No label", "Jane\nI know Go", []string{}},
		{"Heading without content", "SKILLS:\nGo", []string{}},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Parse(tt.text).Skills)
		})
	}
}

func TestParse_Education(t *testing.T) {
	p := newTestParser(t)
	text := strings.Join([]string{
		"EDUCATION",
		"BSc Computer Science, University of Leeds",
		"2014 - 2017",
		"GPA: 3.8/4.0",
		"MSc Data Science - Imperial College London",
		"2018 - 2019",
		"Thesis on graph embeddings",
		"SKILLS",
	}, "\n")

	cv := p.Parse(text)
	require.Len(t, cv.Education, 2)
	assert.Equal(t, types.EducationEntry{
		Degree:      "BSc Computer Science",
		Institution: "University of Leeds",
		DateRange:   "2014 - 2017",
		GPA:         "3.8/4.0",
	}, cv.Education[0])
	assert.Equal(t, types.EducationEntry{
		Degree:      "MSc Data Science",
		Institution: "Imperial College London",
		DateRange:   "2018 - 2019",
		Description: "Thesis on graph embeddings",
	}, cv.Education[1])
}

func TestParse_ListSections(t *testing.T) {
	p := newTestParser(t)
	text := strings.Join([]string{
		"Jane Doe",
		"CERTIFICATIONS",
		"AWS Certified Developer",
		"LANGUAGES",
		"English, French",
		"PROJECTS",
		"CV Parser - Extracts structured data",
		"- Written in Go",
		"EDUCATION",
	}, "\n")

	cv := p.Parse(text)
	assert.Equal(t, []string{"AWS Certified Developer"}, cv.Certifications)
	assert.Equal(t, []string{"English", "French"}, cv.Languages)
	assert.Equal(t, []types.Project{
		{Name: "CV Parser", Description: "Extracts structured data Written in Go"},
	}, cv.Projects)
}

type fixedName string

func (f fixedName) ExtractName([]string) string { return string(f) }

func TestParse_CustomExtractors(t *testing.T) {
	dict := dictionary.MustDefault()
	p := NewParser(dict,
		WithNameExtractor(fixedName("Override")),
		WithSummaryExtractor(SectionSummary{
			Headings: dict.Sections.Summary,
			Next:     dict.Sections.All(),
			Fallback: LeadingSummary{},
		}),
	)

	cv := p.Parse("Jane Doe\nSUMMARY\nSeasoned engineer.\nEXPERIENCE\nDev - Acme")
	assert.Equal(t, "Override", cv.Contact.FullName)
	assert.Equal(t, "Seasoned engineer.", cv.Summary)
}

func TestLeadingSummary(t *testing.T) {
	t.Run("Short text kept", func(t *testing.T) {
		assert.Equal(t, "Jane Doe Engineer", LeadingSummary{}.ExtractSummary("Jane Doe\n  Engineer"))
	})

	t.Run("Cut at sentence boundary", func(t *testing.T) {
		text := strings.Repeat("Built reliable systems. ", 40)
		got := LeadingSummary{}.ExtractSummary(text)
		assert.LessOrEqual(t, len([]rune(got)), summaryMaxChars)
		assert.True(t, strings.HasSuffix(got, "."))
	})

	t.Run("Hard truncation", func(t *testing.T) {
		got := LeadingSummary{}.ExtractSummary(strings.Repeat("a", 800))
		assert.Len(t, got, summaryMaxChars)
	})
}

func TestSectionSummary_Fallback(t *testing.T) {
	s := SectionSummary{Headings: []string{"SUMMARY"}, Fallback: firstSentence{}}
	assert.Equal(t, "No heading here", s.ExtractSummary("No heading here. Second."))
	assert.Empty(t, SectionSummary{Headings: []string{"SUMMARY"}}.ExtractSummary("text"))
}

// firstSentence returns the text up to the first period.
type firstSentence struct{}

func (firstSentence) ExtractSummary(text string) string {
	first, _, _ := strings.Cut(text, ".")
	return first
}
