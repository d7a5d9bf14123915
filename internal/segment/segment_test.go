package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Empty", "", []string{}},
		{"Whitespace only", "  \n\t\n", []string{}},
		{"CRLF", "a\r\nb\rc", []string{"a", "b", "c"}},
		{"Trims and drops blanks", "  Jane Doe  \n\n  EXPERIENCE\n", []string{"Jane Doe", "EXPERIENCE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitLines(tt.text))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("Built systems. Led a team!  Why?\nShipped   code")
	assert.Equal(t, []string{"Built systems", "Led a team", "Why", "Shipped code"}, got)
	assert.Empty(t, SplitSentences("...!!"))
}

func TestFindContactFields(t *testing.T) {
	text := "Jane Doe\njane@x.com\n07123456789\nLocation: London, UK\nhttps://github.com/jane"

	info := FindContactFields(text)
	assert.Equal(t, "jane@x.com", info.Email)
	assert.Equal(t, "07123456789", info.Phone)
	assert.Equal(t, "London, UK", info.Location)
	assert.Equal(t, []string{"https://github.com/jane"}, info.URLs)
}

func TestFindContactFields_Empty(t *testing.T) {
	info := FindContactFields("")
	assert.Empty(t, info.Email)
	assert.Empty(t, info.Phone)
	assert.Empty(t, info.Location)
	assert.NotNil(t, info.URLs)
}

func TestFindContactFields_Phones(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"International", "Call +44 7700 900123 today", "+44 7700 900123"},
		{"US dashed", "Phone 555-123-4567", "555-123-4567"},
		{"Too short", "Room 12345", ""},
		{"Year range is not a phone", "2019-2021", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindContactFields(tt.text).Phone)
		})
	}
}

func TestFindContactFields_CityState(t *testing.T) {
	info := FindContactFields("John Smith\nAustin, TX\njohn@smith.io")
	assert.Equal(t, "Austin, TX", info.Location)
}

func TestFindContactFields_DedupesURLs(t *testing.T) {
	info := FindContactFields("linkedin.com/in/jane www.jane.dev linkedin.com/in/jane")
	assert.Equal(t, []string{"linkedin.com/in/jane", "www.jane.dev"}, info.URLs)
}

func TestFindSectionStart(t *testing.T) {
	synonyms := []string{"WORK EXPERIENCE", "EXPERIENCE", "EMPLOYMENT"}
	lines := []string{"Jane Doe", "I have experience in Go", "## Work Experience:", "Engineer - Acme"}

	idx, ok := FindSectionStart(lines, synonyms)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = FindSectionStart([]string{"Jane", "Skills: Go"}, synonyms)
	assert.False(t, ok)

	_, ok = FindSectionStart(nil, synonyms)
	assert.False(t, ok)
}

func TestIsDateRangeLike(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"2020 - Present", true},
		{"2018–2021", true},
		{"2015 to 2019", true},
		{"Jan 2020 – Mar 2022", true},
		{"September 2019 - Current", true},
		{"03/2019 - 06/2021", true},
		{"Acme Corp | 2017 - 2019", true},
		{"Built systems in 2020.", false},
		{"SENIOR ENGINEER - Acme Corp", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDateRangeLike(tt.line))
		})
	}
}

func TestExtractDateRange(t *testing.T) {
	assert.Equal(t, "2017 - 2019", ExtractDateRange("Acme Corp | 2017 - 2019"))
	assert.Equal(t, "Jan 2020 – Mar 2022", ExtractDateRange("(Jan 2020 – Mar 2022)"))
	assert.Equal(t, "", ExtractDateRange("no dates here"))
}

func TestIsTitleCompanyLike(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		title   string
		company string
		ok      bool
	}{
		{"All caps dash", "SENIOR ENGINEER - Acme Corp", "SENIOR ENGINEER", "Acme Corp", true},
		{"En dash", "Product Manager – Globex", "Product Manager", "Globex", true},
		{"At separator", "Data Analyst at Initech", "Data Analyst", "Initech", true},
		{"Comma separator", "Head of Sales, Umbrella Ltd", "Head of Sales", "Umbrella Ltd", true},
		{"Sentence is rejected", "Built systems, improving latency.", "", "", false},
		{"Lowercase phrase rejected", "worked at home - sometimes", "", "", false},
		{"No separator", "Acme Corp", "", "", false},
		{"Bullet rejected", "- Built systems", "", "", false},
		{"Empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, company, ok := IsTitleCompanyLike(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.company, company)
		})
	}
}

func TestLocationLine(t *testing.T) {
	loc, ok := LocationLine("Austin, TX")
	assert.True(t, ok)
	assert.Equal(t, "Austin, TX", loc)

	loc, ok = LocationLine("Address: 1 Main Street")
	assert.True(t, ok)
	assert.Equal(t, "1 Main Street", loc)

	_, ok = LocationLine("Moved to Austin, TX in 2019")
	assert.False(t, ok)
}

func TestContainsTerm(t *testing.T) {
	tests := []struct {
		text     string
		term     string
		expected bool
	}{
		{"i write go.", "go", true},
		{"good code", "go", false},
		{"golang and go", "go", true},
		{"ci/cd pipelines", "ci/cd", true},
		{"machine learning models", "machine learning", true},
		{"c++ and c#", "c++", true},
		{"anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.term, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsTerm(tt.text, tt.term))
		})
	}
}
