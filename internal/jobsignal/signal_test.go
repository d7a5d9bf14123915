package jobsignal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-ats/internal/dictionary"
)

func testDictionary() *dictionary.Dictionary {
	return dictionary.New(dictionary.Dictionary{
		DefaultIndustry: "technology",
		Industries: map[string][]string{
			"technology": {"go", "docker", "kubernetes", "ci/cd", "react"},
			"finance":    {"excel"},
		},
		Synonyms: map[string][]string{
			"kubernetes": {"k8s"},
			"go":         {"golang"},
		},
		GeneralKeywords:      []string{"communication"},
		ProgrammingLanguages: []string{"Go", "Rust"},
	})
}

const posting = `Senior Go Engineer
We build services for our customers.
Requirements:
- 5+ years of Golang
* Experience with Docker and k8s
1. Strong communication skills
2) CI/CD pipelines;
- 5+ YEARS OF GOLANG
`

func TestFromText(t *testing.T) {
	signal := FromText(posting, testDictionary())

	assert.Equal(t, []string{
		"5+ years of Golang",
		"Experience with Docker and k8s",
		"Strong communication skills",
		"CI/CD pipelines",
	}, signal.Requirements)
	assert.Equal(t, []string{"go", "docker", "kubernetes", "ci/cd", "communication"}, signal.Keywords)
}

func TestFromText_NoLists(t *testing.T) {
	signal := FromText("We are hiring a Rust developer.", testDictionary())

	assert.Empty(t, signal.Requirements)
	assert.NotNil(t, signal.Requirements)
	assert.Equal(t, []string{"Rust"}, signal.Keywords)
}

func TestFromText_Empty(t *testing.T) {
	signal := FromText("", testDictionary())
	assert.True(t, signal.IsEmpty())
}

func TestDetectKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "synonym maps to canonical", text: "Experience with K8S clusters", want: []string{"kubernetes"}},
		{name: "word boundaries", text: "good reactive dockers", want: []string{}},
		{name: "industry order", text: "Excel and Docker", want: []string{"excel", "docker"}},
		{name: "language without industry entry", text: "Rust, Go", want: []string{"go", "Rust"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKeywords(tt.text, testDictionary()))
		})
	}
}

func TestDetectKeywords_NilDictionary(t *testing.T) {
	assert.Equal(t, []string{}, DetectKeywords("go", nil))
}

func TestDetectKeywords_DefaultDictionary(t *testing.T) {
	keywords := DetectKeywords("Python developer with PostgreSQL and Kubernetes", dictionary.MustDefault())

	assert.Contains(t, keywords, "python")
	assert.Contains(t, keywords, "sql")
	assert.Contains(t, keywords, "kubernetes")
}

func TestFromLists(t *testing.T) {
	signal := FromLists(
		[]string{"  Go ", "", "go", "Kubernetes"},
		[]string{"Docker", "docker ", "AWS"},
	)

	assert.Equal(t, []string{"Go", "Kubernetes"}, signal.Requirements)
	assert.Equal(t, []string{"Docker", "AWS"}, signal.Keywords)
}

func TestFromLists_Nil(t *testing.T) {
	signal := FromLists(nil, nil)

	require.NotNil(t, signal.Requirements)
	require.NotNil(t, signal.Keywords)
	assert.True(t, signal.IsEmpty())
}
