// Package dictionary holds the static keyword configuration shared by the
// segmenter, parser, scoring and tailoring engines: industry keyword lists,
// synonyms, section headings, verb lists and the template banks.
//
// A Dictionary is built once at process start and treated as read-only
// afterwards; every engine receives it explicitly.
package dictionary

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/cv-ats/internal/schemas"
)

//go:embed default.yaml
var defaultYAML []byte

// Sections lists the heading synonyms recognized for each CV section.
type Sections struct {
	Experience     []string `yaml:"experience" json:"experience"`
	Education      []string `yaml:"education" json:"education"`
	Skills         []string `yaml:"skills" json:"skills"`
	Certifications []string `yaml:"certifications" json:"certifications"`
	Languages      []string `yaml:"languages" json:"languages"`
	Projects       []string `yaml:"projects" json:"projects"`
	Summary        []string `yaml:"summary" json:"summary"`
}

// Closing returns the headings that end an experience or education block.
func (s Sections) Closing() []string {
	var out []string
	out = append(out, s.Education...)
	out = append(out, s.Skills...)
	out = append(out, s.Certifications...)
	out = append(out, s.Languages...)
	out = append(out, s.Projects...)
	return out
}

// All returns every heading synonym across all sections.
func (s Sections) All() []string {
	out := append([]string{}, s.Experience...)
	out = append(out, s.Summary...)
	return append(out, s.Closing()...)
}

// Dictionary is the immutable keyword configuration.
type Dictionary struct {
	DefaultIndustry       string              `yaml:"default_industry" json:"default_industry"`
	Industries            map[string][]string `yaml:"industries" json:"industries"`
	Synonyms              map[string][]string `yaml:"synonyms" json:"synonyms"`
	GeneralKeywords       []string            `yaml:"general_keywords" json:"general_keywords"`
	Sections              Sections            `yaml:"sections" json:"sections"`
	SkillLabels           []string            `yaml:"skill_labels" json:"skill_labels"`
	ActionVerbs           []string            `yaml:"action_verbs" json:"action_verbs"`
	PresentTense          []string            `yaml:"present_tense" json:"present_tense"`
	PastTense             []string            `yaml:"past_tense" json:"past_tense"`
	ExperienceIndicators  []string            `yaml:"experience_indicators" json:"experience_indicators"`
	AchievementTemplates  []string            `yaml:"achievement_templates" json:"achievement_templates"`
	ProjectTemplate       string              `yaml:"project_template" json:"project_template"`
	ProjectFollowup       string              `yaml:"project_followup" json:"project_followup"`
	CertificationKeywords []string            `yaml:"certification_keywords" json:"certification_keywords"`
	ProgrammingLanguages  []string            `yaml:"programming_languages" json:"programming_languages"`

	synonymIndex map[string][]string
	actionIndex  map[string]bool
}

// LoadError is returned when a dictionary document cannot be read or is invalid.
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dictionary %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("dictionary %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

var loadDefault = sync.OnceValues(func() (*Dictionary, error) {
	return Load(defaultYAML, "(embedded)")
})

// Default returns the embedded dictionary. It is parsed once per process.
func Default() (*Dictionary, error) {
	return loadDefault()
}

// MustDefault returns the embedded dictionary, panicking if it is invalid.
// The embedded file is covered by tests, so a panic here is a build defect.
func MustDefault() *Dictionary {
	d, err := Default()
	if err != nil {
		panic(err)
	}
	return d
}

// LoadFile reads a YAML (or JSON) dictionary from disk.
func LoadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read file", Cause: err}
	}
	return Load(data, path)
}

// Load parses, schema-validates and indexes a dictionary document.
func Load(data []byte, source string) (*Dictionary, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Source: source, Message: "invalid YAML", Cause: err}
	}
	if err := schemas.ValidateValue(schemas.Dictionary, raw); err != nil {
		return nil, &LoadError{Source: source, Message: "schema validation failed", Cause: err}
	}

	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, &LoadError{Source: source, Message: "failed to decode", Cause: err}
	}
	if d.DefaultIndustry != "" {
		if _, ok := d.Industries[d.DefaultIndustry]; !ok {
			return nil, &LoadError{
				Source:  source,
				Message: fmt.Sprintf("default_industry %q is not a known industry", d.DefaultIndustry),
			}
		}
	}

	return New(d), nil
}

// New indexes a dictionary assembled in code. Tests use it to build fixtures.
func New(d Dictionary) *Dictionary {
	d.synonymIndex = make(map[string][]string, len(d.Synonyms))
	for canonical, syns := range d.Synonyms {
		key := strings.ToLower(strings.TrimSpace(canonical))
		d.synonymIndex[key] = append(d.synonymIndex[key], syns...)
	}
	d.actionIndex = make(map[string]bool, len(d.ActionVerbs))
	for _, v := range d.ActionVerbs {
		d.actionIndex[strings.ToLower(v)] = true
	}
	if len(d.SkillLabels) == 0 {
		d.SkillLabels = []string{"skills", "technologies", "expertise"}
	}
	return &d
}

// IndustryKeywords returns the keywords tagged with industry. An empty or
// unknown industry falls back to the default industry.
func (d *Dictionary) IndustryKeywords(industry string) []string {
	if kws, ok := d.Industries[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return kws
	}
	return d.Industries[d.DefaultIndustry]
}

// HasIndustry reports whether industry is a configured industry tag.
func (d *Dictionary) HasIndustry(industry string) bool {
	_, ok := d.Industries[strings.ToLower(strings.TrimSpace(industry))]
	return ok
}

// IndustryNames returns the configured industry tags in sorted order.
func (d *Dictionary) IndustryNames() []string {
	names := make([]string, 0, len(d.Industries))
	for name := range d.Industries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SynonymsOf returns the synonyms registered for a canonical keyword.
func (d *Dictionary) SynonymsOf(keyword string) []string {
	return d.synonymIndex[strings.ToLower(strings.TrimSpace(keyword))]
}

// IsActionVerb reports whether word is in the action-verb list, ignoring case.
func (d *Dictionary) IsActionVerb(word string) bool {
	return d.actionIndex[strings.ToLower(word)]
}
