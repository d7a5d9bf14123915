// Package parsing turns extracted CV text into a structured ParsedCV using the
// segmenter's line classifiers. Parsing is best-effort: malformed input yields
// a sparse but structurally valid result, never an error.
package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/segment"
	"github.com/jonathan/cv-ats/internal/types"
)

// DefaultLookahead is how many lines after a date-range line are searched for
// a title/company line. It is a tuning knob, not an invariant.
const DefaultLookahead = 2

const (
	// companyPlaceholder fills Company when no title/company line follows a date range.
	companyPlaceholder = "Company"
	// fallbackCompany marks the low-confidence entry synthesized from prose.
	fallbackCompany = "Various Companies"
	fallbackTitle   = "Professional Experience"
	// minFallbackSentence is the shortest sentence considered by the prose fallback.
	minFallbackSentence = 20
)

var (
	bulletPrefixRe = regexp.MustCompile(`^(?:[-*•·▪►‣–]|\d+[.)])\s*`)
	bulletLineRe   = regexp.MustCompile(`^(?:[-*•·▪►‣–]|\d+[.)])\s+\S`)
)

// Parser extracts a ParsedCV from plain text.
type Parser struct {
	dict      *dictionary.Dictionary
	name      NameExtractor
	summary   SummaryExtractor
	lookahead int
}

// Option configures a Parser.
type Option func(*Parser)

// WithNameExtractor replaces the first-line name heuristic.
func WithNameExtractor(n NameExtractor) Option {
	return func(p *Parser) { p.name = n }
}

// WithSummaryExtractor replaces the leading-text summary heuristic.
func WithSummaryExtractor(s SummaryExtractor) Option {
	return func(p *Parser) { p.summary = s }
}

// WithLookahead changes the title/company search window after a date line.
func WithLookahead(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.lookahead = n
		}
	}
}

// NewParser creates a Parser bound to a dictionary.
func NewParser(dict *dictionary.Dictionary, opts ...Option) *Parser {
	p := &Parser{
		dict:      dict,
		name:      FirstLineName{},
		summary:   LeadingSummary{},
		lookahead: DefaultLookahead,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the structured form of text. It never returns nil and never
// panics; a failure inside one extractor leaves that field empty.
func (p *Parser) Parse(text string) *types.ParsedCV {
	cv := types.NewParsedCV()
	lines := segment.SplitLines(text)

	guard(func() {
		contact := segment.FindContactFields(text)
		contact.FullName = p.name.ExtractName(lines)
		cv.Contact = contact
	})
	guard(func() { cv.Summary = p.summary.ExtractSummary(text) })
	guard(func() { cv.Skills = p.parseSkills(lines) })
	guard(func() { cv.Experience = p.parseExperience(text, lines) })
	guard(func() { cv.Education = p.parseEducation(lines) })
	guard(func() { cv.Certifications = p.sectionItems(lines, p.dict.Sections.Certifications, false) })
	guard(func() { cv.Languages = p.sectionItems(lines, p.dict.Sections.Languages, true) })
	guard(func() { cv.Projects = p.parseProjects(lines) })

	normalize(cv)
	return cv
}

// guard runs fn and swallows a panic so the remaining fields are still filled.
func guard(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// normalize replaces any nil slice left by a recovered extractor.
func normalize(cv *types.ParsedCV) {
	if cv.Contact.URLs == nil {
		cv.Contact.URLs = []string{}
	}
	if cv.Experience == nil {
		cv.Experience = []types.ExperienceEntry{}
	}
	if cv.Education == nil {
		cv.Education = []types.EducationEntry{}
	}
	if cv.Skills == nil {
		cv.Skills = []string{}
	}
	if cv.Projects == nil {
		cv.Projects = []types.Project{}
	}
	if cv.Certifications == nil {
		cv.Certifications = []string{}
	}
	if cv.Languages == nil {
		cv.Languages = []string{}
	}
}

// stripBullet removes a leading list marker.
// isBulleted reports whether line is a list item: a marker followed by space.
// Date ranges such as "2019 - 2020" and "-5%" do not qualify.
func isBulleted(line string) bool {
	return bulletLineRe.MatchString(strings.TrimSpace(line))
}

func stripBullet(line string) string {
	return strings.TrimSpace(bulletPrefixRe.ReplaceAllString(strings.TrimSpace(line), ""))
}

// sectionBody returns the lines after the first heading in synonyms up to
// the next heading of any known section.
func (p *Parser) sectionBody(lines []string, synonyms []string) []string {
	if len(synonyms) == 0 {
		return nil
	}
	start, ok := segment.FindSectionStart(lines, synonyms)
	if !ok {
		return nil
	}
	all := p.dict.Sections.All()
	var body []string
	for _, line := range lines[start+1:] {
		if segment.IsHeading(line, all) {
			break
		}
		body = append(body, line)
	}
	return body
}
