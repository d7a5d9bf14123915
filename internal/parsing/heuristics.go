package parsing

import (
	"strings"

	"github.com/jonathan/cv-ats/internal/segment"
)

const (
	// summaryMaxChars is the cutoff for the leading-text summary.
	summaryMaxChars = 500
	// summaryWindow is how far back from the cutoff a sentence end is accepted.
	summaryWindow = 200
)

// NameExtractor picks the candidate's full name from the document lines.
type NameExtractor interface {
	ExtractName(lines []string) string
}

// SummaryExtractor picks a professional summary from the document text.
type SummaryExtractor interface {
	ExtractSummary(text string) string
}

// FirstLineName treats the first non-empty line as the name. This is weak: a
// CV that opens with a title or an address yields the wrong value.
type FirstLineName struct{}

// ExtractName implements NameExtractor.
func (FirstLineName) ExtractName(lines []string) string {
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// LeadingSummary uses the first ~500 characters of the document, cut back to
// the last sentence end when one falls inside the trailing window.
type LeadingSummary struct {
	MaxChars int
	Window   int
}

// ExtractSummary implements SummaryExtractor.
func (s LeadingSummary) ExtractSummary(text string) string {
	maxChars := s.MaxChars
	if maxChars <= 0 {
		maxChars = summaryMaxChars
	}
	window := s.Window
	if window <= 0 {
		window = summaryWindow
	}
	return truncateAtSentence(strings.Join(strings.Fields(text), " "), maxChars, window)
}

// SectionSummary reads the body of a summary/profile section when the CV has
// one, and otherwise defers to Fallback. Next lists the headings that end the
// section; usually dictionary.Sections.All().
type SectionSummary struct {
	Headings []string
	Next     []string
	Fallback SummaryExtractor
}

// ExtractSummary implements SummaryExtractor.
func (s SectionSummary) ExtractSummary(text string) string {
	lines := segment.SplitLines(text)
	if start, ok := segment.FindSectionStart(lines, s.Headings); ok {
		var body []string
		for _, line := range lines[start+1:] {
			if segment.IsHeading(line, s.Next) {
				break
			}
			body = append(body, line)
		}
		if len(body) > 0 {
			return truncateAtSentence(strings.Join(body, " "), summaryMaxChars, summaryWindow)
		}
	}
	if s.Fallback != nil {
		return s.Fallback.ExtractSummary(text)
	}
	return ""
}

func truncateAtSentence(text string, maxChars, window int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	cut := runes[:maxChars]
	for i := len(cut) - 1; i >= 0 && i >= maxChars-window; i-- {
		switch cut[i] {
		case '.', '!', '?':
			return strings.TrimSpace(string(cut[:i+1]))
		}
	}
	return strings.TrimSpace(string(cut))
}
