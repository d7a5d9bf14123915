package ats

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/cv-ats/internal/segment"
)

// Formatting deductions from a starting score of 100.
const (
	deductFewHeadings    = 20
	deductFewBullets     = 15
	deductSpacing        = 10
	deductLowercase      = 15
	deductNoDates        = 20
	minHeadings          = 3
	minBullets           = 5
	maxSpacingRuns       = 10
	maxLowercaseFraction = 0.10
	maxHeadingWords      = 5
)

var (
	bulletLineRe = regexp.MustCompile(`^(?:[-*•·▪►‣–]|\d+[.)])\s+`)
	spacingRunRe = regexp.MustCompile(`\S(?: {2,}|\t+)`)
	yearRe       = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

type formatAnalysis struct {
	score          float64
	headings       int
	bullets        int
	spacingRuns    int
	lowercaseShare float64
	hasDates       bool
}

func analyzeFormatting(text string, sentences []string) formatAnalysis {
	var f formatAnalysis
	for _, line := range segment.SplitLines(text) {
		if isHeadingShaped(line) {
			f.headings++
		}
		if bulletLineRe.MatchString(line) {
			f.bullets++
		}
	}
	f.spacingRuns = len(spacingRunRe.FindAllString(text, -1))
	f.hasDates = yearRe.MatchString(text)

	lowercase := 0
	for _, st := range sentences {
		if startsLowercase(st) {
			lowercase++
		}
	}
	if len(sentences) > 0 {
		f.lowercaseShare = float64(lowercase) / float64(len(sentences))
	}

	score := 100.0
	if f.headings < minHeadings {
		score -= deductFewHeadings
	}
	if f.bullets < minBullets {
		score -= deductFewBullets
	}
	if f.spacingRuns > maxSpacingRuns {
		score -= deductSpacing
	}
	if f.lowercaseShare > maxLowercaseFraction {
		score -= deductLowercase
	}
	if !f.hasDates {
		score -= deductNoDates
	}
	f.score = clamp(score)
	return f
}

// isHeadingShaped is true for short ALL-CAPS lines such as "WORK EXPERIENCE:".
func isHeadingShaped(line string) bool {
	line = strings.TrimRight(strings.TrimSpace(line), ":")
	if line == "" || len(strings.Fields(line)) > maxHeadingWords {
		return false
	}
	letters := 0
	for _, r := range line {
		switch {
		case unicode.IsLower(r), unicode.IsDigit(r):
			return false
		case unicode.IsLetter(r):
			letters++
		}
	}
	return letters >= 3
}

// startsLowercase looks at the first letter, ignoring bullets and digits.
func startsLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return unicode.IsLower(r)
		}
	}
	return false
}
