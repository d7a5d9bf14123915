// Package jobsignal builds the types.JobSignal the scoring and tailoring
// engines consume from a job posting the caller already has: plain text,
// HTML, or explicit lists.
package jobsignal

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/segment"
	"github.com/jonathan/cv-ats/internal/types"
)

const (
	// maxRequirementChars drops list items that are really paragraphs.
	maxRequirementChars = 200
	minRequirementChars = 2
)

var listMarkerRe = regexp.MustCompile(`^\s*(?:[-*•·▪◦]|\d{1,2}[.)])\s+`)

// FromText extracts a JobSignal from a plain-text posting. Bulleted and
// numbered lines become requirements; dictionary keywords found anywhere in
// the text (directly or through a synonym) become keywords.
func FromText(text string, dict *dictionary.Dictionary) types.JobSignal {
	var items []string
	for _, line := range segment.SplitLines(text) {
		if loc := listMarkerRe.FindStringIndex(line); loc != nil {
			items = append(items, line[loc[1]:])
		}
	}
	return types.JobSignal{
		Requirements: cleanRequirements(items),
		Keywords:     DetectKeywords(text, dict),
	}
}

// FromLists trims and case-insensitively dedupes caller-supplied lists,
// keeping first occurrences in order.
func FromLists(requirements, keywords []string) types.JobSignal {
	return types.JobSignal{
		Requirements: dedupe(requirements),
		Keywords:     dedupe(keywords),
	}
}

// DetectKeywords returns the canonical dictionary keywords that occur in text.
// Industry keywords come first (industries in sorted order), then general
// keywords, then programming languages.
func DetectKeywords(text string, dict *dictionary.Dictionary) []string {
	keywords := []string{}
	if dict == nil {
		return keywords
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	consider := func(keyword string) {
		key := strings.ToLower(strings.TrimSpace(keyword))
		if key == "" || seen[key] {
			return
		}
		if mentions(lower, key, dict.SynonymsOf(key)) {
			seen[key] = true
			keywords = append(keywords, keyword)
		}
	}

	for _, industry := range dict.IndustryNames() {
		for _, kw := range dict.Industries[industry] {
			consider(kw)
		}
	}
	for _, kw := range dict.GeneralKeywords {
		consider(kw)
	}
	for _, lang := range dict.ProgrammingLanguages {
		consider(lang)
	}
	return keywords
}

func mentions(lowerText, keyword string, synonyms []string) bool {
	if segment.ContainsTerm(lowerText, keyword) {
		return true
	}
	for _, syn := range synonyms {
		if segment.ContainsTerm(lowerText, strings.ToLower(syn)) {
			return true
		}
	}
	return false
}

func cleanRequirements(items []string) []string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.Join(strings.Fields(item), " ")
		item = strings.TrimRight(item, ";,")
		if len(item) < minRequirementChars || len(item) > maxRequirementChars {
			continue
		}
		kept = append(kept, item)
	}
	return dedupe(kept)
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
