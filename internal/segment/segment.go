// Package segment turns raw CV text into the primitives used by the parser and
// the scoring engine: lines, sentences, contact fields, section boundaries and
// date-range / title-company line classification.
//
// All functions are pure and safe for concurrent use.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/cv-ats/internal/types"
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?(?:\(\d{1,4}\)[\s.\-]?)?\d{2,5}[\s.\-]?\d{3,4}[\s.\-]?\d{3,4}`)

	locationLabelRe = regexp.MustCompile(`(?im)^\s*(?:location|address|city)\s*:\s*(.+?)\s*$`)
	cityStateRe     = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+)*),[ \t]*([A-Z]{2})\b`)

	urlRe = regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s,;|]+|\b(?:linkedin\.com|github\.com)/[^\s,;|]+`)

	dateToken     = `(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+)?(?:\d{1,2}/)?(?:19|20)\d{2}`
	dateRangeExpr = `(?i)\b` + dateToken + `\s*(?:-|–|—|to|until)\s*(?:` + dateToken + `|present|current|now)\b`
	dateRangeRe   = regexp.MustCompile(dateRangeExpr)
)

// titleSeparators are tried in order when splitting a title/company line.
var titleSeparators = []string{" – ", " — ", " - ", " at ", ", ", " | "}

// connectorWords may appear lowercase inside a capitalized phrase.
var connectorWords = map[string]bool{
	"of": true, "and": true, "&": true, "for": true, "the": true, "in": true, "de": true, "/": true,
}

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
	maxTitleWords  = 8
	maxTitleChars  = 80
)

// SplitLines returns the non-empty, trimmed lines of text in order.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// SplitSentences splits text on runs of '.', '!' and '?' and returns the
// trimmed, non-empty pieces.
func SplitSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// FindContactFields applies the email, phone, location and URL detectors
// independently. The first match of each wins; a detector that finds nothing
// leaves its field empty.
func FindContactFields(text string) types.ContactInfo {
	info := types.ContactInfo{URLs: []string{}}

	info.Email = emailRe.FindString(text)
	info.Phone = findPhone(text)
	info.Location = findLocation(text)

	seen := make(map[string]bool)
	for _, u := range urlRe.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".)")
		if !seen[strings.ToLower(u)] {
			seen[strings.ToLower(u)] = true
			info.URLs = append(info.URLs, u)
		}
	}

	return info
}

func findPhone(text string) string {
	// Strip emails first so digits in addresses are not mistaken for phones.
	text = emailRe.ReplaceAllString(text, " ")
	for _, candidate := range phoneRe.FindAllString(text, -1) {
		if dateRangeRe.MatchString(candidate) {
			continue
		}
		digits := 0
		for _, r := range candidate {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		if digits >= minPhoneDigits && digits <= maxPhoneDigits {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func findLocation(text string) string {
	if m := locationLabelRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := cityStateRe.FindString(text); m != "" {
		return m
	}
	return ""
}

// LocationLine reports whether the whole line is a "City, ST" token or a
// labelled location, returning the location text.
func LocationLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if m := locationLabelRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := cityStateRe.FindString(line); m != "" && m == line {
		return m, true
	}
	return "", false
}

// normalizeHeading upper-cases a line and strips markdown markers, a trailing
// colon and repeated whitespace so it can be compared to heading synonyms.
func normalizeHeading(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "#*= ")
	line = strings.TrimRight(line, ":*= ")
	return strings.ToUpper(strings.Join(strings.Fields(line), " "))
}

// IsHeading reports whether line is exactly one of the heading synonyms,
// ignoring case, markdown markers and a trailing colon.
func IsHeading(line string, synonyms []string) bool {
	norm := normalizeHeading(line)
	if norm == "" {
		return false
	}
	for _, s := range synonyms {
		if norm == strings.ToUpper(strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// FindSectionStart scans lines top to bottom and returns the index of the
// first heading matching any synonym.
func FindSectionStart(lines []string, synonyms []string) (int, bool) {
	for i, line := range lines {
		if IsHeading(line, synonyms) {
			return i, true
		}
	}
	return -1, false
}

// IsDateRangeLike reports whether line contains a year range, a year followed
// by Present/Current, or a "Month Year – Month Year" range.
func IsDateRangeLike(line string) bool {
	return dateRangeRe.MatchString(line)
}

// ExtractDateRange returns the date-range portion of line, or "".
func ExtractDateRange(line string) string {
	return strings.TrimSpace(dateRangeRe.FindString(line))
}

// IsTitleCompanyLike splits lines shaped like "SENIOR ENGINEER - Acme Corp" or
// "Data Analyst at Initech" into title and company.
func IsTitleCompanyLike(line string) (title, company string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 2*maxTitleChars {
		return "", "", false
	}
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, "!") || strings.HasSuffix(line, "?") {
		return "", "", false
	}

	for _, sep := range titleSeparators {
		idx := strings.Index(line, sep)
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(line[:idx])
		right := strings.TrimSpace(line[idx+len(sep):])
		if right == "" || len(right) > maxTitleChars {
			continue
		}
		if !isCapitalizedPhrase(left) || !startsUpperOrDigit(right) {
			continue
		}
		if len(strings.Fields(right)) > maxTitleWords {
			continue
		}
		return left, right, true
	}
	return "", "", false
}

// isCapitalizedPhrase is true for short phrases whose words all start with an
// upper-case letter (ALL-CAPS included), allowing lowercase connector words.
func isCapitalizedPhrase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > maxTitleWords || len(s) > maxTitleChars {
		return false
	}
	for i, w := range words {
		if i > 0 && connectorWords[strings.ToLower(w)] {
			continue
		}
		if !startsUpperOrDigit(w) {
			return false
		}
	}
	r := []rune(words[0])
	return unicode.IsUpper(r[0])
}

func startsUpperOrDigit(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r) || unicode.IsDigit(r)
	}
	return false
}

// ContainsTerm is a case-sensitive substring match that refuses occurrences
// glued to a letter or digit, so "go" is not found inside "good". Callers
// lower-case both sides for case-insensitive matching.
func ContainsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if isBoundary(text, start, true) && isBoundary(text, end, false) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isBoundary(text string, i int, before bool) bool {
	var r rune
	switch {
	case before && i == 0, !before && i >= len(text):
		return true
	case before:
		r, _ = utf8.DecodeLastRuneInString(text[:i])
	default:
		r, _ = utf8.DecodeRuneInString(text[i:])
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
