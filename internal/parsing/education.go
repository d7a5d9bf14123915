package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-ats/internal/segment"
	"github.com/jonathan/cv-ats/internal/types"
)

var (
	degreeRe      = regexp.MustCompile(`(?i)\b(?:b\.?sc|m\.?sc|b\.?a|m\.?a|b\.?s|m\.?s|b\.?eng|m\.?eng|mba|ph\.?d|bachelor'?s?|master'?s?|doctorate|diploma|associate'?s?|certificate|a-levels?|gcses?|high school)\b`)
	institutionRe = regexp.MustCompile(`(?i)\b(?:university|college|school|institute|academy|polytechnic)\b`)
	gpaRe         = regexp.MustCompile(`(?i)\bgpa\s*[:\-]?\s*(\d(?:\.\d{1,2})?(?:\s*/\s*\d(?:\.\d{1,2})?)?)`)
)

type educationBuilder struct {
	entries []types.EducationEntry
	current *types.EducationEntry
	desc    []string
}

func (b *educationBuilder) open(e types.EducationEntry) {
	b.close()
	b.current = &e
}

func (b *educationBuilder) close() {
	if b.current == nil {
		return
	}
	b.current.Description = strings.Join(b.desc, " ")
	b.entries = append(b.entries, *b.current)
	b.current = nil
	b.desc = nil
}

// parseEducation walks the education section the same way experience is
// walked: a degree/institution line or a date line opens an entry, and lines
// that follow fill in the missing fields before falling into the description.
func (p *Parser) parseEducation(lines []string) []types.EducationEntry {
	start, ok := segment.FindSectionStart(lines, p.dict.Sections.Education)
	if !ok {
		return []types.EducationEntry{}
	}
	s := p.dict.Sections
	closing := append(append(append(append(append(append([]string{},
		s.Experience...), s.Skills...), s.Certifications...), s.Languages...), s.Projects...), s.Summary...)

	var b educationBuilder
	for _, line := range lines[start+1:] {
		if segment.IsHeading(line, closing) {
			break
		}

		if m := gpaRe.FindStringSubmatch(line); m != nil && b.current != nil && b.current.GPA == "" {
			b.current.GPA = strings.ReplaceAll(m[1], " ", "")
			if rest := strings.TrimSpace(gpaRe.ReplaceAllString(line, "")); len(strings.Trim(rest, ",;|-()")) == 0 {
				continue
			}
		}

		if b.current != nil && isBulleted(line) {
			if d := stripBullet(line); d != "" {
				b.desc = append(b.desc, d)
			}
			continue
		}
		if p.isSkillLine(line) {
			break
		}

		if segment.IsDateRangeLike(line) {
			dates := segment.ExtractDateRange(line)
			degree, institution := splitEducation(dateRemainder(line, dates))
			if b.current != nil && b.current.DateRange == "" && len(b.desc) == 0 &&
				fits(b.current, degree, institution) {
				b.current.DateRange = dates
				fill(b.current, degree, institution)
				continue
			}
			b.open(types.EducationEntry{DateRange: dates, Degree: degree, Institution: institution})
			continue
		}

		degree, institution := splitEducation(line)
		if degree == "" && institution == "" {
			if b.current != nil {
				if d := stripBullet(line); d != "" {
					b.desc = append(b.desc, d)
				}
			}
			continue
		}
		if b.current != nil && len(b.desc) == 0 && fits(b.current, degree, institution) {
			fill(b.current, degree, institution)
			continue
		}
		b.open(types.EducationEntry{Degree: degree, Institution: institution})
	}
	b.close()

	if b.entries == nil {
		return []types.EducationEntry{}
	}
	return b.entries
}

// splitEducation classifies a line as degree and/or institution. Lines that
// are neither yield two empty strings.
func splitEducation(line string) (degree, institution string) {
	line = stripBullet(line)
	if line == "" {
		return "", ""
	}
	if left, right, ok := segment.IsTitleCompanyLike(line); ok {
		switch {
		case institutionRe.MatchString(left) && !institutionRe.MatchString(right):
			return right, left
		case degreeRe.MatchString(left) || institutionRe.MatchString(right):
			return left, right
		}
	}
	switch {
	case institutionRe.MatchString(line):
		return "", line
	case degreeRe.MatchString(line):
		return line, ""
	}
	return "", ""
}

// fits reports whether degree and institution can be merged into e without
// overwriting a field that is already set.
func fits(e *types.EducationEntry, degree, institution string) bool {
	return (degree == "" || e.Degree == "") && (institution == "" || e.Institution == "")
}

func fill(e *types.EducationEntry, degree, institution string) {
	if degree != "" {
		e.Degree = degree
	}
	if institution != "" {
		e.Institution = institution
	}
}
