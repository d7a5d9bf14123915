package parsing

import (
	"strings"

	"github.com/jonathan/cv-ats/internal/segment"
	"github.com/jonathan/cv-ats/internal/types"
)

// experienceBuilder accumulates one entry and its description lines.
type experienceBuilder struct {
	entries []types.ExperienceEntry
	current *types.ExperienceEntry
	desc    []string
}

func (b *experienceBuilder) open(e types.ExperienceEntry) {
	b.close()
	b.current = &e
}

func (b *experienceBuilder) close() {
	if b.current == nil {
		return
	}
	b.current.Description = strings.Join(b.desc, " ")
	b.entries = append(b.entries, *b.current)
	b.current = nil
	b.desc = nil
}

// pendingDate reports whether the open entry still waits for its date line.
func (b *experienceBuilder) pendingDate() bool {
	return b.current != nil && b.current.DateRange == "" && len(b.desc) == 0
}

func (p *Parser) parseExperience(text string, lines []string) []types.ExperienceEntry {
	entries := p.walkExperience(lines)
	if len(entries) > 0 {
		return entries
	}
	if entry, ok := p.fallbackExperience(text); ok {
		return []types.ExperienceEntry{entry}
	}
	return []types.ExperienceEntry{}
}

// walkExperience reads entries from the experience section. A title/company
// line followed directly by its date line forms one entry, as does a date
// line followed within the lookahead window by its title/company line.
// Bulleted lines extend the open entry's description.
func (p *Parser) walkExperience(lines []string) []types.ExperienceEntry {
	start, ok := segment.FindSectionStart(lines, p.dict.Sections.Experience)
	if !ok {
		return nil
	}
	closing := p.dict.Sections.Closing()

	var b experienceBuilder
	for i := start + 1; i < len(lines); i++ {
		line := lines[i]
		if segment.IsHeading(line, closing) {
			break
		}
		// Inside an entry, list items are description even when they look
		// like a date range or a title/company pair.
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
			rest := dateRemainder(line, dates)

			if b.pendingDate() {
				b.current.DateRange = dates
				continue
			}

			entry := types.ExperienceEntry{DateRange: dates}
			if title, company, ok := segment.IsTitleCompanyLike(rest); ok {
				entry.Title, entry.Company = title, company
				b.open(entry)
				continue
			}

			next, skipped := p.lookupTitle(lines, i, &entry, closing)
			b.open(entry)
			for _, s := range skipped {
				b.desc = append(b.desc, stripBullet(s))
			}
			i = takeLocation(lines, next, b.current)
			continue
		}

		if title, company, ok := segment.IsTitleCompanyLike(line); ok {
			b.open(types.ExperienceEntry{Title: title, Company: company})
			i = takeLocation(lines, i, b.current)
			continue
		}

		if b.current != nil {
			if d := stripBullet(line); d != "" {
				b.desc = append(b.desc, d)
			}
		}
	}
	b.close()
	return b.entries
}

// takeLocation consumes the line after i when it is a location line and
// returns the index of the last consumed line.
func takeLocation(lines []string, i int, entry *types.ExperienceEntry) int {
	if i+1 < len(lines) {
		if loc, ok := segment.LocationLine(lines[i+1]); ok {
			entry.Location = loc
			return i + 1
		}
	}
	return i
}

// lookupTitle searches the lines after the date line at index i for a
// title/company line. It fills entry and returns the index of the last line
// consumed plus any lines skipped over on the way, which belong to the
// description. Without a match the next non-date line becomes the title.
func (p *Parser) lookupTitle(lines []string, i int, entry *types.ExperienceEntry, closing []string) (int, []string) {
	var skipped []string
	for j := i + 1; j < len(lines) && j <= i+p.lookahead; j++ {
		line := lines[j]
		if segment.IsDateRangeLike(line) || segment.IsHeading(line, closing) {
			break
		}
		if title, company, ok := segment.IsTitleCompanyLike(line); ok {
			entry.Title, entry.Company = title, company
			return j, skipped
		}
		skipped = append(skipped, line)
	}

	entry.Company = companyPlaceholder
	if i+1 < len(lines) {
		next := lines[i+1]
		if !segment.IsDateRangeLike(next) && !segment.IsHeading(next, closing) && !p.isSkillLine(next) {
			entry.Title = stripBullet(next)
			return i + 1, nil
		}
	}
	return i, nil
}

// fallbackExperience synthesizes a single low-confidence entry from the first
// sentence that mentions experience.
func (p *Parser) fallbackExperience(text string) (types.ExperienceEntry, bool) {
	for _, sentence := range segment.SplitSentences(text) {
		if len([]rune(sentence)) < minFallbackSentence {
			continue
		}
		if !p.mentionsExperience(sentence) {
			continue
		}
		return types.ExperienceEntry{
			Title:         fallbackTitle,
			Company:       fallbackCompany,
			Description:   sentence + ".",
			LowConfidence: true,
		}, true
	}
	return types.ExperienceEntry{}, false
}

func (p *Parser) mentionsExperience(sentence string) bool {
	for _, word := range strings.FieldsFunc(strings.ToLower(sentence), isWordBreak) {
		for _, indicator := range p.dict.ExperienceIndicators {
			if word == strings.ToLower(indicator) {
				return true
			}
		}
	}
	return false
}

func isWordBreak(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
}

// dateRemainder returns what is left of line once the date range and the
// punctuation around it are removed.
func dateRemainder(line, dates string) string {
	if dates == "" {
		return strings.TrimSpace(line)
	}
	rest := strings.Replace(line, dates, " ", 1)
	return strings.Trim(rest, " \t|,()[]-–—:")
}
