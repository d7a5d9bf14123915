package parsing

import (
	"strings"

	"github.com/jonathan/cv-ats/internal/segment"
	"github.com/jonathan/cv-ats/internal/types"
)

// skillLabel returns the content after a "Skills:"-style label, if line has one.
func (p *Parser) skillLabel(line string) (string, bool) {
	label, content, found := strings.Cut(line, ":")
	if !found {
		return "", false
	}
	label = strings.ToLower(strings.Trim(strings.TrimSpace(label), "#*"))
	for _, l := range p.dict.SkillLabels {
		l = strings.ToLower(l)
		if label == l || strings.HasSuffix(label, " "+l) {
			return strings.TrimSpace(content), true
		}
	}
	return "", false
}

func (p *Parser) isSkillLine(line string) bool {
	content, ok := p.skillLabel(line)
	return ok && content != ""
}

// parseSkills reads the first labelled skills line.
func (p *Parser) parseSkills(lines []string) []string {
	for _, line := range lines {
		content, ok := p.skillLabel(line)
		if !ok || content == "" {
			continue
		}
		return dedupe(strings.Split(content, ","))
	}
	return []string{}
}

// sectionItems collects the lines of a simple list section. With splitCommas
// a line such as "English, French" yields two items.
func (p *Parser) sectionItems(lines []string, synonyms []string, splitCommas bool) []string {
	var items []string
	for _, line := range p.sectionBody(lines, synonyms) {
		line = stripBullet(line)
		if splitCommas {
			items = append(items, strings.Split(line, ",")...)
		} else {
			items = append(items, line)
		}
	}
	return dedupe(items)
}

// parseProjects reads "Name: description" or "Name - description" lines from
// the projects section. Bulleted lines continue the previous project.
func (p *Parser) parseProjects(lines []string) []types.Project {
	projects := []types.Project{}
	for _, raw := range p.sectionBody(lines, p.dict.Sections.Projects) {
		line := stripBullet(raw)
		if line == "" {
			continue
		}
		bulleted := line != strings.TrimSpace(raw)

		if name, desc, ok := strings.Cut(line, ": "); ok && !bulleted && name != "" {
			projects = append(projects, types.Project{Name: strings.TrimSpace(name), Description: strings.TrimSpace(desc)})
			continue
		}
		if name, desc, ok := segment.IsTitleCompanyLike(line); ok && !bulleted {
			projects = append(projects, types.Project{Name: name, Description: desc})
			continue
		}
		if bulleted && len(projects) > 0 {
			last := &projects[len(projects)-1]
			last.Description = strings.TrimSpace(last.Description + " " + line)
			continue
		}
		projects = append(projects, types.Project{Name: line})
	}
	return projects
}

// dedupe trims items and drops empties and case-insensitive repeats, keeping
// first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
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
