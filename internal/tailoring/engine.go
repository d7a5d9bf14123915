// Package tailoring adapts a parsed CV to a job without any network access.
// It is the backstop used whenever an AI provider is unavailable, slow or
// returns something unusable.
package tailoring

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/segment"
	"github.com/jonathan/cv-ats/internal/types"
)

const (
	maxMissingCritical  = 5
	maxAddedSkills      = 2
	summaryRequirements = 3
	summaryKeywords     = 2
	enhanceKeywords     = 4
	minAchievements     = 2
	maxAchievements     = 3
	minPercent          = 10
	percentSpread       = 31
	maxProjects         = 2
	followupRequirement = 2
)

const fallbackSummary = "Results-driven professional with a track record of delivering high-quality work."

// Engine tailors CVs using the dictionary's template banks.
type Engine struct {
	dict         *dictionary.Dictionary
	selector     Selector
	now          func() time.Time
	achievements []*template.Template
	project      *template.Template
	followup     *template.Template
}

// Option configures an Engine.
type Option func(*Engine)

// WithSelector replaces the default hash-based selector.
func WithSelector(s Selector) Option {
	return func(e *Engine) { e.selector = s }
}

// WithClock sets the time source used for "Present" date ranges.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine compiles the dictionary's templates. It fails only when a
// template in the dictionary is malformed.
func NewEngine(dict *dictionary.Dictionary, opts ...Option) (*Engine, error) {
	e := &Engine{
		dict:     dict,
		selector: HashSelector{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	for i, text := range dict.AchievementTemplates {
		tmpl, err := template.New(fmt.Sprintf("achievement-%d", i)).Parse(text)
		if err != nil {
			return nil, &TemplateError{Name: fmt.Sprintf("achievement_templates[%d]", i), Cause: err}
		}
		e.achievements = append(e.achievements, tmpl)
	}

	var err error
	if e.project, err = parseOptional("project_template", dict.ProjectTemplate); err != nil {
		return nil, err
	}
	if e.followup, err = parseOptional("project_followup", dict.ProjectFollowup); err != nil {
		return nil, err
	}
	return e, nil
}

func parseOptional(name, text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, &TemplateError{Name: name, Cause: err}
	}
	return tmpl, nil
}

// Tailor returns a copy of cv adapted to job. The input is never modified.
// Each step runs independently; a step that fails leaves its fields as they
// were in the input.
func (e *Engine) Tailor(cv *types.ParsedCV, job types.JobSignal) *types.TailoredCV {
	base := cv.Clone()
	out := &types.TailoredCV{
		ParsedCV:              *base.Clone(),
		MatchingSkills:        []string{},
		MissingCriticalSkills: []string{},
		YearsOfExperience:     defaultYears,
	}

	guard(func() {
		skills, matching, missing := optimizeSkills(base.Skills, job)
		out.Skills, out.MatchingSkills, out.MissingCriticalSkills = skills, matching, missing
	})
	guard(func() { out.YearsOfExperience = estimateYears(base.Experience, e.now()) })
	guard(func() { out.Summary = e.summary(base.Summary, job, out.YearsOfExperience) })
	guard(func() { out.Experience = e.enhanceExperience(base.Experience, job) })
	guard(func() { out.Projects = e.backfillProjects(base.Projects, job) })
	guard(func() { out.Certifications = e.backfillCertifications(base.Certifications, job) })
	guard(func() { out.Languages = e.backfillLanguages(base.Languages, job) })

	return out
}

func guard(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// optimizeSkills orders matching skills first, then the rest of the CV's
// skills, then at most two missing requirements.
func optimizeSkills(skills []string, job types.JobSignal) (ordered, matching, missing []string) {
	terms := job.Terms()
	matching = []string{}
	var rest []string
	for _, skill := range skills {
		if overlapsAny(skill, terms) {
			matching = append(matching, skill)
		} else {
			rest = append(rest, skill)
		}
	}

	missing = []string{}
	for _, req := range job.Requirements {
		if len(missing) == maxMissingCritical {
			break
		}
		if strings.TrimSpace(req) == "" || overlapsAny(req, skills) {
			continue
		}
		missing = append(missing, req)
	}

	ordered = make([]string, 0, len(skills)+maxAddedSkills)
	ordered = append(ordered, matching...)
	ordered = append(ordered, rest...)
	for i := 0; i < len(missing) && i < maxAddedSkills; i++ {
		ordered = append(ordered, missing[i])
	}
	return ordered, matching, missing
}

// overlapsAny reports whether s contains, or is contained in, any of terms,
// ignoring case.
func overlapsAny(s string, terms []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && (strings.Contains(s, t) || strings.Contains(t, s)) {
			return true
		}
	}
	return false
}

// summary follows one fixed pattern: the existing summary, then a sentence
// built from the years estimate, the leading requirements and keywords.
func (e *Engine) summary(existing string, job types.JobSignal, years int) string {
	base := strings.TrimSpace(existing)
	if base == "" {
		base = fallbackSummary
	}
	if !strings.HasSuffix(base, ".") && !strings.HasSuffix(base, "!") && !strings.HasSuffix(base, "?") {
		base += "."
	}

	var b strings.Builder
	b.WriteString(base)
	fmt.Fprintf(&b, " Brings %d+ years of experience", years)
	if reqs := head(job.Requirements, summaryRequirements); len(reqs) > 0 {
		b.WriteString(" across " + joinList(reqs))
	}
	if kws := head(job.Keywords, summaryKeywords); len(kws) > 0 {
		b.WriteString(", with particular strength in " + joinList(kws))
	}
	b.WriteString(".")
	return b.String()
}

// enhanceExperience appends achievement sentences and a closing expertise
// sentence to each entry. Without job keywords entries are left untouched.
func (e *Engine) enhanceExperience(entries []types.ExperienceEntry, job types.JobSignal) []types.ExperienceEntry {
	keywords := head(job.Keywords, enhanceKeywords)
	out := make([]types.ExperienceEntry, len(entries))
	copy(out, entries)
	if len(keywords) == 0 || len(e.achievements) == 0 {
		return out
	}

	for i := range out {
		enhanced, ok := e.enhanceEntry(out[i], keywords)
		if ok {
			out[i] = enhanced
		}
	}
	return out
}

func (e *Engine) enhanceEntry(entry types.ExperienceEntry, keywords []string) (result types.ExperienceEntry, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			result, ok = entry, false
		}
	}()

	key := entry.Title + "|" + entry.Company + "|" + entry.DateRange + "|" + entry.Description + "|" + strings.Join(keywords, ",")
	count := minAchievements + e.selector.Pick(key+"|count", maxAchievements-minAchievements+1)

	sentences := []string{}
	if d := strings.TrimSpace(entry.Description); d != "" {
		sentences = append(sentences, d)
	}
	used := map[int]bool{}
	for n := 0; n < count; n++ {
		idx := e.selector.Pick(fmt.Sprintf("%s|template|%d", key, n), len(e.achievements))
		for used[idx] && len(used) < len(e.achievements) {
			idx = (idx + 1) % len(e.achievements)
		}
		used[idx] = true

		sentence, err := render(e.achievements[idx], map[string]any{
			"Keyword": keywords[n%len(keywords)],
			"Percent": minPercent + e.selector.Pick(fmt.Sprintf("%s|percent|%d", key, n), percentSpread),
		})
		if err != nil {
			return entry, false
		}
		sentences = append(sentences, sentence)
	}
	sentences = append(sentences, "Specialized expertise in "+joinList(keywords)+".")

	entry.Description = strings.Join(sentences, " ")
	return entry, true
}

// backfillProjects synthesizes projects from the top requirements when the
// CV has none, and otherwise appends a sentence referencing them.
func (e *Engine) backfillProjects(projects []types.Project, job types.JobSignal) []types.Project {
	out := append([]types.Project{}, projects...)
	reqs := nonEmpty(job.Requirements)
	if len(reqs) == 0 {
		return out
	}

	if len(out) == 0 {
		if e.project == nil {
			return out
		}
		for _, req := range head(reqs, maxProjects) {
			desc, err := render(e.project, map[string]any{"Requirement": req})
			if err != nil {
				return []types.Project{}
			}
			out = append(out, types.Project{Name: req + " Project", Description: desc})
		}
		return out
	}

	if e.followup == nil {
		return out
	}
	sentence, err := render(e.followup, map[string]any{"Requirements": joinList(head(reqs, followupRequirement))})
	if err != nil {
		return out
	}
	last := &out[len(out)-1]
	last.Description = strings.TrimSpace(last.Description + " " + sentence)
	return out
}

// backfillCertifications fills an empty certification list with the
// requirements that name a certification or cloud provider.
func (e *Engine) backfillCertifications(certs []string, job types.JobSignal) []string {
	out := append([]string{}, certs...)
	if len(out) > 0 {
		return out
	}
	for _, req := range nonEmpty(job.Requirements) {
		if mentionsAny(req, e.dict.CertificationKeywords) {
			out = append(out, req)
		}
	}
	return out
}

// backfillLanguages fills an empty language list with the programming
// languages named in the requirements.
func (e *Engine) backfillLanguages(languages []string, job types.JobSignal) []string {
	out := append([]string{}, languages...)
	if len(out) > 0 {
		return out
	}
	seen := map[string]bool{}
	for _, req := range nonEmpty(job.Requirements) {
		lower := strings.ToLower(req)
		for _, lang := range e.dict.ProgrammingLanguages {
			key := strings.ToLower(lang)
			if !seen[key] && segment.ContainsTerm(lower, key) {
				seen[key] = true
				out = append(out, lang)
			}
		}
	}
	return out
}

func mentionsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if segment.ContainsTerm(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func head(items []string, n int) []string {
	items = nonEmpty(items)
	if len(items) > n {
		return items[:n]
	}
	return items
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// joinList renders "a", "a and b" or "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
