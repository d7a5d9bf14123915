// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-ats/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to width runes, ending in "..." when cut.
func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// writeList writes up to limit items as bullets, then a "... and N more" line.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// PrintParsedCV outputs a human-readable summary of a parsed CV.
func (p *Printer) PrintParsedCV(cv *types.ParsedCV) {
	if cv == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(cv.Contact.FullName)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(cv.Contact.Email)))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", orDash(cv.Contact.Phone)))
	sb.WriteString(fmt.Sprintf("Location: %s\n", orDash(cv.Contact.Location)))
	sb.WriteString("\n")

	if len(cv.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(cv.Experience)))
		for _, entry := range cv.Experience[:min(len(cv.Experience), maxItemsToShow)] {
			sb.WriteString(fmt.Sprintf("  • %s @ %s", entry.Title, entry.Company))
			if entry.DateRange != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", entry.DateRange))
			}
			if entry.LowConfidence {
				sb.WriteString(" [low confidence]")
			}
			sb.WriteString("\n")
		}
		if len(cv.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(cv.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(cv.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(cv.Education)))
		for _, entry := range cv.Education[:min(len(cv.Education), 3)] {
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", orDash(entry.Degree), orDash(entry.Institution)))
		}
		sb.WriteString("\n")
	}

	writeList(&sb, "Skills", cv.Skills, maxItemsToShow)
	sb.WriteString(fmt.Sprintf("Projects: %d  Certifications: %d  Languages: %d",
		len(cv.Projects), len(cv.Certifications), len(cv.Languages)))

	p.printBox("PARSED CV", sb.String())
}

// PrintScore outputs the overall score, the sub-score breakdown and the
// keyword gaps.
func (p *Printer) PrintScore(result *types.ScoreResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:        %3d / 100\n\n", result.Overall))

	s := result.SubScores
	rows := []struct {
		label string
		value float64
	}{
		{"Keyword match", s.KeywordMatch},
		{"Grammar", s.Grammar},
		{"Readability", s.Readability},
		{"Formatting", s.Formatting},
		{"Action verbs", s.ActionVerbs},
		{"Quantifiable", s.Quantifiable},
		{"Tense", s.Tense},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-15s %5.1f  %s\n", row.label, row.value, bar(row.value)))
	}
	sb.WriteString("\n")

	writeList(&sb, "Matched keywords", result.MatchedKeywords, maxItemsToShow)
	writeList(&sb, "Missing keywords", result.MissingKeywords, maxItemsToShow)
	writeList(&sb, "Suggestions", result.Suggestions, maxItemsToShow)
	sb.WriteString("Feedback: " + orDash(result.Feedback))

	p.printBox("ATS SCORE", sb.String())
}

// bar renders a 0-100 value as a 20-cell gauge.
func bar(value float64) string {
	const cells = 20
	filled := int(value/100*cells + 0.5)
	filled = max(0, min(cells, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}

// PrintTailoredCV outputs the tailoring outcome: skill coverage, the new
// summary and what was backfilled.
func (p *Printer) PrintTailoredCV(cv *types.TailoredCV) {
	if cv == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Years of experience: %d\n\n", cv.YearsOfExperience))
	sb.WriteString("Summary:\n")
	for _, line := range wrap(cv.Summary, boxWidth-6) {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("\n")

	writeList(&sb, "Matching skills", cv.MatchingSkills, maxItemsToShow)
	writeList(&sb, "Missing critical skills", cv.MissingCriticalSkills, maxItemsToShow)

	projects := make([]string, 0, len(cv.Projects))
	for _, project := range cv.Projects {
		projects = append(projects, project.Name)
	}
	writeList(&sb, "Projects", projects, 3)

	p.printBox("TAILORED CV", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobSignal outputs the requirements and keywords a posting yielded.
func (p *Printer) PrintJobSignal(job types.JobSignal) {
	if job.IsEmpty() {
		return
	}

	var sb strings.Builder
	writeList(&sb, "Requirements", job.Requirements, maxItemsToShow)
	writeList(&sb, "Keywords", job.Keywords, 10)

	p.printBox("JOB SIGNAL", strings.TrimSuffix(sb.String(), "\n\n"))
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{"-"}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len([]rune(line))+1+len([]rune(word)) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
