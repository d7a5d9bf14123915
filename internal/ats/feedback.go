package ats

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-ats/internal/types"
)

// Feedback thresholds, checked in this order.
const (
	feedbackKeywords     = 60
	feedbackGrammar      = 70
	feedbackReadability  = 60
	feedbackFormatting   = 70
	feedbackActionVerbs  = 70
	feedbackQuantifiable = 50
)

const (
	suggestionUnreadable = "The document could not be analyzed; make sure it contains readable text."
	feedbackUnreadable   = "We could not read enough text to score this CV."
	feedbackPositive     = "Your CV is well optimized for applicant tracking systems."
)

// feedback walks a fixed ladder of checks and joins the messages of those
// that fire.
func feedback(s types.SubScores) string {
	ladder := []struct {
		value   float64
		below   float64
		message string
	}{
		{s.KeywordMatch, feedbackKeywords, "Add more keywords from the job description to improve your match rate."},
		{s.Grammar, feedbackGrammar, "Tighten your writing: lead with action verbs, quantify results and keep tenses consistent."},
		{s.Readability, feedbackReadability, "Use shorter sentences and simpler words to make the CV easier to scan."},
		{s.Formatting, feedbackFormatting, "Improve the layout with clear section headings and bullet points."},
		{s.ActionVerbs, feedbackActionVerbs, "Start more bullet points with strong action verbs."},
		{s.Quantifiable, feedbackQuantifiable, "Quantify your achievements with numbers, percentages or amounts."},
	}

	var parts []string
	for _, rung := range ladder {
		if rung.value < rung.below {
			parts = append(parts, rung.message)
		}
	}
	if len(parts) == 0 {
		return feedbackPositive
	}
	return strings.Join(parts, " ")
}

func buildSuggestions(kw keywordMatch, style styleAnalysis, readability float64, format formatAnalysis) []string {
	suggestions := []string{}
	add := func(msg string, args ...any) {
		suggestions = append(suggestions, fmt.Sprintf(msg, args...))
	}

	if len(kw.missing) > 0 {
		shown := kw.missing
		if len(shown) > maxSuggestedKeywords {
			shown = shown[:maxSuggestedKeywords]
		}
		add("Consider adding these keywords: %s.", strings.Join(shown, ", "))
	}
	if style.actionVerbs < minActionVerbRatio {
		add("Start bullet points with action verbs such as Developed, Implemented or Led (%.0f%% do today).", style.actionVerbs)
	}
	if style.achievements < minQuantifiable {
		add("Add measurable results such as percentages, amounts or counts (found %d).", style.achievements)
	}
	if style.tense < minTenseConsistency {
		add("Keep verb tense consistent: past tense for previous roles, present tense for your current one.")
	}
	if readability < feedbackReadability {
		add("Break up long sentences and prefer plain words to improve readability.")
	}
	if format.headings < minHeadings {
		add("Use clear ALL-CAPS section headings such as EXPERIENCE, EDUCATION and SKILLS.")
	}
	if format.bullets < minBullets {
		add("List responsibilities and achievements as bullet points.")
	}
	if format.spacingRuns > maxSpacingRuns {
		add("Remove repeated spaces and tabs; ATS parsers handle them poorly.")
	}
	if format.lowercaseShare > maxLowercaseFraction {
		add("Start every sentence and bullet with a capital letter.")
	}
	if !format.hasDates {
		add("Include dates for each position and qualification.")
	}
	return suggestions
}
