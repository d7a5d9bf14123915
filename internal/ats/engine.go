// Package ats scores CV text the way an applicant tracking system would:
// keyword coverage, writing style, readability and layout, combined into a
// single 0-100 figure with suggestions.
//
// Scoring is deterministic and never fails. Empty or garbled input produces
// low sub-scores and a list of suggestions rather than an error.
package ats

import (
	"math"

	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/segment"
	"github.com/jonathan/cv-ats/internal/types"
)

// Aggregate weights. Changing them is a scoring-policy change.
const (
	weightKeywords     = 0.30
	weightGrammar      = 0.20
	weightReadability  = 0.15
	weightFormatting   = 0.15
	weightActionVerbs  = 0.10
	weightQuantifiable = 0.10
)

const (
	maxMissingKeywords   = 10
	maxSuggestedKeywords = 5
)

// Options narrows the keyword set used for one scoring call.
type Options struct {
	JobSignal types.JobSignal
	// Industry selects a dictionary industry; empty means the default industry.
	Industry string
}

// Engine scores text against a dictionary.
type Engine struct {
	dict *dictionary.Dictionary
}

// NewEngine creates a scoring engine.
func NewEngine(dict *dictionary.Dictionary) *Engine {
	return &Engine{dict: dict}
}

// Score computes the ATS score of text.
func (e *Engine) Score(text string, opts Options) (result *types.ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			result = floorResult()
		}
	}()

	sentences := segment.SplitSentences(text)

	kw := e.matchKeywords(text, e.keywordSet(opts))
	style := e.analyzeStyle(text, sentences)
	readability := fleschReadingEase(text, sentences)
	format := analyzeFormatting(text, sentences)

	sub := types.SubScores{
		KeywordMatch: kw.percentage,
		Grammar:      style.average(),
		Readability:  readability,
		Formatting:   format.score,
		ActionVerbs:  style.actionVerbs,
		Quantifiable: style.quantifiable,
		Tense:        style.tense,
	}

	suggested := kw.missing
	if len(suggested) > maxSuggestedKeywords {
		suggested = suggested[:maxSuggestedKeywords]
	}

	result = &types.ScoreResult{
		Overall:           aggregate(sub),
		SubScores:         sub,
		MatchedKeywords:   kw.matched,
		MissingKeywords:   kw.missing,
		SuggestedKeywords: append([]string{}, suggested...),
	}
	result.Suggestions = buildSuggestions(kw, style, readability, format)
	result.Feedback = feedback(sub)
	return result
}

func aggregate(s types.SubScores) int {
	total := weightKeywords*s.KeywordMatch +
		weightGrammar*s.Grammar +
		weightReadability*s.Readability +
		weightFormatting*s.Formatting +
		weightActionVerbs*s.ActionVerbs +
		weightQuantifiable*s.Quantifiable
	return int(clamp(math.Round(total)))
}

// floorResult is returned if scoring hits an unexpected failure.
func floorResult() *types.ScoreResult {
	return &types.ScoreResult{
		MatchedKeywords:   []string{},
		MissingKeywords:   []string{},
		SuggestedKeywords: []string{},
		Suggestions:       []string{suggestionUnreadable},
		Feedback:          feedbackUnreadable,
	}
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
