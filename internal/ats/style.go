package ats

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minActionVerbRatio   = 70
	minQuantifiable      = 3
	pointsPerAchievement = 20
	minTenseConsistency  = 70
)

var quantifiableRe = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s?%|\b\d+(?:\.\d+)?x\b|\$\s?\d[\d,]*(?:\.\d+)?[kmb]?\b|\b\d[\d,]*\+?\s+(?:customers|clients|users|projects|people|engineers|employees|countries|markets)\b`)

type styleAnalysis struct {
	actionVerbs  float64
	quantifiable float64
	tense        float64
	achievements int
	presentTense int
	pastTense    int
}

func (s styleAnalysis) average() float64 {
	return (s.actionVerbs + s.quantifiable + s.tense) / 3
}

func (e *Engine) analyzeStyle(text string, sentences []string) styleAnalysis {
	var s styleAnalysis

	withVerb := 0
	for _, st := range sentences {
		if e.dict.IsActionVerb(firstWord(st)) {
			withVerb++
		}
	}
	s.actionVerbs = ratio(withVerb, len(sentences))

	s.achievements = len(quantifiableRe.FindAllString(text, -1))
	s.quantifiable = clamp(float64(s.achievements * pointsPerAchievement))

	s.presentTense, s.pastTense = e.countTense(text)
	s.tense = tenseConsistency(s.presentTense, s.pastTense)
	return s
}

// tenseConsistency is 100 when every tense marker agrees and 0 when present
// and past are balanced. No markers at all counts as inconsistent.
func tenseConsistency(present, past int) float64 {
	total := present + past
	if total == 0 {
		return 0
	}
	diff := present - past
	if diff < 0 {
		diff = -diff
	}
	return (1 - float64(diff)/float64(total)) * 100
}

func (e *Engine) countTense(text string) (present, past int) {
	presentSet := wordSet(e.dict.PresentTense)
	pastSet := wordSet(e.dict.PastTense)
	for _, w := range words(text) {
		switch {
		case presentSet[w]:
			present++
		case pastSet[w]:
			past++
		}
	}
	return present, past
}

// firstWord returns the first run of letters in s, skipping bullets and digits.
func firstWord(s string) string {
	start := strings.IndexFunc(s, unicode.IsLetter)
	if start < 0 {
		return ""
	}
	s = s[start:]
	if end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }); end >= 0 {
		return s[:end]
	}
	return s
}

// words returns the lowercase letter runs of text.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func wordSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, w := range list {
		set[strings.ToLower(w)] = true
	}
	return set
}
