package ats

import "strings"

// fleschReadingEase approximates the Flesch Reading Ease of text, clamped to
// [0,100]. Text without words scores 0.
func fleschReadingEase(text string, sentences []string) float64 {
	ws := words(text)
	if len(ws) == 0 {
		return 0
	}
	n := len(sentences)
	if n == 0 {
		n = 1
	}

	syllables := 0
	for _, w := range ws {
		syllables += countSyllables(w)
	}

	score := 206.835 -
		1.015*(float64(len(ws))/float64(n)) -
		84.6*(float64(syllables)/float64(len(ws)))
	return clamp(score)
}

// countSyllables counts vowel groups, drops a silent trailing "e" on words
// longer than 3 letters and a trailing "ed" on words longer than 4. Every
// word has at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(strings.Trim(word, "'"))
	count := 0
	inVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !inVowel {
			count++
		}
		inVowel = vowel
	}

	n := len([]rune(word))
	switch {
	case n > 4 && strings.HasSuffix(word, "ed"):
		count--
	case n > 3 && strings.HasSuffix(word, "e"):
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
