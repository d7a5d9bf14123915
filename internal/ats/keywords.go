package ats

import "strings"

type keywordMatch struct {
	matched    []string
	missing    []string
	total      int
	percentage float64
}

// keywordSet merges job keywords, industry keywords and general keywords in
// that order, dropping case-insensitive duplicates.
func (e *Engine) keywordSet(opts Options) []string {
	var all []string
	all = append(all, opts.JobSignal.Keywords...)
	all = append(all, e.dict.IndustryKeywords(opts.Industry)...)
	all = append(all, e.dict.GeneralKeywords...)

	seen := make(map[string]bool, len(all))
	out := make([]string, 0, len(all))
	for _, kw := range all {
		kw = strings.TrimSpace(kw)
		key := strings.ToLower(kw)
		if kw == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	return out
}

func (e *Engine) matchKeywords(text string, keywords []string) keywordMatch {
	lower := strings.ToLower(text)
	m := keywordMatch{matched: []string{}, missing: []string{}, total: len(keywords)}

	for _, kw := range keywords {
		if e.present(lower, kw) {
			m.matched = append(m.matched, kw)
			continue
		}
		if len(m.missing) < maxMissingKeywords {
			m.missing = append(m.missing, kw)
		}
	}
	m.percentage = ratio(len(m.matched), m.total)
	return m
}

// present reports whether keyword or one of its synonyms occurs in text as a
// case-insensitive substring, so "java" also counts inside "JavaScript".
func (e *Engine) present(lowerText, keyword string) bool {
	if strings.Contains(lowerText, strings.ToLower(keyword)) {
		return true
	}
	for _, syn := range e.dict.SynonymsOf(keyword) {
		if strings.Contains(lowerText, strings.ToLower(syn)) {
			return true
		}
	}
	return false
}
