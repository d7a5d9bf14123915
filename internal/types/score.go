package types

// SubScores holds the named components of an ATS score, each in [0,100].
type SubScores struct {
	KeywordMatch float64 `json:"keyword_match"`
	Grammar      float64 `json:"grammar"`
	Readability  float64 `json:"readability"`
	Formatting   float64 `json:"formatting"`
	ActionVerbs  float64 `json:"action_verbs"`
	Quantifiable float64 `json:"quantifiable"`
	Tense        float64 `json:"tense"`
}

// ScoreResult is the immutable outcome of scoring one text against one
// dictionary context.
type ScoreResult struct {
	Overall           int       `json:"overall"`
	SubScores         SubScores `json:"sub_scores"`
	MatchedKeywords   []string  `json:"matched_keywords"`
	MissingKeywords   []string  `json:"missing_keywords"`
	SuggestedKeywords []string  `json:"suggested_keywords"`
	Suggestions       []string  `json:"suggestions"`
	Feedback          string    `json:"feedback"`
}
