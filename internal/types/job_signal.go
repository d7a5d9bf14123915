package types

// JobSignal describes a target job posting. It is supplied by the caller; the
// engines never fetch postings themselves.
type JobSignal struct {
	Requirements []string `json:"requirements"`
	Keywords     []string `json:"keywords"`
}

// IsEmpty reports whether the signal carries no requirements and no keywords.
func (j JobSignal) IsEmpty() bool {
	return len(j.Requirements) == 0 && len(j.Keywords) == 0
}

// Terms returns requirements followed by keywords.
func (j JobSignal) Terms() []string {
	terms := make([]string, 0, len(j.Requirements)+len(j.Keywords))
	terms = append(terms, j.Requirements...)
	terms = append(terms, j.Keywords...)
	return terms
}
