package model

// Row is the single output record produced for every input keyword. A run
// emits exactly one Row per keyword, in input order, regardless of whether
// the keyword ranked or failed.
type Row struct {
	Index    int        `json:"index"` // 0-based position in the input list
	Keyword  string     `json:"keyword"`
	Rank     RankResult `json:"rank"`
	Findings []Finding  `json:"findings,omitempty"` // present only for ranked keywords
	Error    string     `json:"error,omitempty"`    // per-keyword failure, recorded not fatal
}

// Completed reports whether the keyword was processed without a recorded
// failure. Not-found ranks still count as completed.
func (r *Row) Completed() bool {
	return r.Error == ""
}

// RunSummary aggregates the outcome of a full run.
type RunSummary struct {
	Total    int    `json:"total"`
	Found    int    `json:"found"`
	NotFound int    `json:"not_found"`
	Errored  int    `json:"errored"`
	Skipped  int    `json:"skipped"` // already completed on resume
	LLM      string `json:"llm_summary,omitempty"`
}
