package model

import "strconv"

// RankResult is the outcome of resolving one keyword against the result
// listing. Rank is the 1-based ordinal position of the first URL whose host
// matches the target domain, counted across the concatenated listing pages.
// A result with Found=false is not an error: it means the domain never
// appeared within the scanned pages.
type RankResult struct {
	Keyword      string `json:"keyword"`
	Found        bool   `json:"found"`
	Rank         int    `json:"rank,omitempty"`        // valid only when Found
	MatchedURL   string `json:"matched_url,omitempty"` // exact URL from the listing
	PagesScanned int    `json:"pages_scanned"`
}

// RankString renders the rank for human-facing output.
func (r RankResult) RankString() string {
	if !r.Found {
		return "not-found"
	}
	return strconv.Itoa(r.Rank)
}
