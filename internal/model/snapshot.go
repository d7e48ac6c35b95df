package model

import "time"

// PageSnapshot holds the raw fetched content of a page. It lives only for
// the duration of the pipeline step that requested it and is never persisted
// beyond scoring (the snapshot cache stores an encoded copy keyed by URL,
// not the snapshot itself).
type PageSnapshot struct {
	URL        string    `json:"url"`       // requested URL
	FinalURL   string    `json:"final_url"` // URL after redirects
	HTML       string    `json:"html"`
	StatusCode int       `json:"status_code"`
	FetchedAt  time.Time `json:"fetched_at"`
}
