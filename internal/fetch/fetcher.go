package fetch

import (
	"context"

	"github.com/rankscope/rankscope/internal/model"
)

// Fetcher retrieves the rendered content of a URL. Failures, including
// blocking/challenge responses, are returned as *model.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error)
}

// Challenge markers that identify a blocking response from the search
// engine. Matched case-insensitively against the page body.
var blockMarkers = []string{
	"recaptcha",
	"unusual traffic from your computer network",
	"/sorry/index",
	"detected unusual traffic",
}
