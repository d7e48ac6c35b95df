package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/rankscope/rankscope/internal/model"
)

// Sink persists one result row per keyword. Write failures are fatal to the
// run: losing rows silently would break the one-row-per-keyword contract.
type Sink interface {
	Write(ctx context.Context, row *model.Row) error
	Close() error
}

// Header is the column layout shared by all sinks.
var Header = []string{"keyword", "rank", "matched_url", "findings", "error", "status"}

// StatusCompleted marks rows that finished without a recorded failure.
// Resumed runs skip keywords already carrying this status.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Record flattens a row into the shared column layout.
func Record(row *model.Row) []string {
	status := StatusCompleted
	if !row.Completed() {
		status = StatusError
	}

	return []string{
		row.Keyword,
		row.Rank.RankString(),
		row.Rank.MatchedURL,
		FindingsSummary(row.Findings),
		row.Error,
		status,
	}
}

// FindingsSummary renders findings as a single cell, one dimension per
// segment, details kept only for non-OK statuses.
func FindingsSummary(findings []model.Finding) string {
	if len(findings) == 0 {
		return ""
	}

	parts := make([]string, 0, len(findings))
	for _, f := range findings {
		if f.Status == model.StatusOK {
			parts = append(parts, fmt.Sprintf("%s=%s", f.Dimension, f.Status))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s (%s)", f.Dimension, f.Status, f.Detail))
	}

	return strings.Join(parts, "; ")
}
