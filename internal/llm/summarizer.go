package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rankscope/rankscope/internal/model"
)

const systemPrompt = "You are an SEO analyst. Summarize rank-check results " +
	"strictly from the data provided. Do not speculate about causes you " +
	"cannot see in the data, and do not invent keywords or URLs."

// Summarizer produces a short prose summary of a finished run. It runs
// after all rows are written and never affects ranks or findings.
type Summarizer struct {
	provider Provider
}

// NewSummarizer creates a summarizer from config. Returns nil when no
// provider is configured.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return &Summarizer{provider: provider}, nil
}

// Summarize generates the run summary from the produced rows.
func (s *Summarizer) Summarize(ctx context.Context, targetDomain string, rows []*model.Row) (string, error) {
	return s.provider.Complete(ctx, systemPrompt, BuildPrompt(targetDomain, rows))
}

// BuildPrompt renders the rows into a compact table the model can reason
// over without seeing any page content.
func BuildPrompt(targetDomain string, rows []*model.Row) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rank-check results for %s (%d keywords):\n\n", targetDomain, len(rows))

	for _, row := range rows {
		fmt.Fprintf(&b, "- %q: rank %s", row.Keyword, row.Rank.RankString())
		if row.Error != "" {
			fmt.Fprintf(&b, ", error: %s", row.Error)
		}
		for _, f := range row.Findings {
			if f.Status != model.StatusOK {
				fmt.Fprintf(&b, ", %s %s (%s)", f.Dimension, f.Status, f.Detail)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\nWrite a 3-4 sentence summary: overall ranking coverage, " +
		"the most common on-page gaps, and which keywords need attention first.")

	return b.String()
}
