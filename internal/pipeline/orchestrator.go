package pipeline

import (
	"context"
	"fmt"

	"github.com/rankscope/rankscope/internal/fetch"
	"github.com/rankscope/rankscope/internal/logger"
	"github.com/rankscope/rankscope/internal/model"
	"github.com/rankscope/rankscope/internal/page"
	"github.com/rankscope/rankscope/internal/sink"
	"github.com/rankscope/rankscope/internal/worker"
)

// RankResolver resolves one keyword to its rank on the result listing.
type RankResolver interface {
	Resolve(ctx context.Context, keyword, targetDomain string, maxPages int) (model.RankResult, error)
}

// PageScorer evaluates the on-page rubric for fetched content.
type PageScorer interface {
	Score(content page.Content, keyword string) []model.Finding
}

// RobotsPolicy decides whether a ranking page may be fetched for scoring.
type RobotsPolicy interface {
	IsAllowed(ctx context.Context, rawURL string) bool
}

// Orchestrator drives the per-keyword pipeline: resolve rank, fetch the
// ranking page, score it, write one row. Keywords are processed strictly
// sequentially; one keyword is fully finished before the next begins.
type Orchestrator struct {
	resolver RankResolver
	fetcher  fetch.Fetcher
	scorer   PageScorer
	sink     sink.Sink
	robots   RobotsPolicy // nil disables the robots check
	pacer    *worker.Pacer
	log      *logger.Logger

	contentSelector string
}

// OrchestratorConfig wires the orchestrator's collaborators.
type OrchestratorConfig struct {
	Resolver        RankResolver
	Fetcher         fetch.Fetcher
	Scorer          PageScorer
	Sink            sink.Sink
	Robots          RobotsPolicy
	Pacer           *worker.Pacer
	Logger          *logger.Logger
	ContentSelector string
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Orchestrator{
		resolver:        cfg.Resolver,
		fetcher:         cfg.Fetcher,
		scorer:          cfg.Scorer,
		sink:            cfg.Sink,
		robots:          cfg.Robots,
		pacer:           cfg.Pacer,
		log:             log,
		contentSelector: cfg.ContentSelector,
	}
}

// Job is one run over an ordered keyword list.
type Job struct {
	Keywords     []string
	TargetDomain string
	MaxPages     int

	// StartIndex restarts the run from a keyword index; earlier keywords
	// get no rows because they were emitted by the previous run.
	StartIndex int

	// Completed marks keywords already finished (resume via the sink's
	// status column); they are skipped without a new row.
	Completed map[string]bool
}

// Run processes the job. Every processed keyword yields exactly one row, in
// input order, whether it ranked, missed, or failed; a per-keyword failure
// is recorded on its row and never aborts the remaining keywords. Only
// context cancellation and sink write failures are fatal.
func (o *Orchestrator) Run(ctx context.Context, job *Job) ([]*model.Row, *model.RunSummary, error) {
	if job.TargetDomain == "" {
		return nil, nil, fmt.Errorf("target domain is required")
	}

	summary := &model.RunSummary{}
	var rows []*model.Row

	for i, keyword := range job.Keywords {
		if i < job.StartIndex {
			continue
		}
		if job.Completed[keyword] {
			o.log.Debugf("skipping %q: already completed", keyword)
			summary.Skipped++
			continue
		}

		// Pause between keywords, not before the first one.
		if len(rows) > 0 && o.pacer != nil {
			if err := o.pacer.Pause(ctx); err != nil {
				return rows, summary, err
			}
		}

		if err := ctx.Err(); err != nil {
			return rows, summary, err
		}

		row := o.processKeyword(ctx, i, keyword, job)

		if err := o.sink.Write(ctx, row); err != nil {
			return rows, summary, fmt.Errorf("write row: %w", err)
		}

		rows = append(rows, row)
		summary.Total++
		switch {
		case row.Error != "":
			summary.Errored++
		case row.Rank.Found:
			summary.Found++
		default:
			summary.NotFound++
		}
	}

	return rows, summary, nil
}

// processKeyword runs the resolve/fetch/score steps for one keyword. All
// failures end up recorded on the returned row.
func (o *Orchestrator) processKeyword(ctx context.Context, index int, keyword string, job *Job) *model.Row {
	row := &model.Row{Index: index, Keyword: keyword}

	o.log.Infof("resolving %q against %s", keyword, job.TargetDomain)

	rank, err := o.resolver.Resolve(ctx, keyword, job.TargetDomain, job.MaxPages)
	row.Rank = rank
	row.Rank.Keyword = keyword
	if err != nil {
		row.Error = err.Error()
		o.log.WithError(err).Warnf("rank resolution failed for %q", keyword)
		return row
	}

	if !rank.Found {
		o.log.Infof("%q: not found within %d pages", keyword, rank.PagesScanned)
		return row
	}

	o.log.Infof("%q: rank %d at %s", keyword, rank.Rank, rank.MatchedURL)

	if o.robots != nil && !o.robots.IsAllowed(ctx, rank.MatchedURL) {
		row.Error = fmt.Sprintf("robots.txt disallows fetching %s", rank.MatchedURL)
		return row
	}

	snap, err := o.fetcher.Fetch(ctx, rank.MatchedURL)
	if err != nil {
		row.Error = err.Error()
		o.log.WithError(err).Warnf("page fetch failed for %q", keyword)
		return row
	}

	var opts []page.Option
	if o.contentSelector != "" {
		opts = append(opts, page.WithContentSelector(o.contentSelector))
	}

	content, err := page.Parse(snap, opts...)
	if err != nil {
		row.Error = err.Error()
		o.log.WithError(err).Warnf("scoring failed for %q", keyword)
		return row
	}

	row.Findings = o.scorer.Score(content, keyword)
	return row
}
