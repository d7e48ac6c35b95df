package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rankscope/rankscope/internal/fetch"
	"github.com/rankscope/rankscope/internal/logger"
	"github.com/rankscope/rankscope/internal/model"
	"github.com/rankscope/rankscope/internal/page"
	"github.com/rankscope/rankscope/internal/score"
	"github.com/rankscope/rankscope/internal/serp"
)

var (
	checkDomain   string
	checkMaxPages int
	checkTimeout  time.Duration
	checkNoScore  bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <keyword>",
	Short: "Resolve and audit a single keyword",
	Long: `Check resolves the rank of the target domain for one keyword and, when
it ranks, fetches the page and prints its rubric findings. Useful for
verifying configuration before a full run.

Example:
  rankscope check "running shoes" --domain example.com
  rankscope check "running shoes" --domain example.com --max-pages 5 --no-score`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkDomain, "domain", "", "target domain (required)")
	checkCmd.Flags().IntVar(&checkMaxPages, "max-pages", 3, "listing pages to scan")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&checkNoScore, "no-score", false, "resolve the rank only, skip the page audit")
}

func runCheck(cmd *cobra.Command, args []string) error {
	keyword := args[0]
	if checkDomain == "" {
		return fmt.Errorf("--domain is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	log := logger.New(verbose)

	fetcher := fetch.NewHTTPFetcher(cfg.HTTP)
	resolver := serp.NewResolver(fetcher, cfg.Search.QueryTemplate, cfg.Search.ResultsPerPage,
		serp.WithLogger(log))

	rank, err := resolver.Resolve(ctx, keyword, checkDomain, checkMaxPages)
	if err != nil {
		return fmt.Errorf("resolve rank: %w", err)
	}

	fmt.Printf("keyword:  %q\n", keyword)
	fmt.Printf("rank:     %s\n", rank.RankString())
	if !rank.Found {
		fmt.Printf("scanned:  %d pages\n", rank.PagesScanned)
		return nil
	}
	fmt.Printf("url:      %s\n", rank.MatchedURL)

	if checkNoScore {
		return nil
	}

	snap, err := fetcher.Fetch(ctx, rank.MatchedURL)
	if err != nil {
		return fmt.Errorf("fetch ranking page: %w", err)
	}

	content, err := page.Parse(snap)
	if err != nil {
		return fmt.Errorf("parse ranking page: %w", err)
	}

	fmt.Println("findings:")
	for _, f := range score.NewScorer().Score(content, keyword) {
		fmt.Printf("  %-18s %-8s %s\n", f.Dimension, f.Status, f.Detail)
	}

	return nil
}
