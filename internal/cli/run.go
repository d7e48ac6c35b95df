package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rankscope/rankscope/internal/cache"
	"github.com/rankscope/rankscope/internal/fetch"
	"github.com/rankscope/rankscope/internal/llm"
	"github.com/rankscope/rankscope/internal/logger"
	"github.com/rankscope/rankscope/internal/model"
	"github.com/rankscope/rankscope/internal/pipeline"
	"github.com/rankscope/rankscope/internal/score"
	"github.com/rankscope/rankscope/internal/serp"
	"github.com/rankscope/rankscope/internal/sink"
	"github.com/rankscope/rankscope/internal/util"
	"github.com/rankscope/rankscope/internal/worker"
)

var (
	keywordsFile    string
	targetDomain    string
	maxPages        int
	startIndex      int
	resume          bool
	httpTimeout     time.Duration
	userAgent       string
	maxBytes        int64
	delayMin        time.Duration
	delayMax        time.Duration
	useBrowser      bool
	noStealth       bool
	noHeadless      bool
	csvPath         string
	sheetID         string
	sheetName       string
	credentialsFile string
	noCache         bool
	cacheDir        string
	noRobots        bool
	contentSelector string
	llmProvider     string
	llmModel        string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check ranks and audit ranking pages for a keyword list",
	Long: `Run processes an ordered keyword list: for each keyword it resolves the
rank of the target domain on the result listing, fetches the ranking page,
scores the on-page rubric, and writes one result row.

Keywords are processed sequentially with a jittered pause between lookups
to avoid being blocked. A failure on one keyword is recorded on its row
and never stops the run.

Example:
  rankscope run --keywords keywords.txt --domain example.com
  rankscope run --keywords keywords.txt --domain example.com --sheet-id 1AbC... --resume
  rankscope run --keywords keywords.txt --domain example.com --browser --llm openai`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&keywordsFile, "keywords", "", "keyword list file, one keyword per line (required)")
	runCmd.Flags().StringVar(&targetDomain, "domain", "", "target domain to look for in the listing")
	runCmd.Flags().IntVar(&maxPages, "max-pages", 3, "listing pages to scan per keyword")
	runCmd.Flags().IntVar(&startIndex, "start-index", 0, "restart the run from this keyword index")
	runCmd.Flags().BoolVar(&resume, "resume", false, "skip keywords already marked completed in the sheet")

	runCmd.Flags().DurationVar(&httpTimeout, "timeout", 30*time.Second, "per-fetch timeout")
	runCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	runCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")

	runCmd.Flags().DurationVar(&delayMin, "delay-min", 12*time.Second, "minimum pause between keywords")
	runCmd.Flags().DurationVar(&delayMax, "delay-max", 22*time.Second, "maximum pause between keywords")

	runCmd.Flags().BoolVar(&useBrowser, "browser", false, "fetch through a real browser session")
	runCmd.Flags().BoolVar(&noStealth, "no-stealth", false, "disable stealth scripts in browser mode")
	runCmd.Flags().BoolVar(&noHeadless, "headed", false, "run the browser with a visible window")

	runCmd.Flags().StringVar(&csvPath, "csv", "results.csv", "CSV output path (empty to disable)")
	runCmd.Flags().StringVar(&sheetID, "sheet-id", "", "Google Sheets spreadsheet ID")
	runCmd.Flags().StringVar(&sheetName, "sheet-name", "Results", "worksheet name")
	runCmd.Flags().StringVar(&credentialsFile, "credentials", "", "service account credentials JSON")

	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page snapshot cache")
	runCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "snapshot cache directory (default: $HOME/.rankscope/cache)")
	runCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip the robots.txt check before scoring fetches")
	runCmd.Flags().StringVar(&contentSelector, "content-selector", "", "CSS selector of the content block to score")

	runCmd.Flags().StringVar(&llmProvider, "llm", "", "generate a run summary with this provider (openai, ollama)")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if keywordsFile == "" {
		return fmt.Errorf("--keywords is required")
	}
	if cfg.Search.TargetDomain == "" {
		return fmt.Errorf("--domain is required")
	}

	log := logger.New(cfg.Output.Verbose)

	keywords, err := pipeline.ReadKeywordsFromFile(keywordsFile)
	if err != nil {
		return err
	}
	if startIndex < 0 || startIndex >= len(keywords) {
		return fmt.Errorf("start index %d out of range (have %d keywords)", startIndex, len(keywords))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Fetcher: plain HTTP, or an explicitly scoped browser session.
	var fetcher fetch.Fetcher
	if cfg.Browser.Enabled {
		browser := fetch.NewBrowserFetcher(cfg.Browser)
		if err := browser.Start(); err != nil {
			return fmt.Errorf("start browser: %w", err)
		}
		defer func() { _ = browser.Close() }()
		fetcher = browser
	} else {
		fetcher = fetch.NewHTTPFetcher(cfg.HTTP)
	}

	if cfg.Cache.Enabled {
		store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		fetcher = fetch.NewCachedFetcher(fetcher, store, cfg.Cache.DiskTTL)
	}

	limiter := worker.NewLimiter(cfg.Pacing.RequestsPerSecond, cfg.Pacing.Burst)

	resolver := serp.NewResolver(fetcher, cfg.Search.QueryTemplate, cfg.Search.ResultsPerPage,
		serp.WithLimiter(limiter),
		serp.WithLogger(log),
	)

	var robots pipeline.RobotsPolicy
	if cfg.Robots.Enabled {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.Robots.Timeout)
	}

	resultSink, completed, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = resultSink.Close() }()

	orch := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		Resolver:        resolver,
		Fetcher:         fetcher,
		Scorer:          score.NewScorer(),
		Sink:            resultSink,
		Robots:          robots,
		Pacer:           worker.NewPacer(cfg.Pacing.KeywordDelayMin, cfg.Pacing.KeywordDelayMax),
		Logger:          log,
		ContentSelector: cfg.Search.ContentSelector,
	})

	rows, summary, err := orch.Run(ctx, &pipeline.Job{
		Keywords:     keywords,
		TargetDomain: cfg.Search.TargetDomain,
		MaxPages:     cfg.Search.MaxPages,
		StartIndex:   startIndex,
		Completed:    completed,
	})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if cfg.LLM.Provider != "" {
		attachSummary(ctx, cfg, log, summary, rows)
	}

	printSummary(summary)
	return nil
}

// buildConfig layers defaults, the config file, and flags.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()

	// Config file values apply where the flag was not given.
	applyString := func(flag, key string, dst *string) {
		if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	applyString("domain", "search.target_domain", &targetDomain)
	applyString("sheet-id", "sheets.spreadsheet_id", &sheetID)
	applyString("sheet-name", "sheets.sheet_name", &sheetName)
	applyString("credentials", "sheets.credentials_file", &credentialsFile)
	applyString("content-selector", "search.content_selector", &contentSelector)
	applyString("ua", "http.user_agent", &userAgent)

	cfg.Search.TargetDomain = targetDomain
	cfg.Search.MaxPages = maxPages
	cfg.Search.ContentSelector = contentSelector

	cfg.HTTP.Timeout = httpTimeout
	cfg.HTTP.MaxBodyBytes = maxBytes
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}

	cfg.Browser.Enabled = useBrowser
	cfg.Browser.Stealth = !noStealth
	cfg.Browser.Headless = !noHeadless

	cfg.Pacing.KeywordDelayMin = delayMin
	cfg.Pacing.KeywordDelayMax = delayMax

	cfg.Robots.Enabled = !noRobots

	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}
		cfg.Cache.Dir = home + "/.rankscope/cache"
	}

	cfg.Sheets.SpreadsheetID = sheetID
	cfg.Sheets.SheetName = sheetName
	cfg.Sheets.CredentialsFile = credentialsFile

	cfg.Output.CSVPath = csvPath
	cfg.Output.Verbose = verbose

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

// buildSinks assembles the configured sinks and, when resuming against a
// sheet, the set of keywords already completed.
func buildSinks(ctx context.Context, cfg *model.Config) (sink.Sink, map[string]bool, error) {
	var sinks []sink.Sink
	var completed map[string]bool

	if cfg.Output.CSVPath != "" {
		csvSink, err := sink.NewCSVSink(cfg.Output.CSVPath)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, csvSink)
	}

	if cfg.Sheets.SpreadsheetID != "" {
		sheetsSink, err := sink.NewSheetsSink(ctx, cfg.Sheets)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, sheetsSink)

		if resume {
			done, err := sheetsSink.CompletedKeywords(ctx)
			if err != nil {
				return nil, nil, fmt.Errorf("load completed keywords: %w", err)
			}
			completed = done
		}
	}

	if len(sinks) == 0 {
		return nil, nil, fmt.Errorf("no sink configured: set --csv or --sheet-id")
	}

	return sink.NewMultiSink(sinks...), completed, nil
}

// attachSummary generates the optional LLM run summary. Failures only warn:
// the rows are already written.
func attachSummary(ctx context.Context, cfg *model.Config, log *logger.Logger, summary *model.RunSummary, rows []*model.Row) {
	summarizer, err := llm.NewSummarizer(cfg.LLM)
	if err != nil {
		log.WithError(err).Warn("LLM summarizer unavailable")
		return
	}
	if summarizer == nil {
		return
	}

	text, err := summarizer.Summarize(ctx, cfg.Search.TargetDomain, rows)
	if err != nil {
		log.WithError(err).Warn("LLM summary generation failed")
		return
	}
	summary.LLM = text
}

func printSummary(summary *model.RunSummary) {
	fmt.Printf("\nProcessed %d keywords: %d ranked, %d not found, %d errored",
		summary.Total, summary.Found, summary.NotFound, summary.Errored)
	if summary.Skipped > 0 {
		fmt.Printf(", %d skipped (already completed)", summary.Skipped)
	}
	fmt.Println()

	if summary.LLM != "" {
		fmt.Printf("\n%s\n", summary.LLM)
	}
}
