package model

import "time"

// Config is the full runtime configuration. Values are layered from flags,
// RANKSCOPE_* environment variables, the config file, and these defaults.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	HTTP    HTTPConfig    `yaml:"http"`
	Browser BrowserConfig `yaml:"browser"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Robots  RobotsConfig  `yaml:"robots"`
	Cache   CacheConfig   `yaml:"cache"`
	Sheets  SheetsConfig  `yaml:"sheets"`
	Output  OutputConfig  `yaml:"output"`
	LLM     LLMConfig     `yaml:"llm"`
}

// SearchConfig controls how result listings are queried.
type SearchConfig struct {
	// QueryTemplate builds a listing page URL. First verb is the escaped
	// keyword, second is the 0-based result offset.
	QueryTemplate   string `yaml:"query_template"`
	ResultsPerPage  int    `yaml:"results_per_page"` // offset step between pages
	MaxPages        int    `yaml:"max_pages"`        // bound on listing pages scanned per keyword
	TargetDomain    string `yaml:"target_domain"`
	ContentSelector string `yaml:"content_selector"` // optional CSS selector for the scored content block
}

// HTTPConfig controls the plain HTTP fetcher.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// BrowserConfig controls the optional rod-based browser fetcher. The browser
// session is acquired once per run and released afterwards.
type BrowserConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Stealth  bool          `yaml:"stealth"`
	Headless bool          `yaml:"headless"`
	Timeout  time.Duration `yaml:"timeout"`
}

// PacingConfig controls request pacing. Keyword processing is strictly
// sequential; the delay bounds add a jittered pause between keywords on top
// of the per-domain rate limiter.
type PacingConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	KeywordDelayMin   time.Duration `yaml:"keyword_delay_min"`
	KeywordDelayMax   time.Duration `yaml:"keyword_delay_max"`
}

// RobotsConfig controls the robots.txt check applied before fetching a
// ranking page for scoring.
type RobotsConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig controls the page snapshot cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// SheetsConfig controls the Google Sheets result sink.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	SheetName       string `yaml:"sheet_name"`
	CredentialsFile string `yaml:"credentials_file"`
}

// OutputConfig controls local output.
type OutputConfig struct {
	CSVPath string `yaml:"csv_path"`
	Verbose bool   `yaml:"verbose"`
}

// LLMConfig controls the optional run summary. The summary is generated
// after all rows are produced and never affects findings.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai", "ollama", or "" for disabled
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"` // from env only, never written to config files
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			QueryTemplate:  "https://www.google.com/search?q=%s&start=%d",
			ResultsPerPage: 10,
			MaxPages:       3,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Rankscope/0.2 (+https://github.com/rankscope/rankscope)",
			MaxBodyBytes: 2_000_000,
		},
		Browser: BrowserConfig{
			Enabled:  false,
			Stealth:  true,
			Headless: true,
			Timeout:  60 * time.Second,
		},
		Pacing: PacingConfig{
			RequestsPerSecond: 0.5,
			Burst:             1,
			KeywordDelayMin:   12 * time.Second,
			KeywordDelayMax:   22 * time.Second,
		},
		Robots: RobotsConfig{
			Enabled: true,
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Sheets: SheetsConfig{
			SheetName: "Results",
		},
		Output: OutputConfig{
			CSVPath: "results.csv",
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 600,
		},
	}
}
