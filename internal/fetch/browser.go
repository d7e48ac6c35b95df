package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/rankscope/rankscope/internal/model"
)

// BrowserFetcher fetches pages through a real browser via rod. The browser
// session is an explicitly scoped resource: Start before the run, Close
// after, the fetcher passed by reference into the resolver and orchestrator.
type BrowserFetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	stealth  bool
	headless bool
}

// NewBrowserFetcher creates a browser fetcher. Call Start before the first
// Fetch and Close when the run finishes.
func NewBrowserFetcher(cfg model.BrowserConfig) *BrowserFetcher {
	return &BrowserFetcher{
		timeout:  cfg.Timeout,
		stealth:  cfg.Stealth,
		headless: cfg.Headless,
	}
}

// Start launches the browser and connects to it.
func (f *BrowserFetcher) Start() error {
	f.launcher = launcher.New().Headless(f.headless)

	controlURL, err := f.launcher.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	f.browser = rod.New().ControlURL(controlURL)
	if err := f.browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}

	return nil
}

// Close shuts down the browser session.
func (f *BrowserFetcher) Close() error {
	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	if f.launcher != nil {
		f.launcher.Cleanup()
	}
	f.browser = nil
	return err
}

// Fetch navigates a fresh tab to rawURL and returns the rendered HTML. The
// tab is always closed, even on failure, so long runs do not leak pages.
func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error) {
	if f.browser == nil {
		return nil, &model.FetchError{URL: rawURL, Err: fmt.Errorf("browser session not started")}
	}

	page, err := f.newPage()
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: fmt.Errorf("open page: %w", err)}
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.Navigate(rawURL); err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: fmt.Errorf("navigate: %w", err)}
	}

	if err := page.WaitLoad(); err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: fmt.Errorf("wait load: %w", err)}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: fmt.Errorf("read html: %w", err)}
	}

	finalURL := rawURL
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	if blocked := isBlockedDOM(finalURL, html); blocked {
		return nil, &model.FetchError{URL: rawURL, StatusCode: http.StatusTooManyRequests, Blocked: true}
	}

	return &model.PageSnapshot{
		URL:        rawURL,
		FinalURL:   finalURL,
		HTML:       html,
		StatusCode: http.StatusOK,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// newPage opens a blank tab, with stealth scripts injected before any
// navigation when stealth mode is on.
func (f *BrowserFetcher) newPage() (*rod.Page, error) {
	if f.stealth {
		return stealth.Page(f.browser)
	}
	return f.browser.Page(proto.TargetCreateTarget{})
}

// isBlockedDOM detects a challenge interstitial in rendered output.
func isBlockedDOM(finalURL, html string) bool {
	if strings.Contains(finalURL, "/sorry/") {
		return true
	}

	lower := strings.ToLower(html)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}
