package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rankscope/rankscope/internal/model"
	"github.com/rankscope/rankscope/internal/util"
)

// HTTPFetcher fetches pages over plain HTTP. It is the default fetcher;
// BrowserFetcher replaces it when the target requires rendered pages.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewHTTPFetcher creates an HTTP fetcher from config.
func NewHTTPFetcher(cfg model.HTTPConfig) *HTTPFetcher {
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}

	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch retrieves rawURL. The client timeout converts a hang into a
// FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	html := string(body)
	finalURL := resp.Request.URL.String()

	if blocked, status := classifyBlock(resp.StatusCode, finalURL, html); blocked {
		return nil, &model.FetchError{URL: rawURL, StatusCode: status, Blocked: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return &model.PageSnapshot{
		URL:        rawURL,
		FinalURL:   finalURL,
		HTML:       html,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// classifyBlock detects challenge responses: explicit rate limiting, the
// /sorry/ redirect, or challenge markers in the body.
func classifyBlock(statusCode int, finalURL, html string) (bool, int) {
	if statusCode == http.StatusTooManyRequests {
		return true, statusCode
	}
	if strings.Contains(finalURL, "/sorry/") {
		return true, statusCode
	}

	lower := strings.ToLower(html)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true, statusCode
		}
	}

	return false, statusCode
}
