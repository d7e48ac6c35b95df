package serp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rankscope/rankscope/internal/fetch"
	"github.com/rankscope/rankscope/internal/logger"
	"github.com/rankscope/rankscope/internal/model"
	"github.com/rankscope/rankscope/internal/worker"
)

// Resolver resolves a keyword to the rank of the first listing URL whose
// host matches the target domain. It scans listing pages in order, bounded
// by maxPages, accumulating the 1-based ordinal across the concatenated
// listing.
type Resolver struct {
	fetcher       fetch.Fetcher
	parser        *Parser
	limiter       *worker.Limiter
	queryTemplate string
	perPage       int
	log           *logger.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSelectors overrides the listing selectors.
func WithSelectors(sel Selectors) Option {
	return func(r *Resolver) { r.parser = NewParser(sel) }
}

// WithLimiter attaches a rate limiter applied before each listing fetch.
func WithLimiter(l *worker.Limiter) Option {
	return func(r *Resolver) { r.limiter = l }
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// NewResolver creates a resolver. queryTemplate must contain a %s verb for
// the escaped keyword and a %d verb for the 0-based result offset.
func NewResolver(fetcher fetch.Fetcher, queryTemplate string, perPage int, opts ...Option) *Resolver {
	if perPage <= 0 {
		perPage = 10
	}

	r := &Resolver{
		fetcher:       fetcher,
		parser:        NewParser(DefaultSelectors()),
		queryTemplate: queryTemplate,
		perPage:       perPage,
		log:           logger.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve scans up to maxPages listing pages for keyword and returns the
// rank of the first match for targetDomain. A clean miss after maxPages is
// a valid not-found result, not an error. Fetch failures and blocking
// responses surface as *model.FetchError for the caller to handle.
func (r *Resolver) Resolve(ctx context.Context, keyword, targetDomain string, maxPages int) (model.RankResult, error) {
	result := model.RankResult{Keyword: keyword}

	if strings.TrimSpace(keyword) == "" {
		return result, fmt.Errorf("empty keyword")
	}
	if maxPages <= 0 {
		maxPages = 1
	}

	offset := 0
	for page := 0; page < maxPages; page++ {
		listingURL := fmt.Sprintf(r.queryTemplate, url.QueryEscape(keyword), page*r.perPage)

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx, listingURL); err != nil {
				return result, err
			}
		}

		snap, err := r.fetcher.Fetch(ctx, listingURL)
		if err != nil {
			return result, err
		}
		result.PagesScanned = page + 1

		entries, err := r.parser.Parse(snap.HTML)
		if err != nil {
			return result, err
		}

		r.log.Debugf("page %d for %q: %d organic results", page+1, keyword, len(entries))

		// An empty listing page means the engine ran out of results.
		if len(entries) == 0 {
			break
		}

		for i, entry := range entries {
			if MatchesDomain(entry.URL, targetDomain) {
				result.Found = true
				result.Rank = offset + i + 1
				result.MatchedURL = entry.URL
				return result, nil
			}
		}

		offset += len(entries)
	}

	return result, nil
}

// MatchesDomain reports whether the URL's host is targetDomain or one of
// its subdomains. The www prefix is ignored on both sides.
func MatchesDomain(rawURL, targetDomain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(strings.TrimPrefix(parsed.Hostname(), "www."))
	target := strings.ToLower(strings.TrimPrefix(targetDomain, "www."))
	if target == "" {
		return false
	}

	return host == target || strings.HasSuffix(host, "."+target)
}
