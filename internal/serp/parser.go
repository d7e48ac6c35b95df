package serp

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result is one organic entry parsed from a result listing page.
type Result struct {
	URL   string
	Title string
}

// Selectors describes how organic results are located in a listing page.
// The defaults match Google's markup; other engines can be targeted by
// overriding them in the resolver options.
type Selectors struct {
	Container string // one block per organic result
	Heading   string // must be present and non-empty inside the container
	Link      string // anchor carrying the result URL
	AdMarker  string // containers matching this are paid results, skipped
}

// DefaultSelectors returns the Google listing selectors.
func DefaultSelectors() Selectors {
	return Selectors{
		Container: "div.g",
		Heading:   "h3",
		Link:      "a[href]",
		AdMarker:  "[data-text-ad]",
	}
}

// Parser extracts the ordered organic results from a listing page.
type Parser struct {
	sel Selectors
}

// NewParser creates a parser with the given selectors.
func NewParser(sel Selectors) *Parser {
	return &Parser{sel: sel}
}

// Parse returns the organic results of one listing page in document order.
// Blocks without a non-empty heading and paid results are skipped, matching
// how a human would count positions.
func (p *Parser) Parse(htmlContent string) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	var results []Result
	doc.Find(p.sel.Container).Each(func(_ int, s *goquery.Selection) {
		if s.Find(p.sel.AdMarker).Length() > 0 {
			return
		}

		title := strings.TrimSpace(s.Find(p.sel.Heading).First().Text())
		if title == "" {
			return
		}

		href, ok := s.Find(p.sel.Link).First().Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}

		results = append(results, Result{URL: href, Title: title})
	})

	return results, nil
}
