package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rankscope/rankscope/internal/model"
)

// Content exposes typed accessors over a fetched page, so the scorer never
// traverses HTML structure itself.
type Content interface {
	Title() string
	MetaDescription() string
	BodyText() string
	Headings() []Heading
}

// Heading is one h1..h6 element in document order.
type Heading struct {
	Level int
	Text  string
}

// Option configures parsing.
type Option func(*htmlContent)

// WithContentSelector restricts BodyText to the elements matching a CSS
// selector, e.g. the site's SEO content block. Invalid selectors surface
// from Parse.
func WithContentSelector(selector string) Option {
	return func(c *htmlContent) { c.contentSelector = selector }
}

// Parse builds Content from a page snapshot. Empty or unparseable content
// yields a *model.ScoringError.
func Parse(snap *model.PageSnapshot, opts ...Option) (Content, error) {
	if snap == nil || strings.TrimSpace(snap.HTML) == "" {
		url := ""
		if snap != nil {
			url = snap.URL
		}
		return nil, &model.ScoringError{URL: url, Reason: "empty page content"}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return nil, &model.ScoringError{URL: snap.URL, Reason: "malformed page content: " + err.Error()}
	}

	c := &htmlContent{doc: doc, url: snap.URL}
	for _, opt := range opts {
		opt(c)
	}

	if c.contentSelector != "" {
		text, err := selectorText(snap.HTML, c.contentSelector)
		if err != nil {
			return nil, &model.ScoringError{URL: snap.URL, Reason: "content selector: " + err.Error()}
		}
		c.selectedText = text
		c.hasSelection = true
	}

	return c, nil
}

type htmlContent struct {
	doc             *goquery.Document
	url             string
	contentSelector string
	selectedText    string
	hasSelection    bool
}

func (c *htmlContent) Title() string {
	return collapseSpace(c.doc.Find("title").First().Text())
}

func (c *htmlContent) MetaDescription() string {
	desc, _ := c.doc.Find(`meta[name="description"]`).First().Attr("content")
	return strings.TrimSpace(desc)
}

// BodyText returns the visible text of the page body, or of the configured
// content block when a selector is set. Script and style text is excluded.
func (c *htmlContent) BodyText() string {
	if c.hasSelection {
		return c.selectedText
	}

	body := c.doc.Find("body")
	if body.Length() == 0 {
		return ""
	}
	return visibleText(body)
}

func (c *htmlContent) Headings() []Heading {
	var headings []Heading

	c.doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		tag := s.Nodes[0].Data // "h1".."h6"
		if len(tag) != 2 {
			return
		}
		level := int(tag[1] - '0')
		if level < 1 || level > 6 {
			return
		}

		text := collapseSpace(s.Text())
		if text == "" {
			return
		}

		headings = append(headings, Heading{Level: level, Text: text})
	})

	return headings
}

// visibleText extracts the rendered text of a selection, skipping script,
// style and noscript subtrees.
func visibleText(sel *goquery.Selection) string {
	cloned := sel.Clone()
	cloned.Find("script, style, noscript, template").Remove()
	return collapseSpace(cloned.Text())
}

// collapseSpace trims and squeezes runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
