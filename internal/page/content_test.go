package page

import (
	"errors"
	"strings"
	"testing"

	"github.com/rankscope/rankscope/internal/model"
)

const samplePage = `
<html>
<head>
	<title>  Garden Tools   Guide </title>
	<meta name="description" content="Everything about garden tools.">
	<style>body { color: red; }</style>
</head>
<body>
	<h1>Garden Tools</h1>
	<div class="intro">Pick the right tools.</div>
	<article id="content">
		<h2>Pruners</h2>
		<p>Sharp pruners make clean cuts.</p>
		<script>console.log("tracking");</script>
	</article>
	<h3></h3>
</body>
</html>
`

func mustParse(t *testing.T, html string, opts ...Option) Content {
	t.Helper()
	content, err := Parse(&model.PageSnapshot{URL: "https://site.example/", HTML: html}, opts...)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return content
}

func TestParse_Title(t *testing.T) {
	content := mustParse(t, samplePage)
	if got := content.Title(); got != "Garden Tools Guide" {
		t.Errorf("expected collapsed title, got %q", got)
	}
}

func TestParse_MetaDescription(t *testing.T) {
	content := mustParse(t, samplePage)
	if got := content.MetaDescription(); got != "Everything about garden tools." {
		t.Errorf("unexpected meta description %q", got)
	}

	content = mustParse(t, "<html><head></head><body>x</body></html>")
	if got := content.MetaDescription(); got != "" {
		t.Errorf("expected empty meta description, got %q", got)
	}
}

func TestParse_BodyTextExcludesScriptAndStyle(t *testing.T) {
	body := mustParse(t, samplePage).BodyText()

	for _, want := range []string{"Garden Tools", "Pruners", "Sharp pruners make clean cuts."} {
		if !strings.Contains(body, want) {
			t.Errorf("body text missing %q: %q", want, body)
		}
	}
	for _, forbidden := range []string{"console.log", "color: red"} {
		if strings.Contains(body, forbidden) {
			t.Errorf("body text leaked %q: %q", forbidden, body)
		}
	}
}

func TestParse_Headings(t *testing.T) {
	headings := mustParse(t, samplePage).Headings()

	want := []Heading{
		{Level: 1, Text: "Garden Tools"},
		{Level: 2, Text: "Pruners"},
	}
	if len(headings) != len(want) {
		t.Fatalf("expected %d headings, got %d: %v", len(want), len(headings), headings)
	}
	for i := range want {
		if headings[i] != want[i] {
			t.Errorf("heading %d: expected %+v, got %+v", i, want[i], headings[i])
		}
	}
}

func TestParse_ContentSelector(t *testing.T) {
	content := mustParse(t, samplePage, WithContentSelector("#content"))

	body := content.BodyText()
	if !strings.Contains(body, "Sharp pruners make clean cuts.") {
		t.Errorf("selected text missing article content: %q", body)
	}
	if strings.Contains(body, "Pick the right tools.") {
		t.Errorf("selected text leaked content outside the selector: %q", body)
	}
}

func TestParse_ContentSelectorNoMatch(t *testing.T) {
	content := mustParse(t, samplePage, WithContentSelector("#missing"))

	if body := content.BodyText(); body != "" {
		t.Errorf("unmatched selector should yield empty text, got %q", body)
	}
}

func TestParse_InvalidSelector(t *testing.T) {
	_, err := Parse(
		&model.PageSnapshot{URL: "https://site.example/", HTML: samplePage},
		WithContentSelector("[[["),
	)

	var se *model.ScoringError
	if !errors.As(err, &se) {
		t.Fatalf("expected *model.ScoringError, got %v", err)
	}
}

func TestParse_EmptyContent(t *testing.T) {
	tests := []struct {
		name string
		snap *model.PageSnapshot
	}{
		{"nil snapshot", nil},
		{"empty html", &model.PageSnapshot{URL: "https://site.example/", HTML: ""}},
		{"whitespace html", &model.PageSnapshot{URL: "https://site.example/", HTML: "  \n "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.snap)

			var se *model.ScoringError
			if !errors.As(err, &se) {
				t.Fatalf("expected *model.ScoringError, got %v", err)
			}
		})
	}
}
