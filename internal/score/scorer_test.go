package score

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rankscope/rankscope/internal/model"
	"github.com/rankscope/rankscope/internal/page"
)

// stubContent is a hand-built page used to drive each rubric dimension.
type stubContent struct {
	title    string
	meta     string
	body     string
	headings []page.Heading
}

func (s *stubContent) Title() string           { return s.title }
func (s *stubContent) MetaDescription() string { return s.meta }
func (s *stubContent) BodyText() string        { return s.body }
func (s *stubContent) Headings() []page.Heading {
	return s.headings
}

// goodPage passes every dimension for the keyword "garden tools".
func goodPage() *stubContent {
	return &stubContent{
		title: "Garden Tools Buying Guide: Picks for Every Budget in 2026",
		meta: "Compare the best garden tools for home use. Our guide covers pruners, " +
			"spades and trowels with prices, durability notes and care tips so you " +
			"can pick the right set.",
		body: strings.Repeat("garden tools ", 150),
		headings: []page.Heading{
			{Level: 1, Text: "The Garden Tools Guide"},
			{Level: 2, Text: "How we tested"},
		},
	}
}

func statusFor(t *testing.T, findings []model.Finding, dim model.Dimension) model.Finding {
	t.Helper()
	for _, f := range findings {
		if f.Dimension == dim {
			return f
		}
	}
	t.Fatalf("no finding for dimension %s", dim)
	return model.Finding{}
}

func TestScore_AllDimensionsOK(t *testing.T) {
	findings := NewScorer().Score(goodPage(), "garden tools")

	if len(findings) != 4 {
		t.Fatalf("expected 4 findings, got %d", len(findings))
	}
	for _, f := range findings {
		if f.Status != model.StatusOK {
			t.Errorf("dimension %s: expected ok, got %s (%s)", f.Dimension, f.Status, f.Detail)
		}
	}
}

func TestScore_FindingsSortedByDimension(t *testing.T) {
	findings := NewScorer().Score(goodPage(), "garden tools")

	want := []model.Dimension{
		model.DimensionTitle,
		model.DimensionMetaDescription,
		model.DimensionContent,
		model.DimensionHeadings,
	}
	for i, dim := range want {
		if findings[i].Dimension != dim {
			t.Errorf("position %d: expected %s, got %s", i, dim, findings[i].Dimension)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	scorer := NewScorer()
	first := scorer.Score(goodPage(), "garden tools")
	second := scorer.Score(goodPage(), "garden tools")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different findings:\n%v\n%v", first, second)
	}
}

func TestScoreTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  model.FindingStatus
	}{
		{"missing", "", model.StatusMissing},
		{"no keyword", strings.Repeat("x", 50), model.StatusWeak},
		{"too short", "Garden tools", model.StatusWeak},
		{"too long", "Garden tools " + strings.Repeat("and more tools ", 6), model.StatusWeak},
		{"in window", "Garden Tools Buying Guide: Picks for Every Budget", model.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := goodPage()
			content.title = tt.title

			f := statusFor(t, NewScorer().Score(content, "garden tools"), model.DimensionTitle)
			if f.Status != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, f.Status, f.Detail)
			}
		})
	}
}

func TestScoreTitle_LengthBoundaries(t *testing.T) {
	// 45 and 70 runes are inside the window, 44 and 71 are outside.
	base := "garden tools "
	pad := func(n int) string {
		return base + strings.Repeat("x", n-len(base))
	}

	tests := []struct {
		length int
		want   model.FindingStatus
	}{
		{44, model.StatusWeak},
		{45, model.StatusOK},
		{70, model.StatusOK},
		{71, model.StatusWeak},
	}

	for _, tt := range tests {
		content := goodPage()
		content.title = pad(tt.length)

		f := statusFor(t, NewScorer().Score(content, "garden tools"), model.DimensionTitle)
		if f.Status != tt.want {
			t.Errorf("title length %d: expected %s, got %s", tt.length, tt.want, f.Status)
		}
	}
}

func TestScoreMetaDescription(t *testing.T) {
	inWindow := strings.Repeat("d", 150)

	tests := []struct {
		name string
		meta string
		want model.FindingStatus
	}{
		{"missing", "", model.StatusMissing},
		{"placeholder", inWindow[:100] + PlaceholderMarker + inWindow[:49], model.StatusWeak},
		{"too short", strings.Repeat("d", 144), model.StatusWeak},
		{"too long", strings.Repeat("d", 166), model.StatusWeak},
		{"lower bound", strings.Repeat("d", 145), model.StatusOK},
		{"upper bound", strings.Repeat("d", 165), model.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := goodPage()
			content.meta = tt.meta

			f := statusFor(t, NewScorer().Score(content, "garden tools"), model.DimensionMetaDescription)
			if f.Status != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, f.Status, f.Detail)
			}
		})
	}
}

func TestScoreContent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.FindingStatus
	}{
		{"empty", "", model.StatusMissing},
		{"whitespace only", "   \n\t  ", model.StatusMissing},
		{"thin", strings.Repeat("garden tools ", 50), model.StatusWeak},
		{"low density", strings.Repeat("filler words here now ", 100), model.StatusWeak},
		{"healthy", strings.Repeat("garden tools ", 150), model.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := goodPage()
			content.body = tt.body

			f := statusFor(t, NewScorer().Score(content, "garden tools"), model.DimensionContent)
			if f.Status != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, f.Status, f.Detail)
			}
		})
	}
}

func TestScoreHeadings(t *testing.T) {
	tests := []struct {
		name     string
		headings []page.Heading
		want     model.FindingStatus
	}{
		{"none", nil, model.StatusMissing},
		{"no h1", []page.Heading{{Level: 2, Text: "Garden tools"}}, model.StatusWeak},
		{"keyword absent", []page.Heading{{Level: 1, Text: "Welcome"}}, model.StatusWeak},
		{"h1 with keyword", []page.Heading{{Level: 1, Text: "Garden tools guide"}}, model.StatusOK},
		{
			"keyword in lower heading",
			[]page.Heading{{Level: 1, Text: "Welcome"}, {Level: 3, Text: "Best garden tools"}},
			model.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := goodPage()
			content.headings = tt.headings

			f := statusFor(t, NewScorer().Score(content, "garden tools"), model.DimensionHeadings)
			if f.Status != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, f.Status, f.Detail)
			}
		})
	}
}

func TestScorerWithRubric(t *testing.T) {
	rubric := DefaultRubric()
	rubric.MinContentWords = 10

	content := goodPage()
	content.body = strings.Repeat("garden tools ", 6) // 12 words

	f := statusFor(t, NewScorerWithRubric(rubric).Score(content, "garden tools"), model.DimensionContent)
	if f.Status != model.StatusOK {
		t.Errorf("expected ok under relaxed rubric, got %s (%s)", f.Status, f.Detail)
	}
}

func TestContainsKeyword(t *testing.T) {
	tests := []struct {
		text    string
		keyword string
		want    bool
	}{
		{"Best Garden Tools of 2026", "garden tools", true},
		{"Tools for your garden", "garden tools", true}, // all terms present
		{"Tools for the workshop", "garden tools", false},
		{"GARDEN TOOLS", "garden tools", true},
		{"anything", "", false},
		{"anything", "   ", false},
	}

	for _, tt := range tests {
		if got := ContainsKeyword(tt.text, tt.keyword); got != tt.want {
			t.Errorf("ContainsKeyword(%q, %q) = %v, want %v", tt.text, tt.keyword, got, tt.want)
		}
	}
}

func TestKeywordDensity(t *testing.T) {
	words := strings.Fields("garden tools are great garden tools last long filler filler")

	got := keywordDensity(words, "garden tools")
	want := 4.0 / 10.0
	if got != want {
		t.Errorf("expected density %.2f, got %.2f", want, got)
	}

	if d := keywordDensity(words, ""); d != 0 {
		t.Errorf("empty keyword should have zero density, got %.2f", d)
	}
}
