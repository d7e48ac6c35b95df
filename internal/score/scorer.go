package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rankscope/rankscope/internal/model"
	"github.com/rankscope/rankscope/internal/page"
)

// Rubric thresholds. These are fixed, documented constants: statuses are
// judged against them, never inferred from the page being scored.
const (
	// TitleMinLen..TitleMaxLen is the accepted <title> length window.
	TitleMinLen = 45
	TitleMaxLen = 70

	// MetaMinLen..MetaMaxLen is the accepted meta description length window.
	MetaMinLen = 145
	MetaMaxLen = 165

	// MinContentWords is the minimum body word count; below it the content
	// is classified as thin.
	MinContentWords = 250

	// MinKeywordDensity is the minimum share of body words that must belong
	// to the keyword phrase (0.5%).
	MinKeywordDensity = 0.005

	// PlaceholderMarker flags unfinished meta descriptions left by content
	// templates.
	PlaceholderMarker = "✯"
)

// Rubric carries the thresholds the scorer evaluates against. Tests use
// custom rubrics; production code uses DefaultRubric.
type Rubric struct {
	TitleMinLen       int
	TitleMaxLen       int
	MetaMinLen        int
	MetaMaxLen        int
	MinContentWords   int
	MinKeywordDensity float64
}

// DefaultRubric returns the documented default thresholds.
func DefaultRubric() Rubric {
	return Rubric{
		TitleMinLen:       TitleMinLen,
		TitleMaxLen:       TitleMaxLen,
		MetaMinLen:        MetaMinLen,
		MetaMaxLen:        MetaMaxLen,
		MinContentWords:   MinContentWords,
		MinKeywordDensity: MinKeywordDensity,
	}
}

// Scorer evaluates the on-page rubric. Score is a pure function of its
// inputs: identical content and keyword always produce identical findings.
type Scorer struct {
	rubric Rubric
}

// NewScorer creates a scorer with the default rubric.
func NewScorer() *Scorer {
	return NewScorerWithRubric(DefaultRubric())
}

// NewScorerWithRubric creates a scorer with custom thresholds.
func NewScorerWithRubric(r Rubric) *Scorer {
	return &Scorer{rubric: r}
}

// Score evaluates every rubric dimension independently and returns exactly
// one Finding per dimension, sorted by dimension order.
func (s *Scorer) Score(content page.Content, keyword string) []model.Finding {
	findings := []model.Finding{
		s.scoreTitle(content, keyword),
		s.scoreMetaDescription(content),
		s.scoreContent(content, keyword),
		s.scoreHeadings(content, keyword),
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Dimension.Order() < findings[j].Dimension.Order()
	})

	return findings
}

func (s *Scorer) scoreTitle(content page.Content, keyword string) model.Finding {
	title := content.Title()
	if title == "" {
		return model.Finding{
			Dimension: model.DimensionTitle,
			Status:    model.StatusMissing,
			Detail:    "page has no <title>",
		}
	}

	if !ContainsKeyword(title, keyword) {
		return model.Finding{
			Dimension: model.DimensionTitle,
			Status:    model.StatusWeak,
			Detail:    fmt.Sprintf("title does not mention %q", keyword),
		}
	}

	if n := len([]rune(title)); n < s.rubric.TitleMinLen || n > s.rubric.TitleMaxLen {
		return model.Finding{
			Dimension: model.DimensionTitle,
			Status:    model.StatusWeak,
			Detail: fmt.Sprintf("title length %d outside %d-%d characters",
				n, s.rubric.TitleMinLen, s.rubric.TitleMaxLen),
		}
	}

	return model.Finding{
		Dimension: model.DimensionTitle,
		Status:    model.StatusOK,
		Detail:    "title present and mentions the keyword",
	}
}

func (s *Scorer) scoreMetaDescription(content page.Content) model.Finding {
	desc := content.MetaDescription()
	if desc == "" {
		return model.Finding{
			Dimension: model.DimensionMetaDescription,
			Status:    model.StatusMissing,
			Detail:    "meta description tag missing or empty",
		}
	}

	if strings.Contains(desc, PlaceholderMarker) {
		return model.Finding{
			Dimension: model.DimensionMetaDescription,
			Status:    model.StatusWeak,
			Detail:    "meta description contains a placeholder marker",
		}
	}

	if n := len([]rune(desc)); n < s.rubric.MetaMinLen || n > s.rubric.MetaMaxLen {
		return model.Finding{
			Dimension: model.DimensionMetaDescription,
			Status:    model.StatusWeak,
			Detail: fmt.Sprintf("meta description length %d outside %d-%d characters",
				n, s.rubric.MetaMinLen, s.rubric.MetaMaxLen),
		}
	}

	return model.Finding{
		Dimension: model.DimensionMetaDescription,
		Status:    model.StatusOK,
		Detail:    "meta description present within length window",
	}
}

func (s *Scorer) scoreContent(content page.Content, keyword string) model.Finding {
	body := content.BodyText()
	words := strings.Fields(body)
	if len(words) == 0 {
		return model.Finding{
			Dimension: model.DimensionContent,
			Status:    model.StatusMissing,
			Detail:    "no textual content found",
		}
	}

	if len(words) < s.rubric.MinContentWords {
		return model.Finding{
			Dimension: model.DimensionContent,
			Status:    model.StatusWeak,
			Detail: fmt.Sprintf("thin content: %d words, need at least %d",
				len(words), s.rubric.MinContentWords),
		}
	}

	density := keywordDensity(words, keyword)
	if density < s.rubric.MinKeywordDensity {
		return model.Finding{
			Dimension: model.DimensionContent,
			Status:    model.StatusWeak,
			Detail: fmt.Sprintf("keyword density %.2f%% below %.2f%%",
				density*100, s.rubric.MinKeywordDensity*100),
		}
	}

	return model.Finding{
		Dimension: model.DimensionContent,
		Status:    model.StatusOK,
		Detail:    fmt.Sprintf("%d words, keyword density %.2f%%", len(words), density*100),
	}
}

func (s *Scorer) scoreHeadings(content page.Content, keyword string) model.Finding {
	headings := content.Headings()
	if len(headings) == 0 {
		return model.Finding{
			Dimension: model.DimensionHeadings,
			Status:    model.StatusMissing,
			Detail:    "page has no headings",
		}
	}

	hasH1 := false
	keywordInHeading := false
	for _, h := range headings {
		if h.Level == 1 {
			hasH1 = true
		}
		if ContainsKeyword(h.Text, keyword) {
			keywordInHeading = true
		}
	}

	if !hasH1 {
		return model.Finding{
			Dimension: model.DimensionHeadings,
			Status:    model.StatusWeak,
			Detail:    "no h1 heading",
		}
	}

	if !keywordInHeading {
		return model.Finding{
			Dimension: model.DimensionHeadings,
			Status:    model.StatusWeak,
			Detail:    fmt.Sprintf("no heading mentions %q", keyword),
		}
	}

	return model.Finding{
		Dimension: model.DimensionHeadings,
		Status:    model.StatusOK,
		Detail:    "h1 present and a heading mentions the keyword",
	}
}

// ContainsKeyword reports whether text mentions the keyword: either the
// whole phrase, or every keyword term individually. Case-insensitive.
func ContainsKeyword(text, keyword string) bool {
	lowerText := strings.ToLower(text)
	lowerKeyword := strings.ToLower(strings.TrimSpace(keyword))
	if lowerKeyword == "" {
		return false
	}

	if strings.Contains(lowerText, lowerKeyword) {
		return true
	}

	for _, term := range strings.Fields(lowerKeyword) {
		if !strings.Contains(lowerText, term) {
			return false
		}
	}
	return true
}

// keywordDensity is the share of body words belonging to occurrences of the
// keyword phrase. Phrase occurrences are counted over the normalized text,
// then weighted by the phrase's word count.
func keywordDensity(words []string, keyword string) float64 {
	terms := strings.Fields(strings.ToLower(keyword))
	if len(terms) == 0 || len(words) == 0 {
		return 0
	}

	body := strings.ToLower(strings.Join(words, " "))
	phrase := strings.Join(terms, " ")

	occurrences := strings.Count(body, phrase)
	return float64(occurrences*len(terms)) / float64(len(words))
}
