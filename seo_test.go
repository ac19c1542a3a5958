package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/engineop/analyzer/models"
)

func TestAnalyzeSEOFallback(t *testing.T) {
	stub := &stubLLM{err: errors.New("timeout")}
	page := models.PageData{URL: "https://example.com", Title: "Example", WordCount: 500}

	result := AnalyzeSEO(context.Background(), stub, page, nil)

	if result.PrimaryTopic != "Unable to analyze" {
		t.Errorf("Expected fallback topic, got %q", result.PrimaryTopic)
	}
	if result.QualityScore != 5 {
		t.Errorf("Expected neutral fallback score 5, got %d", result.QualityScore)
	}
	if !strings.Contains(result.QualityRationale, "timeout") {
		t.Errorf("Expected the error in the rationale, got %q", result.QualityRationale)
	}
	if len(result.Recommendations) == 0 {
		t.Error("Expected a fallback recommendation")
	}
}

func TestAnalyzeSEOClampsScore(t *testing.T) {
	stub := &stubLLM{seoScore: 15}
	page := models.PageData{URL: "https://example.com", WordCount: 500}

	result := AnalyzeSEO(context.Background(), stub, page, nil)

	if result.QualityScore != 10 {
		t.Errorf("Expected score clamped to 10, got %d", result.QualityScore)
	}
}

func TestBuildSEOContent(t *testing.T) {
	volume := 12000
	difficulty := 45.0
	page := models.PageData{
		URL:             "https://example.com/guide",
		Title:           "The Guide",
		MetaDescription: "A guide to things",
		WordCount:       800,
		Headings: map[string][]string{
			"h1": {"Main"},
			"h2": {"First", "Second"},
		},
		Paragraphs: []string{"First paragraph of the page content."},
	}
	keywords := []models.Keyword{
		{Keyword: "seo tools", Volume: &volume, Difficulty: &difficulty},
		{Keyword: "no volume keyword"},
	}

	content := buildSEOContent(page, keywords)

	for _, want := range []string{
		"URL: https://example.com/guide",
		"Title: The Guide",
		"Meta Description: A guide to things",
		"Word Count: 800",
		"H1: Main",
		"H2: First",
		"First paragraph of the page content.",
		"Target Keywords from CSV:",
		"seo tools (volume: 12000, difficulty: 45)",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected content to contain %q", want)
		}
	}
}

func TestBuildSEOContentNoKeywords(t *testing.T) {
	content := buildSEOContent(models.PageData{URL: "https://example.com"}, nil)

	if strings.Contains(content, "Target Keywords from CSV") {
		t.Error("Expected no keyword section without imported keywords")
	}
	if !strings.Contains(content, "Meta Description: (none)") {
		t.Error("Expected missing meta description rendered as (none)")
	}
}

func TestTopKeywordsByVolume(t *testing.T) {
	v1, v2, v3 := 100, 5000, 2000
	keywords := []models.Keyword{
		{Keyword: "low", Volume: &v1},
		{Keyword: "no volume"},
		{Keyword: "high", Volume: &v2},
		{Keyword: "mid", Volume: &v3},
	}

	top := topKeywordsByVolume(keywords, 2)

	if len(top) != 2 {
		t.Fatalf("Expected 2 keywords, got %d", len(top))
	}
	if top[0].Keyword != "high" || top[1].Keyword != "mid" {
		t.Errorf("Expected highest volume first, got %v", top)
	}
}

func TestWriteParagraphsTruncation(t *testing.T) {
	var b strings.Builder
	long := strings.Repeat("é", 600)

	writeParagraphs(&b, []string{long}, 5, 500)

	out := b.String()
	if !strings.HasSuffix(strings.TrimSpace(out), "...") {
		t.Error("Expected truncated paragraph to end with ellipsis")
	}
	if got := len([]rune(strings.TrimSpace(out))); got != 503 {
		t.Errorf("Expected 500 runes plus ellipsis, got %d", got)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{5, 5},
		{10, 10},
		{11, 10},
	}

	for _, tt := range tests {
		if got := clampScore(tt.in); got != tt.want {
			t.Errorf("clampScore(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
