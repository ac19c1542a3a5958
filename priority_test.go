package analyzer

import (
	"testing"

	"github.com/engineop/analyzer/models"
)

func intPtr(v int) *int { return &v }

func TestCalculatePriorityHighImpactLowEffort(t *testing.T) {
	score := CalculatePriority("Fix missing H1", "structure", "high", "low", nil)

	if score.Score < 70 {
		t.Errorf("Expected high impact + low effort score >= 70, got %d", score.Score)
	}
	if score.Score > 100 {
		t.Errorf("Expected score <= 100, got %d", score.Score)
	}
	if score.Impact != "high" {
		t.Errorf("Expected impact high, got %s", score.Impact)
	}
	if score.Effort != "low" {
		t.Errorf("Expected effort low, got %s", score.Effort)
	}
}

func TestCalculatePriorityLowImpactHighEffort(t *testing.T) {
	high := CalculatePriority("Fix missing H1", "structure", "high", "low", nil)
	low := CalculatePriority("Consider rewriting everything", "geo", "low", "high", nil)

	if low.Score >= high.Score {
		t.Errorf("Expected low impact + high effort (%d) to score below high impact + low effort (%d)",
			low.Score, high.Score)
	}
}

func TestCalculatePriorityCategoryWeights(t *testing.T) {
	structure := CalculatePriority("Fix heading", "structure", "medium", "medium", nil)
	geo := CalculatePriority("Fix heading", "geo", "medium", "medium", nil)

	if structure.Score <= geo.Score {
		t.Errorf("Expected structure (%d) to outrank geo (%d) at equal impact/effort",
			structure.Score, geo.Score)
	}
}

func TestCalculatePriorityKeywordVolumeBonus(t *testing.T) {
	keywords := []models.Keyword{
		{Keyword: "seo tools", Volume: intPtr(10000)},
	}

	score := CalculatePriority("Optimize page for seo tools", "seo", "medium", "medium", keywords)

	if score.KeywordVolume == nil {
		t.Fatal("Expected KeywordVolume to be set")
	}
	if *score.KeywordVolume != 10000 {
		t.Errorf("Expected matched volume 10000, got %d", *score.KeywordVolume)
	}
	if score.Factors["keyword_volume"] != 15 {
		t.Errorf("Expected keyword_volume factor 15, got %d", score.Factors["keyword_volume"])
	}

	noMatch := CalculatePriority("Optimize page for seo tools", "seo", "medium", "medium", nil)
	if score.Score <= noMatch.Score {
		t.Errorf("Expected keyword match (%d) to outscore no match (%d)", score.Score, noMatch.Score)
	}
}

func TestCalculatePriorityVolumeTiers(t *testing.T) {
	tests := []struct {
		volume    int
		wantBonus int
	}{
		{15000, 15},
		{10000, 15},
		{5000, 10},
		{1000, 10},
		{500, 5},
		{100, 5},
		{50, 2},
	}

	for _, tt := range tests {
		keywords := []models.Keyword{{Keyword: "widget", Volume: intPtr(tt.volume)}}
		score := CalculatePriority("Improve widget page", "seo", "medium", "medium", keywords)
		if got := score.Factors["keyword_volume"]; got != tt.wantBonus {
			t.Errorf("volume %d: expected bonus %d, got %d", tt.volume, tt.wantBonus, got)
		}
	}
}

func TestCalculatePriorityFactorsBreakdown(t *testing.T) {
	score := CalculatePriority("Fix title", "seo", "high", "low", nil)

	for _, key := range []string{"impact", "effort", "category", "keyword_volume"} {
		if _, ok := score.Factors[key]; !ok {
			t.Errorf("Expected factors to contain %q", key)
		}
	}

	sum := 0
	for _, v := range score.Factors {
		sum += v
	}
	if sum != score.Score {
		t.Errorf("Expected factors to sum to score %d, got %d", score.Score, sum)
	}
}

func TestCalculatePriorityUnknownValues(t *testing.T) {
	score := CalculatePriority("Do something", "unknown", "unknown", "unknown", nil)

	if score.Factors["impact"] != 20 {
		t.Errorf("Expected default impact factor 20, got %d", score.Factors["impact"])
	}
	if score.Factors["effort"] != 15 {
		t.Errorf("Expected default effort factor 15, got %d", score.Factors["effort"])
	}
	if score.Factors["category"] != 10 {
		t.Errorf("Expected default category factor 10, got %d", score.Factors["category"])
	}
	if score.Score < 1 || score.Score > 100 {
		t.Errorf("Expected score in 1-100, got %d", score.Score)
	}
}

func TestMatchKeywordVolumePicksHighest(t *testing.T) {
	keywords := []models.Keyword{
		{Keyword: "content marketing", Volume: intPtr(500)},
		{Keyword: "content strategy", Volume: intPtr(8000)},
		{Keyword: "unrelated", Volume: intPtr(99999)},
	}

	vol := matchKeywordVolume("Improve content quality", keywords)
	if vol == nil {
		t.Fatal("Expected a matched volume")
	}
	if *vol != 8000 {
		t.Errorf("Expected highest matching volume 8000, got %d", *vol)
	}
}

func TestEstimateImpact(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Add missing H1 tag to the page", "high"},
		{"This is a critical issue", "high"},
		{"Consider adding more examples", "low"},
		{"Improve internal linking", "medium"},
	}

	for _, tt := range tests {
		if got := EstimateImpact(tt.text); got != tt.want {
			t.Errorf("EstimateImpact(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestEstimateEffort(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Add a meta description", "low"},
		{"Restructure the entire site architecture", "high"},
		{"Improve content originality", "medium"},
	}

	for _, tt := range tests {
		if got := EstimateEffort(tt.text); got != tt.want {
			t.Errorf("EstimateEffort(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
