package analyzer

import (
	"strings"
	"testing"

	"github.com/engineop/analyzer/models"
)

func analysesWithScores(seo, aeo, geo int) (*models.SEOAnalysis, *models.AEOAnalysis, *models.GEOAnalysis) {
	return &models.SEOAnalysis{QualityScore: seo},
		&models.AEOAnalysis{ReadinessScore: aeo},
		&models.GEOAnalysis{StrengthScore: geo}
}

func TestClassifyCombinations(t *testing.T) {
	tests := []struct {
		name           string
		seo, aeo, geo  int
		wantType       models.ContentType
		wantConfidence float64
	}{
		{"all strong", 8, 9, 7, models.TypeAll, 0.9},
		{"seo and aeo", 8, 8, 3, models.TypeSEOAEO, 0.85},
		{"seo and geo", 8, 3, 8, models.TypeSEOGEO, 0.85},
		{"aeo and geo", 3, 8, 8, models.TypeAEOGEO, 0.85},
		{"seo only", 9, 4, 4, models.TypeSEO, 0.8},
		{"aeo only", 4, 9, 4, models.TypeAEO, 0.8},
		{"geo only", 4, 4, 9, models.TypeGEO, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(analysesWithScores(tt.seo, tt.aeo, tt.geo))

			if c.PrimaryType != tt.wantType {
				t.Errorf("Expected primary type %s, got %s", tt.wantType, c.PrimaryType)
			}
			if c.Confidence != tt.wantConfidence {
				t.Errorf("Expected confidence %.2f, got %.2f", tt.wantConfidence, c.Confidence)
			}
			if c.Explanation == "" {
				t.Error("Expected a non-empty explanation")
			}
		})
	}
}

func TestClassifyThresholdBoundary(t *testing.T) {
	// A score of exactly 7 counts as strong; 6 does not.
	strong := Classify(analysesWithScores(7, 1, 1))
	if strong.PrimaryType != models.TypeSEO {
		t.Errorf("Expected score 7 to be strong, got %s", strong.PrimaryType)
	}
	if strong.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8, got %.2f", strong.Confidence)
	}

	weak := Classify(analysesWithScores(6, 1, 1))
	if weak.Confidence != 0.6 {
		t.Errorf("Expected fallback confidence 0.6 for score 6, got %.2f", weak.Confidence)
	}
}

func TestClassifyNoStrongDimension(t *testing.T) {
	c := Classify(analysesWithScores(3, 5, 4))

	if c.PrimaryType != models.TypeAEO {
		t.Errorf("Expected highest-scoring dimension AEO, got %s", c.PrimaryType)
	}
	if c.Confidence != 0.6 {
		t.Errorf("Expected confidence 0.6, got %.2f", c.Confidence)
	}
	if !strings.Contains(c.Explanation, "AEO") {
		t.Errorf("Expected explanation to name AEO, got %q", c.Explanation)
	}
	if !strings.Contains(c.Explanation, "5/10") {
		t.Errorf("Expected explanation to include the score, got %q", c.Explanation)
	}
	if len(c.OverlappingTypes) != 0 {
		t.Errorf("Expected no overlapping types, got %v", c.OverlappingTypes)
	}
}

func TestClassifyTieGoesToSEO(t *testing.T) {
	c := Classify(analysesWithScores(5, 5, 5))

	if c.PrimaryType != models.TypeSEO {
		t.Errorf("Expected SEO to win ties, got %s", c.PrimaryType)
	}
}

func TestClassifyOverlappingTypes(t *testing.T) {
	c := Classify(analysesWithScores(8, 9, 3))

	if len(c.OverlappingTypes) != 2 {
		t.Fatalf("Expected 2 overlapping types, got %v", c.OverlappingTypes)
	}
	if c.OverlappingTypes[0] != models.TypeSEO || c.OverlappingTypes[1] != models.TypeAEO {
		t.Errorf("Expected [seo aeo], got %v", c.OverlappingTypes)
	}
}
