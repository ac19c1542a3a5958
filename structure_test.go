package analyzer

import (
	"strings"
	"testing"

	"github.com/engineop/analyzer/models"
)

func hasIssue(issues []models.StructuralIssue, substr string) *models.StructuralIssue {
	for i := range issues {
		if strings.Contains(issues[i].Issue, substr) {
			return &issues[i]
		}
	}
	return nil
}

func wellFormedPage() models.PageData {
	return models.PageData{
		URL:             "https://example.com/guide",
		Title:           "A Complete Guide to Building Better Web Pages",
		MetaDescription: strings.Repeat("A description of the page content. ", 4),
		Headings: map[string][]string{
			"h1": {"A Complete Guide"},
			"h2": {"Getting Started", "Advanced Topics"},
			"h3": {"Prerequisites"},
		},
		WordCount:       800,
		HasFAQSection:   true,
		HasTLDRSection:  true,
		HasSchemaMarkup: true,
	}
}

func TestAnalyzeStructureCleanPage(t *testing.T) {
	result := AnalyzeStructure(wellFormedPage())

	if len(result.Issues) != 0 {
		t.Errorf("Expected no issues for a well-formed page, got %v", result.Issues)
	}
	if !result.HasH1 || result.H1Count != 1 {
		t.Errorf("Expected single H1, got HasH1=%v H1Count=%d", result.HasH1, result.H1Count)
	}
	if !result.HasMetaDescription {
		t.Error("Expected HasMetaDescription to be true")
	}
	if !result.HeadingStructureValid {
		t.Error("Expected valid heading structure")
	}
}

func TestAnalyzeStructureMissingH1(t *testing.T) {
	page := wellFormedPage()
	delete(page.Headings, "h1")

	result := AnalyzeStructure(page)

	issue := hasIssue(result.Issues, "Missing H1")
	if issue == nil {
		t.Fatal("Expected a missing H1 issue")
	}
	if issue.Severity != models.SeverityHigh {
		t.Errorf("Expected high severity, got %s", issue.Severity)
	}
	if result.HasH1 {
		t.Error("Expected HasH1 to be false")
	}
}

func TestAnalyzeStructureMultipleH1(t *testing.T) {
	page := wellFormedPage()
	page.Headings["h1"] = []string{"First", "Second", "Third"}

	result := AnalyzeStructure(page)

	issue := hasIssue(result.Issues, "Multiple H1 headings found (3)")
	if issue == nil {
		t.Fatal("Expected a multiple H1 issue")
	}
	if issue.Severity != models.SeverityMedium {
		t.Errorf("Expected medium severity, got %s", issue.Severity)
	}
	if result.H1Count != 3 {
		t.Errorf("Expected H1Count 3, got %d", result.H1Count)
	}
}

func TestAnalyzeStructureMetaDescription(t *testing.T) {
	tests := []struct {
		name         string
		meta         string
		wantIssue    string
		wantSeverity models.Severity
	}{
		{"missing", "", "Missing meta description", models.SeverityHigh},
		{"too short", strings.Repeat("a", 69), "too short (69 characters)", models.SeverityMedium},
		{"too long", strings.Repeat("a", 161), "too long (161 characters)", models.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := wellFormedPage()
			page.MetaDescription = tt.meta

			result := AnalyzeStructure(page)

			issue := hasIssue(result.Issues, tt.wantIssue)
			if issue == nil {
				t.Fatalf("Expected issue %q, got %v", tt.wantIssue, result.Issues)
			}
			if issue.Severity != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, issue.Severity)
			}
		})
	}
}

func TestAnalyzeStructureMetaDescriptionBounds(t *testing.T) {
	// Exactly 70 and exactly 160 characters are both acceptable.
	for _, length := range []int{70, 160} {
		page := wellFormedPage()
		page.MetaDescription = strings.Repeat("a", length)

		result := AnalyzeStructure(page)

		if issue := hasIssue(result.Issues, "Meta description"); issue != nil {
			t.Errorf("Expected no meta issue at %d characters, got %q", length, issue.Issue)
		}
	}
}

func TestAnalyzeStructureTitle(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		wantIssue    string
		wantSeverity models.Severity
	}{
		{"missing", "", "Missing page title", models.SeverityCritical},
		{"too short", strings.Repeat("a", 29), "too short (29 characters)", models.SeverityMedium},
		{"too long", strings.Repeat("a", 61), "too long (61 characters)", models.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := wellFormedPage()
			page.Title = tt.title

			result := AnalyzeStructure(page)

			issue := hasIssue(result.Issues, tt.wantIssue)
			if issue == nil {
				t.Fatalf("Expected issue %q, got %v", tt.wantIssue, result.Issues)
			}
			if issue.Severity != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, issue.Severity)
			}
		})
	}
}

func TestAnalyzeStructureSkippedHeadingLevel(t *testing.T) {
	page := wellFormedPage()
	page.Headings = map[string][]string{
		"h1": {"Title"},
		"h2": {"Section"},
		"h4": {"Deep subsection"},
	}

	result := AnalyzeStructure(page)

	issue := hasIssue(result.Issues, "Skipped heading level: H2 to H4")
	if issue == nil {
		t.Fatal("Expected a skipped heading level issue")
	}
	if result.HeadingStructureValid {
		t.Error("Expected HeadingStructureValid to be false")
	}
}

func TestAnalyzeStructureContentLength(t *testing.T) {
	thin := wellFormedPage()
	thin.WordCount = 150

	result := AnalyzeStructure(thin)
	issue := hasIssue(result.Issues, "Thin content (150 words)")
	if issue == nil {
		t.Fatal("Expected a thin content issue")
	}
	if issue.Severity != models.SeverityHigh {
		t.Errorf("Expected high severity, got %s", issue.Severity)
	}

	long := wellFormedPage()
	long.WordCount = 5000
	result = AnalyzeStructure(long)
	if hasIssue(result.Issues, "Very long content (5000 words)") == nil {
		t.Error("Expected a very long content issue")
	}
}

func TestAnalyzeStructureMissingFAQAndSchema(t *testing.T) {
	page := wellFormedPage()
	page.HasFAQSection = false
	page.HasSchemaMarkup = false

	result := AnalyzeStructure(page)

	if hasIssue(result.Issues, "No FAQ section detected") == nil {
		t.Error("Expected a missing FAQ issue")
	}
	schema := hasIssue(result.Issues, "No schema.org markup detected")
	if schema == nil {
		t.Fatal("Expected a missing schema issue")
	}
	if schema.Severity != models.SeverityMedium {
		t.Errorf("Expected medium severity, got %s", schema.Severity)
	}
}

func TestAnalyzeStructureLongContentWithoutSummary(t *testing.T) {
	page := wellFormedPage()
	page.WordCount = 1500
	page.HasTLDRSection = false

	result := AnalyzeStructure(page)

	if hasIssue(result.Issues, "Long content without summary section") == nil {
		t.Error("Expected a missing summary issue for long content")
	}

	// Short content does not need a summary.
	page.WordCount = 800
	result = AnalyzeStructure(page)
	if hasIssue(result.Issues, "Long content without summary section") != nil {
		t.Error("Expected no summary issue for short content")
	}
}
