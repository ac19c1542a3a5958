package analyzer

import (
	"fmt"

	"github.com/engineop/analyzer/models"
)

// Structural thresholds. Meta description and title bounds follow the
// lengths search engines display without truncation.
const (
	metaDescriptionMin = 70
	metaDescriptionMax = 160
	titleMin           = 30
	titleMax           = 60
	thinContentWords   = 300
	longContentWords   = 3000
	summaryWords       = 1000
)

// AnalyzeStructure runs the rule-based structural checks against a page.
func AnalyzeStructure(page models.PageData) models.StructureAnalysis {
	var issues []models.StructuralIssue

	h1s := page.Headings["h1"]
	h1Count := len(h1s)

	switch {
	case h1Count == 0:
		issues = append(issues, models.StructuralIssue{
			Issue:          "Missing H1 heading",
			Severity:       models.SeverityHigh,
			Recommendation: "Add a clear, descriptive H1 heading that includes your primary keyword",
		})
	case h1Count > 1:
		issues = append(issues, models.StructuralIssue{
			Issue:          fmt.Sprintf("Multiple H1 headings found (%d)", h1Count),
			Severity:       models.SeverityMedium,
			Recommendation: "Use only one H1 heading per page. Convert secondary H1s to H2s",
		})
	}

	metaLength := len(page.MetaDescription)
	hasMeta := metaLength > 0

	switch {
	case !hasMeta:
		issues = append(issues, models.StructuralIssue{
			Issue:          "Missing meta description",
			Severity:       models.SeverityHigh,
			Recommendation: "Add a compelling meta description (150-160 characters) that summarizes the page content",
		})
	case metaLength < metaDescriptionMin:
		issues = append(issues, models.StructuralIssue{
			Issue:          fmt.Sprintf("Meta description too short (%d characters)", metaLength),
			Severity:       models.SeverityMedium,
			Recommendation: "Expand meta description to 150-160 characters for optimal display in search results",
		})
	case metaLength > metaDescriptionMax:
		issues = append(issues, models.StructuralIssue{
			Issue:          fmt.Sprintf("Meta description too long (%d characters)", metaLength),
			Severity:       models.SeverityLow,
			Recommendation: "Trim meta description to under 160 characters to avoid truncation in search results",
		})
	}

	// Heading hierarchy: flag skipped levels (e.g. H2 followed by H4)
	headingValid := true
	prevLevel := 0
	for level := 1; level <= 6; level++ {
		tag := fmt.Sprintf("h%d", level)
		if len(page.Headings[tag]) == 0 {
			continue
		}
		if prevLevel > 0 && level > prevLevel+1 {
			headingValid = false
			issues = append(issues, models.StructuralIssue{
				Issue:          fmt.Sprintf("Skipped heading level: H%d to H%d", prevLevel, level),
				Severity:       models.SeverityLow,
				Recommendation: fmt.Sprintf("Use H%d before H%d to maintain proper document structure", prevLevel+1, level),
			})
		}
		prevLevel = level
	}

	switch {
	case page.WordCount < thinContentWords:
		issues = append(issues, models.StructuralIssue{
			Issue:          fmt.Sprintf("Thin content (%d words)", page.WordCount),
			Severity:       models.SeverityHigh,
			Recommendation: "Expand content to at least 300 words. Consider adding more detailed information, examples, or FAQs",
		})
	case page.WordCount > longContentWords:
		issues = append(issues, models.StructuralIssue{
			Issue:          fmt.Sprintf("Very long content (%d words)", page.WordCount),
			Severity:       models.SeverityLow,
			Recommendation: "Consider breaking into multiple pages or adding a table of contents and summary section",
		})
	}

	if !page.HasFAQSection {
		issues = append(issues, models.StructuralIssue{
			Issue:          "No FAQ section detected",
			Severity:       models.SeverityLow,
			Recommendation: "Consider adding an FAQ section to answer common questions and improve AEO",
		})
	}

	if page.WordCount > summaryWords && !page.HasTLDRSection {
		issues = append(issues, models.StructuralIssue{
			Issue:          "Long content without summary section",
			Severity:       models.SeverityLow,
			Recommendation: "Add a TL;DR or key takeaways section at the top for long-form content",
		})
	}

	if !page.HasSchemaMarkup {
		issues = append(issues, models.StructuralIssue{
			Issue:          "No schema.org markup detected",
			Severity:       models.SeverityMedium,
			Recommendation: "Add structured data (JSON-LD) to help search engines understand your content",
		})
	}

	titleLength := len(page.Title)
	switch {
	case titleLength == 0:
		issues = append(issues, models.StructuralIssue{
			Issue:          "Missing page title",
			Severity:       models.SeverityCritical,
			Recommendation: "Add a descriptive title tag that includes your primary keyword",
		})
	case titleLength < titleMin:
		issues = append(issues, models.StructuralIssue{
			Issue:          fmt.Sprintf("Title tag too short (%d characters)", titleLength),
			Severity:       models.SeverityMedium,
			Recommendation: "Expand title to 50-60 characters for better CTR in search results",
		})
	case titleLength > titleMax:
		issues = append(issues, models.StructuralIssue{
			Issue:          fmt.Sprintf("Title tag too long (%d characters)", titleLength),
			Severity:       models.SeverityLow,
			Recommendation: "Shorten title to under 60 characters to avoid truncation in search results",
		})
	}

	return models.StructureAnalysis{
		Issues:                issues,
		HasH1:                 h1Count > 0,
		H1Count:               h1Count,
		HasMetaDescription:    hasMeta,
		MetaDescriptionLength: metaLength,
		WordCount:             page.WordCount,
		HeadingStructureValid: headingValid,
	}
}
