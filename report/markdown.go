// Package report renders analysis results as Markdown, HTML, CSV and PDF
// documents.
package report

import (
	"fmt"
	"strings"

	"github.com/engineop/analyzer/models"
	"github.com/engineop/analyzer/slug"
)

// Markdown renders the full analysis report as Markdown.
func Markdown(result *models.AnalysisResult) string {
	var b strings.Builder
	multi := len(result.Pages) > 1

	b.WriteString("# SEO/AEO/GEO Analysis Report\n\n")
	fmt.Fprintf(&b, "**URL:** %s\n", result.URL)
	fmt.Fprintf(&b, "**Date:** %s\n", result.Timestamp.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**Mode:** %s\n", modeLabel(result.Mode))
	fmt.Fprintf(&b, "**Pages Analyzed:** %d\n\n", len(result.Pages))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString("### Overall Scores\n\n")
	b.WriteString("| Dimension | Score | Rating |\n")
	b.WriteString("|-----------|-------|--------|\n")
	fmt.Fprintf(&b, "| SEO | %d/10 | %s |\n", result.OverallSEOScore, ScoreRating(result.OverallSEOScore))
	fmt.Fprintf(&b, "| AEO | %d/10 | %s |\n", result.OverallAEOScore, ScoreRating(result.OverallAEOScore))
	fmt.Fprintf(&b, "| GEO | %d/10 | %s |\n\n", result.OverallGEOScore, ScoreRating(result.OverallGEOScore))

	if len(result.Recommendations) > 0 {
		b.WriteString("### Top 10 Priority Recommendations\n\n")
		top := result.Recommendations
		if len(top) > 10 {
			top = top[:10]
		}
		for i, rec := range top {
			fmt.Fprintf(&b, "%d. **%s** (Priority: %d/100)\n", i+1, rec.Title, rec.Priority.Score)
			fmt.Fprintf(&b, "   - %s\n", rec.Description)
			fmt.Fprintf(&b, "   - Category: %s | Impact: %s | Effort: %s\n\n", rec.Category, rec.Priority.Impact, rec.Priority.Effort)
		}
	}

	if multi {
		b.WriteString("## Page-by-Page Analysis\n\n")
	}
	for _, pa := range result.Pages {
		writePageSection(&b, pa, multi)
	}

	b.WriteString("## SEO Findings\n\n")
	for _, pa := range result.Pages {
		if pa.SEO == nil {
			continue
		}
		if multi {
			fmt.Fprintf(&b, "### %s\n\n", pa.Page.URL)
		}
		seo := pa.SEO
		fmt.Fprintf(&b, "**Primary Topic:** %s\n", seo.PrimaryTopic)
		fmt.Fprintf(&b, "**Quality Score:** %d/10\n", seo.QualityScore)
		fmt.Fprintf(&b, "**Rationale:** %s\n\n", seo.QualityRationale)
		writeList(&b, "Current Target Keywords", seo.TargetKeywords)
		writeList(&b, "Keyword Opportunities", seo.MissingKeywords)
		writeList(&b, "Content Gaps", seo.ContentGaps)
		writeList(&b, "Cluster Opportunities", seo.ClusterOpportunities)
	}

	b.WriteString("## AEO Findings\n\n")
	for _, pa := range result.Pages {
		if pa.AEO == nil {
			continue
		}
		if multi {
			fmt.Fprintf(&b, "### %s\n\n", pa.Page.URL)
		}
		aeo := pa.AEO
		fmt.Fprintf(&b, "**Readiness Score:** %d/10\n", aeo.ReadinessScore)
		fmt.Fprintf(&b, "**Rationale:** %s\n", aeo.ReadinessRationale)
		fmt.Fprintf(&b, "**Format Quality:** %s\n", aeo.FormatQuality)
		fmt.Fprintf(&b, "**Featured Snippet Potential:** %s\n\n", aeo.FeaturedSnippetPotential)
		writeList(&b, "Questions Answered", aeo.QuestionsAnswered)
		writeList(&b, "Questions to Add", aeo.QuestionsToAdd)
		writeList(&b, "People Also Ask Opportunities", aeo.PAAOpportunities)
	}

	b.WriteString("## GEO Findings\n\n")
	for _, pa := range result.Pages {
		if pa.GEO == nil {
			continue
		}
		if multi {
			fmt.Fprintf(&b, "### %s\n\n", pa.Page.URL)
		}
		geo := pa.GEO
		fmt.Fprintf(&b, "**Strength Score:** %d/10\n", geo.StrengthScore)
		fmt.Fprintf(&b, "**Rationale:** %s\n", geo.StrengthRationale)
		fmt.Fprintf(&b, "**Originality Assessment:** %s\n\n", geo.OriginalityAssessment)
		writeList(&b, "Citation-Worthy Elements", geo.CitationWorthyElements)
		writeList(&b, "Absorption Risks", geo.AbsorptionRisks)
		writeList(&b, "Defensibility Suggestions", geo.DefensibilitySuggestions)
	}

	b.WriteString("## Structural Issues\n\n")
	hasIssues := false
	for _, pa := range result.Pages {
		if len(pa.Structure.Issues) == 0 {
			continue
		}
		hasIssues = true
		if multi {
			fmt.Fprintf(&b, "### %s\n\n", pa.Page.URL)
		}
		for _, issue := range pa.Structure.Issues {
			fmt.Fprintf(&b, "- **%s** (%s)\n", issue.Issue, issue.Severity)
			fmt.Fprintf(&b, "  - %s\n", issue.Recommendation)
		}
		b.WriteString("\n")
	}
	if !hasIssues {
		b.WriteString("No significant structural issues found.\n\n")
	}

	if len(result.Recommendations) > 0 {
		b.WriteString("## All Recommendations\n\n")
		for _, category := range recommendationCategories(result.Recommendations) {
			fmt.Fprintf(&b, "### %s\n\n", category)
			for _, rec := range result.Recommendations {
				if rec.Category != category {
					continue
				}
				fmt.Fprintf(&b, "- **%s** (Priority: %d)\n", rec.Title, rec.Priority.Score)
				for i, action := range rec.ActionItems {
					if i >= 2 {
						break
					}
					fmt.Fprintf(&b, "  - %s\n", action)
				}
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writePageSection(b *strings.Builder, pa models.PageAnalysis, showURL bool) {
	if showURL {
		fmt.Fprintf(b, "### %s\n\n", pa.Page.URL)
	} else {
		b.WriteString("### Page Overview\n\n")
	}

	title := pa.Page.Title
	if title == "" {
		title = "None"
	}
	fmt.Fprintf(b, "- **Title:** %s\n", title)
	fmt.Fprintf(b, "- **Word Count:** %d\n", pa.Page.WordCount)
	fmt.Fprintf(b, "- **Has FAQ Section:** %s\n", yesNo(pa.Page.HasFAQSection))
	fmt.Fprintf(b, "- **Has Schema Markup:** %s\n", yesNo(pa.Page.HasSchemaMarkup))

	if pa.Classification != nil {
		fmt.Fprintf(b, "- **Content Type:** %s\n", strings.ToUpper(string(pa.Classification.PrimaryType)))
		fmt.Fprintf(b, "- **Classification Confidence:** %.0f%%\n", pa.Classification.Confidence*100)
	}
	b.WriteString("\n")
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// recommendationCategories returns the distinct categories in first-seen
// order.
func recommendationCategories(recs []models.Recommendation) []string {
	var categories []string
	seen := make(map[string]bool)
	for _, rec := range recs {
		if !seen[rec.Category] {
			seen[rec.Category] = true
			categories = append(categories, rec.Category)
		}
	}
	return categories
}

// ScoreRating converts a 1-10 score to a rating label.
func ScoreRating(score int) string {
	switch {
	case score >= 8:
		return "Excellent"
	case score >= 6:
		return "Good"
	case score >= 4:
		return "Fair"
	default:
		return "Needs Work"
	}
}

func modeLabel(mode models.AnalysisMode) string {
	if mode == models.ModeFullSite {
		return "Full Site"
	}
	return "Single Page"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// Filename builds the base report filename for a result, e.g.
// "seo_analysis_example-com_20260829".
func Filename(result *models.AnalysisResult) string {
	host := slug.FromURL(result.URL)
	if host == "" {
		host = "site"
	}
	return fmt.Sprintf("seo_analysis_%s_%s", host, result.Timestamp.Format("20060102"))
}
