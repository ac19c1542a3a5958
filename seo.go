package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/engineop/analyzer/models"
)

const seoSystemPrompt = `You are an expert SEO analyst. Analyze the provided webpage content and return a JSON response with your SEO analysis.

Your response must be valid JSON with exactly this structure:
{
    "primary_topic": "The main topic/subject of the content",
    "target_keywords": ["keyword1", "keyword2", "keyword3"],
    "missing_keywords": ["potential keyword 1", "potential keyword 2"],
    "content_gaps": ["gap 1", "gap 2"],
    "cluster_opportunities": ["related topic 1", "related topic 2"],
    "quality_score": 7,
    "quality_rationale": "Explanation of the score",
    "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
}

Guidelines:
- target_keywords: Keywords the content is currently optimized for
- missing_keywords: High-value keywords that should be added
- content_gaps: Topics or subtopics that are missing but should be covered
- cluster_opportunities: Related content pieces that could link to this page
- quality_score: 1-10 rating of overall SEO quality
- recommendations: Specific, actionable SEO improvements

If keyword data is provided, prioritize keywords with high volume and low difficulty.
Be specific and actionable in your recommendations.`

// AnalyzeSEO runs the LLM-backed SEO analysis for a page. On LLM failure a
// neutral fallback analysis is returned rather than an error, so one failed
// dimension never sinks the whole run.
func AnalyzeSEO(ctx context.Context, client LLMClient, page models.PageData, keywords []models.Keyword) *models.SEOAnalysis {
	content := buildSEOContent(page, keywords)

	var result models.SEOAnalysis
	if err := client.CompleteJSON(ctx, seoSystemPrompt, content, analysisMaxTokens, &result); err != nil {
		return &models.SEOAnalysis{
			PrimaryTopic:         "Unable to analyze",
			TargetKeywords:       []string{},
			MissingKeywords:      []string{},
			ContentGaps:          []string{},
			ClusterOpportunities: []string{},
			QualityScore:         fallbackScore,
			QualityRationale:     fmt.Sprintf("Analysis error: %v", err),
			Recommendations:      []string{"Unable to generate recommendations due to analysis error"},
		}
	}

	result.QualityScore = clampScore(result.QualityScore)
	if result.PrimaryTopic == "" {
		result.PrimaryTopic = "Unknown"
	}
	if result.QualityRationale == "" {
		result.QualityRationale = "Analysis completed"
	}
	return &result
}

// buildSEOContent assembles the prompt content from page data and imported
// keywords: headings, a bounded content sample, and the top keywords by
// search volume.
func buildSEOContent(page models.PageData, keywords []models.Keyword) string {
	var b strings.Builder

	fmt.Fprintf(&b, "URL: %s\n", page.URL)
	fmt.Fprintf(&b, "Title: %s\n", page.Title)
	fmt.Fprintf(&b, "Meta Description: %s\n", orNone(page.MetaDescription))
	fmt.Fprintf(&b, "Word Count: %d\n", page.WordCount)

	b.WriteString("\nHeadings:\n")
	writeHeadings(&b, page.Headings, 10)

	b.WriteString("\nContent Summary (first 5 paragraphs):\n")
	writeParagraphs(&b, page.Paragraphs, 5, 500)

	if len(keywords) > 0 {
		b.WriteString("\nTarget Keywords from CSV:\n")
		for _, kw := range topKeywordsByVolume(keywords, 20) {
			fmt.Fprintf(&b, "  - %s", kw.Keyword)
			if kw.Volume != nil {
				fmt.Fprintf(&b, " (volume: %d", *kw.Volume)
				if kw.Difficulty != nil {
					fmt.Fprintf(&b, ", difficulty: %g", *kw.Difficulty)
				}
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// topKeywordsByVolume returns up to n keywords with volume data, highest
// volume first.
func topKeywordsByVolume(keywords []models.Keyword, n int) []models.Keyword {
	withVolume := make([]models.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		if kw.Volume != nil {
			withVolume = append(withVolume, kw)
		}
	}
	sort.SliceStable(withVolume, func(i, j int) bool {
		return *withVolume[i].Volume > *withVolume[j].Volume
	})
	if len(withVolume) > n {
		withVolume = withVolume[:n]
	}
	return withVolume
}
