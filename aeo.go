package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/engineop/analyzer/models"
)

const aeoSystemPrompt = `You are an expert in Answer Engine Optimization (AEO). Analyze the provided webpage content for its ability to answer user questions directly and rank in answer boxes, featured snippets, and voice search results.

Your response must be valid JSON with exactly this structure:
{
    "questions_answered": ["question the content currently answers"],
    "questions_to_add": ["question the content should answer but doesn't"],
    "paa_opportunities": ["People Also Ask style question to target"],
    "featured_snippet_potential": "Assessment of featured snippet opportunities",
    "format_quality": "Assessment of answer-friendly formatting (lists, tables, direct answers)",
    "readiness_score": 7,
    "readiness_rationale": "Explanation of the score",
    "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
}

Guidelines:
- questions_answered: Explicit or implicit questions the content addresses
- questions_to_add: Related questions users ask that this content misses
- paa_opportunities: Questions likely to appear in "People Also Ask" boxes
- readiness_score: 1-10 rating of answer engine readiness
- Consider FAQ sections, direct answer paragraphs, question-format headings
- Be specific and actionable in your recommendations.`

// AnalyzeAEO runs the LLM-backed answer engine optimization analysis.
// Failures produce a neutral fallback, never an error.
func AnalyzeAEO(ctx context.Context, client LLMClient, page models.PageData) *models.AEOAnalysis {
	content := buildAEOContent(page)

	var result models.AEOAnalysis
	if err := client.CompleteJSON(ctx, aeoSystemPrompt, content, analysisMaxTokens, &result); err != nil {
		return &models.AEOAnalysis{
			QuestionsAnswered:        []string{},
			QuestionsToAdd:           []string{},
			PAAOpportunities:         []string{},
			FeaturedSnippetPotential: "Unable to assess",
			FormatQuality:            "Unable to assess",
			ReadinessScore:           fallbackScore,
			ReadinessRationale:       fmt.Sprintf("Analysis error: %v", err),
			Recommendations:          []string{"Unable to generate recommendations due to analysis error"},
		}
	}

	result.ReadinessScore = clampScore(result.ReadinessScore)
	if result.ReadinessRationale == "" {
		result.ReadinessRationale = "Analysis completed"
	}
	return &result
}

func buildAEOContent(page models.PageData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "URL: %s\n", page.URL)
	fmt.Fprintf(&b, "Title: %s\n", page.Title)
	fmt.Fprintf(&b, "Meta Description: %s\n", orNone(page.MetaDescription))
	fmt.Fprintf(&b, "Has FAQ Section: %s\n", boolWord(page.HasFAQSection))
	fmt.Fprintf(&b, "Has TL;DR/Summary: %s\n", boolWord(page.HasTLDRSection))
	fmt.Fprintf(&b, "Has Schema Markup: %s\n", boolWord(page.HasSchemaMarkup))

	b.WriteString("\nHeadings:\n")
	writeHeadings(&b, page.Headings, 15)

	b.WriteString("\nContent Sample:\n")
	writeParagraphs(&b, page.Paragraphs, 8, 400)

	return b.String()
}
