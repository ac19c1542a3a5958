package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/engineop/analyzer/models"
)

const geoSystemPrompt = `You are an expert in Generative Engine Optimization (GEO). Analyze the provided webpage content for how it will fare when AI systems (ChatGPT, Claude, Perplexity, AI Overviews) summarize, cite, or absorb it.

Your response must be valid JSON with exactly this structure:
{
    "originality_assessment": "How original and differentiated is this content",
    "citation_worthy_elements": ["element AI systems would cite", "another element"],
    "absorption_risks": ["part of the content AI can fully answer without attribution"],
    "defensibility_suggestions": ["way to make the content harder to absorb"],
    "strength_score": 7,
    "strength_rationale": "Explanation of the score",
    "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
}

Guidelines:
- citation_worthy_elements: Original data, expert quotes, unique frameworks, proprietary research
- absorption_risks: Generic explanations AI can reproduce without citing the source
- defensibility_suggestions: First-party data, tools, community, opinionated takes
- strength_score: 1-10 rating of generative engine strength
- Be specific and actionable in your recommendations.`

// AnalyzeGEO runs the LLM-backed generative engine analysis. Failures
// produce a neutral fallback, never an error.
func AnalyzeGEO(ctx context.Context, client LLMClient, page models.PageData) *models.GEOAnalysis {
	content := buildGEOContent(page)

	var result models.GEOAnalysis
	if err := client.CompleteJSON(ctx, geoSystemPrompt, content, analysisMaxTokens, &result); err != nil {
		return &models.GEOAnalysis{
			OriginalityAssessment:    "Unable to assess",
			CitationWorthyElements:   []string{},
			AbsorptionRisks:          []string{},
			DefensibilitySuggestions: []string{},
			StrengthScore:            fallbackScore,
			StrengthRationale:        fmt.Sprintf("Analysis error: %v", err),
			Recommendations:          []string{"Unable to generate recommendations due to analysis error"},
		}
	}

	result.StrengthScore = clampScore(result.StrengthScore)
	if result.StrengthRationale == "" {
		result.StrengthRationale = "Analysis completed"
	}
	return &result
}

func buildGEOContent(page models.PageData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "URL: %s\n", page.URL)
	fmt.Fprintf(&b, "Title: %s\n", page.Title)
	fmt.Fprintf(&b, "Word Count: %d\n", page.WordCount)
	fmt.Fprintf(&b, "Has Schema Markup: %s\n", boolWord(page.HasSchemaMarkup))

	b.WriteString("\nHeadings:\n")
	writeHeadings(&b, page.Headings, 15)

	b.WriteString("\nContent Sample:\n")
	writeParagraphs(&b, page.Paragraphs, 10, 500)

	return b.String()
}
