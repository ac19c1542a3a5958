package analyzer

import (
	"context"
	"fmt"
	"strings"
)

const (
	// analysisMaxTokens bounds each LLM completion.
	analysisMaxTokens = 2000

	// fallbackScore is reported when an LLM analysis fails.
	fallbackScore = 5

	// minWordsForLLM is the threshold below which pages are too thin to
	// send to the LLM at all.
	minWordsForLLM = 50
)

// LLMClient is the completion surface the analyzers need. *llm.Client
// satisfies it; tests substitute a stub.
type LLMClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, content string, maxTokens int, v interface{}) error
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// writeHeadings writes up to perLevel headings for each level h1..h6, in
// level order so prompts are deterministic.
func writeHeadings(b *strings.Builder, headings map[string][]string, perLevel int) {
	for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		texts := headings[level]
		if len(texts) == 0 {
			continue
		}
		if len(texts) > perLevel {
			texts = texts[:perLevel]
		}
		for _, text := range texts {
			fmt.Fprintf(b, "  %s: %s\n", strings.ToUpper(level), text)
		}
	}
}

// writeParagraphs writes up to n paragraphs, each truncated to maxLen runes.
func writeParagraphs(b *strings.Builder, paragraphs []string, n, maxLen int) {
	if len(paragraphs) > n {
		paragraphs = paragraphs[:n]
	}
	for _, p := range paragraphs {
		runes := []rune(p)
		if len(runes) > maxLen {
			p = string(runes[:maxLen]) + "..."
		}
		fmt.Fprintf(b, "  %s\n", p)
	}
}

func boolWord(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
