package analyzer

import (
	"strings"

	"github.com/engineop/analyzer/models"
)

// Priority factor weight tables. Impact dominates, effort is inverted (quick
// wins rank higher), and structural fixes get the largest category weight
// since they tend to have the highest ROI.
var (
	impactScores = map[string]int{"high": 40, "medium": 25, "low": 10}
	effortScores = map[string]int{"low": 30, "medium": 20, "high": 10}

	categoryScores = map[string]int{
		"structure": 15,
		"seo":       12,
		"aeo":       10,
		"geo":       8,
	}
)

const (
	defaultImpactScore   = 20
	defaultEffortScore   = 15
	defaultCategoryScore = 10
)

// CalculatePriority computes the 1-100 priority score for a recommendation.
// When keyword data is supplied, recommendations whose title matches an
// imported keyword earn a volume bonus.
func CalculatePriority(title, category, impact, effort string, keywords []models.Keyword) models.PriorityScore {
	factors := make(map[string]int, 4)

	impactScore, ok := impactScores[strings.ToLower(impact)]
	if !ok {
		impactScore = defaultImpactScore
	}
	factors["impact"] = impactScore

	effortScore, ok := effortScores[strings.ToLower(effort)]
	if !ok {
		effortScore = defaultEffortScore
	}
	factors["effort"] = effortScore

	categoryScore, ok := categoryScores[strings.ToLower(category)]
	if !ok {
		categoryScore = defaultCategoryScore
	}
	factors["category"] = categoryScore

	maxVolume := matchKeywordVolume(title, keywords)
	factors["keyword_volume"] = volumeBonus(maxVolume)

	total := 0
	for _, v := range factors {
		total += v
	}
	if total < 1 {
		total = 1
	}
	if total > 100 {
		total = 100
	}

	return models.PriorityScore{
		Score:         total,
		Impact:        impact,
		Effort:        effort,
		KeywordVolume: maxVolume,
		Factors:       factors,
	}
}

// matchKeywordVolume finds the highest search volume among keywords related
// to the recommendation title. A keyword matches when it appears as a
// substring of the title, or when any of its words does.
func matchKeywordVolume(title string, keywords []models.Keyword) *int {
	titleLower := strings.ToLower(title)
	var maxVolume *int

	for _, kw := range keywords {
		if kw.Volume == nil {
			continue
		}

		kwLower := strings.ToLower(kw.Keyword)
		matched := strings.Contains(titleLower, kwLower)
		if !matched {
			for _, word := range strings.Fields(kwLower) {
				if strings.Contains(titleLower, word) {
					matched = true
					break
				}
			}
		}

		if matched && (maxVolume == nil || *kw.Volume > *maxVolume) {
			v := *kw.Volume
			maxVolume = &v
		}
	}

	return maxVolume
}

// volumeBonus converts a matched search volume into a 0-15 score contribution
func volumeBonus(volume *int) int {
	if volume == nil {
		return 0
	}
	switch {
	case *volume >= 10000:
		return 15
	case *volume >= 1000:
		return 10
	case *volume >= 100:
		return 5
	default:
		return 2
	}
}

// Indicator phrases for estimating impact and effort from recommendation text
var (
	highImpactIndicators = []string{
		"missing h1", "missing meta", "no title", "thin content",
		"missing keyword", "critical", "high priority", "primary",
	}
	lowImpactIndicators = []string{
		"consider", "optional", "minor", "slightly", "could", "might",
	}

	lowEffortIndicators = []string{
		"add", "update", "change", "fix", "modify", "meta", "title", "heading",
	}
	highEffortIndicators = []string{
		"restructure", "rewrite", "create new", "research", "develop",
		"comprehensive", "multiple pages",
	}
)

// EstimateImpact guesses the impact level from recommendation text.
func EstimateImpact(text string) string {
	lower := strings.ToLower(text)
	if containsAny(lower, highImpactIndicators) {
		return "high"
	}
	if containsAny(lower, lowImpactIndicators) {
		return "low"
	}
	return "medium"
}

// EstimateEffort guesses the implementation effort from recommendation text.
func EstimateEffort(text string) string {
	lower := strings.ToLower(text)
	if containsAny(lower, highEffortIndicators) {
		return "high"
	}
	if containsAny(lower, lowEffortIndicators) {
		return "low"
	}
	return "medium"
}

func containsAny(s string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}
