package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/engineop/analyzer/models"
)

// severityImpact maps structural issue severity onto priority impact levels
var severityImpact = map[models.Severity]string{
	models.SeverityCritical: "high",
	models.SeverityHigh:     "high",
	models.SeverityMedium:   "medium",
	models.SeverityLow:      "low",
}

// aggregator collects recommendations from the independent analyses,
// deduplicating by title.
type aggregator struct {
	keywords []models.Keyword
	seen     map[string]bool
	recs     []models.Recommendation
}

// Aggregate compiles all analyses for a page into prioritized
// recommendations, highest priority first.
func Aggregate(
	structure models.StructureAnalysis,
	seo *models.SEOAnalysis,
	aeo *models.AEOAnalysis,
	geo *models.GEOAnalysis,
	keywords []models.Keyword,
) []models.Recommendation {
	agg := &aggregator{
		keywords: keywords,
		seen:     make(map[string]bool),
	}

	agg.addStructure(structure)
	agg.addSEO(seo)
	agg.addAEO(aeo)
	agg.addGEO(geo)

	SortByPriority(agg.recs)
	return agg.recs
}

// SortByPriority orders recommendations by priority score, highest first.
// Ties keep their original order.
func SortByPriority(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Score > recs[j].Priority.Score
	})
}

// add records a recommendation unless its title was already seen. Empty
// impact or effort are estimated from the recommendation text.
func (a *aggregator) add(title, description, category, rationale string, actionItems []string, impact, effort string) {
	titleKey := strings.ToLower(strings.TrimSpace(title))
	if a.seen[titleKey] {
		return
	}
	a.seen[titleKey] = true

	combined := title + " " + description
	if impact == "" {
		impact = EstimateImpact(combined)
	}
	if effort == "" {
		effort = EstimateEffort(combined)
	}

	a.recs = append(a.recs, models.Recommendation{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    CalculatePriority(title, category, impact, effort, a.keywords),
		Rationale:   rationale,
		ActionItems: actionItems,
	})
}

func (a *aggregator) addStructure(structure models.StructureAnalysis) {
	for _, issue := range structure.Issues {
		impact := severityImpact[issue.Severity]
		if impact == "" {
			impact = "medium"
		}
		a.add(
			"Fix: "+issue.Issue,
			issue.Recommendation,
			"Structure",
			"Structural issues directly impact crawlability and user experience",
			[]string{issue.Recommendation},
			impact,
			"low",
		)
	}
}

func (a *aggregator) addSEO(seo *models.SEOAnalysis) {
	if seo == nil {
		return
	}

	for _, rec := range seo.Recommendations {
		a.add(truncateTitle(rec), rec, "SEO", seo.QualityRationale, []string{rec}, "", "")
	}

	if len(seo.MissingKeywords) > 0 {
		keywords := seo.MissingKeywords
		if len(keywords) > 5 {
			keywords = keywords[:5]
		}
		actions := make([]string, 0, 3)
		for _, kw := range firstN(seo.MissingKeywords, 3) {
			actions = append(actions, fmt.Sprintf("Research and incorporate '%s' into content", kw))
		}
		a.add(
			"Target missing keywords",
			"Consider targeting these keywords: "+strings.Join(keywords, ", "),
			"SEO",
			"These keywords are relevant but not currently optimized",
			actions,
			"", "",
		)
	}

	for _, gap := range firstN(seo.ContentGaps, 3) {
		a.add(
			"Address content gap: "+truncate(gap, 50),
			"The content is missing coverage of: "+gap,
			"SEO",
			"Filling content gaps improves topical authority",
			[]string{"Add section or content addressing: " + gap},
			"", "",
		)
	}
}

func (a *aggregator) addAEO(aeo *models.AEOAnalysis) {
	if aeo == nil {
		return
	}

	for _, rec := range aeo.Recommendations {
		a.add(truncateTitle(rec), rec, "AEO", aeo.ReadinessRationale, []string{rec}, "", "")
	}

	if len(aeo.PAAOpportunities) > 0 {
		top := firstN(aeo.PAAOpportunities, 3)
		actions := make([]string, 0, len(top))
		for _, q := range top {
			actions = append(actions, fmt.Sprintf("Add section answering: '%s'", q))
		}
		a.add(
			"Target People Also Ask questions",
			"Consider addressing these questions: "+strings.Join(top, "; "),
			"AEO",
			"PAA questions have high visibility in search results",
			actions,
			"", "",
		)
	}

	if len(aeo.QuestionsToAdd) > 0 {
		actions := make([]string, 0, 3)
		for _, q := range firstN(aeo.QuestionsToAdd, 3) {
			actions = append(actions, fmt.Sprintf("Add answer for: '%s'", q))
		}
		a.add(
			"Answer additional user questions",
			"Add content that directly answers common user questions",
			"AEO",
			"Question-focused content performs well in answer engines",
			actions,
			"", "",
		)
	}
}

func (a *aggregator) addGEO(geo *models.GEOAnalysis) {
	if geo == nil {
		return
	}

	for _, rec := range geo.Recommendations {
		a.add(truncateTitle(rec), rec, "GEO", geo.StrengthRationale, []string{rec}, "", "")
	}

	for _, suggestion := range firstN(geo.DefensibilitySuggestions, 2) {
		a.add(
			"Improve defensibility: "+truncate(suggestion, 40),
			suggestion,
			"GEO",
			"Making content more unique protects against AI absorption",
			[]string{suggestion},
			"", "",
		)
	}

	if len(geo.AbsorptionRisks) > 0 {
		a.add(
			"Address content absorption risks",
			"This content may be absorbed by AI without citation: "+strings.Join(firstN(geo.AbsorptionRisks, 3), "; "),
			"GEO",
			"Generic content risks losing attribution in AI-generated responses",
			[]string{
				"Add unique data, frameworks, or expert insights",
				"Include proprietary information not available elsewhere",
				"Strengthen brand voice and perspective",
			},
			"high",
			"",
		)
	}
}

// truncateTitle shortens long recommendation text for use as a title
func truncateTitle(s string) string {
	if len(s) < 60 {
		return s
	}
	return s[:57] + "..."
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
