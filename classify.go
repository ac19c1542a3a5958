package analyzer

import (
	"fmt"

	"github.com/engineop/analyzer/models"
)

// strongScoreThreshold is the dimension score at which content counts as
// strong in that dimension.
const strongScoreThreshold = 7

// Classify determines which optimization dimensions the content serves based
// on the three analysis scores.
func Classify(seo *models.SEOAnalysis, aeo *models.AEOAnalysis, geo *models.GEOAnalysis) models.ContentClassification {
	seoScore := seo.QualityScore
	aeoScore := aeo.ReadinessScore
	geoScore := geo.StrengthScore

	strongSEO := seoScore >= strongScoreThreshold
	strongAEO := aeoScore >= strongScoreThreshold
	strongGEO := geoScore >= strongScoreThreshold

	var overlapping []models.ContentType
	if strongSEO {
		overlapping = append(overlapping, models.TypeSEO)
	}
	if strongAEO {
		overlapping = append(overlapping, models.TypeAEO)
	}
	if strongGEO {
		overlapping = append(overlapping, models.TypeGEO)
	}

	var (
		primary     models.ContentType
		confidence  float64
		explanation string
	)

	switch {
	case strongSEO && strongAEO && strongGEO:
		primary = models.TypeAll
		confidence = 0.9
		explanation = "Content excels across all three optimization dimensions. " +
			"It's well-optimized for search engines, answer engines, and generative AI."
	case strongSEO && strongAEO:
		primary = models.TypeSEOAEO
		confidence = 0.85
		explanation = "Content is strong for both traditional search and answer engines. " +
			"Consider strengthening unique, citation-worthy elements for GEO."
	case strongSEO && strongGEO:
		primary = models.TypeSEOGEO
		confidence = 0.85
		explanation = "Content ranks well and has defensible, unique elements. " +
			"Consider adding more question-focused content for AEO."
	case strongAEO && strongGEO:
		primary = models.TypeAEOGEO
		confidence = 0.85
		explanation = "Content answers questions well and is citation-worthy. " +
			"Consider traditional SEO improvements for broader reach."
	case strongSEO:
		primary = models.TypeSEO
		confidence = 0.8
		explanation = "Content is primarily optimized for traditional search engines. " +
			"Consider adding question-based content and unique insights."
	case strongAEO:
		primary = models.TypeAEO
		confidence = 0.8
		explanation = "Content is well-suited for answer engines and featured snippets. " +
			"Consider SEO fundamentals and adding proprietary elements."
	case strongGEO:
		primary = models.TypeGEO
		confidence = 0.8
		explanation = "Content has strong unique/proprietary elements. " +
			"Consider improving discoverability through SEO and AEO."
	default:
		// No strong dimension: classify by the highest score
		primary, confidence = models.TypeSEO, 0.6
		highestName, highestScore := "SEO", seoScore
		if aeoScore > highestScore {
			primary, highestName, highestScore = models.TypeAEO, "AEO", aeoScore
		}
		if geoScore > highestScore {
			primary, highestName, highestScore = models.TypeGEO, "GEO", geoScore
		}
		explanation = fmt.Sprintf(
			"Content has room for improvement across all dimensions. "+
				"Currently strongest in %s (score: %d/10). "+
				"Focus on improving the weakest areas for better overall performance.",
			highestName, highestScore)
	}

	return models.ContentClassification{
		PrimaryType:      primary,
		Confidence:       confidence,
		Explanation:      explanation,
		OverlappingTypes: overlapping,
	}
}
