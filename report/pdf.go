package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/engineop/analyzer/models"
)

// Score card colors per dimension, mirroring the HTML report palette.
var (
	seoColor = [3]int{14, 185, 129}
	aeoColor = [3]int{59, 131, 247}
	geoColor = [3]int{245, 158, 13}
)

// PDF renders an executive-style PDF report: a cover page with the three
// dimension scores, an executive summary, per-dimension findings and an
// action roadmap.
func PDF(result *models.AnalysisResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("SEO / AEO / GEO Analysis Report", true)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(156, 163, 175)
		pdf.CellFormat(0, 10, fmt.Sprintf("EngineOp Report - Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	writeCoverPage(pdf, result)
	writeSummaryPage(pdf, result)
	writeFindingsPages(pdf, result)
	writeRoadmapPage(pdf, result)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCoverPage(pdf *fpdf.Fpdf, result *models.AnalysisResult) {
	pdf.AddPage()
	pdf.SetY(60)

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(17, 24, 39)
	pdf.CellFormat(0, 12, "SEO / AEO / GEO Analysis Report", "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Courier", "", 11)
	pdf.SetTextColor(55, 65, 81)
	pdf.CellFormat(0, 8, result.URL, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 8, result.Timestamp.Format("January 2, 2006"), "", 1, "C", false, 0, "")

	pdf.Ln(20)
	writeScoreCards(pdf, result)
}

func writeScoreCards(pdf *fpdf.Fpdf, result *models.AnalysisResult) {
	cards := []struct {
		label string
		score int
		color [3]int
	}{
		{"SEO", result.OverallSEOScore, seoColor},
		{"AEO", result.OverallAEOScore, aeoColor},
		{"GEO", result.OverallGEOScore, geoColor},
	}

	const cardW, cardH, gap = 50.0, 40.0, 8.0
	startX := (210 - 3*cardW - 2*gap) / 2
	y := pdf.GetY()

	for i, card := range cards {
		x := startX + float64(i)*(cardW+gap)
		pdf.SetDrawColor(card.color[0], card.color[1], card.color[2])
		pdf.SetLineWidth(0.8)
		pdf.Rect(x, y, cardW, cardH, "D")

		pdf.SetXY(x, y+8)
		pdf.SetFont("Helvetica", "B", 26)
		pdf.SetTextColor(card.color[0], card.color[1], card.color[2])
		pdf.CellFormat(cardW, 12, fmt.Sprintf("%d/10", card.score), "", 1, "C", false, 0, "")

		pdf.SetX(x)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(cardW, 8, card.label, "", 1, "C", false, 0, "")

		pdf.SetX(x)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(cardW, 6, ScoreRating(card.score), "", 1, "C", false, 0, "")
	}
	pdf.SetY(y + cardH + 10)
}

func writeSummaryPage(pdf *fpdf.Fpdf, result *models.AnalysisResult) {
	pdf.AddPage()
	sectionHeader(pdf, "Executive Summary")

	bottomLine := "Analysis complete. See section details for findings."
	for _, pa := range result.Pages {
		if pa.SEO != nil && pa.SEO.QualityRationale != "" {
			bottomLine = pa.SEO.QualityRationale
			break
		}
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(30, 58, 138)
	pdf.MultiCell(0, 6, "Bottom Line: "+bottomLine, "", "L", false)
	pdf.Ln(6)

	subHeader(pdf, "Top 3 Priorities")
	top := result.Recommendations
	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) == 0 {
		bodyText(pdf, "No priority recommendations identified.")
	}
	for i, rec := range top {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(17, 24, 39)
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, rec.Title), "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(107, 114, 128)
		pdf.MultiCell(0, 5, rec.Description, "", "L", false)
		pdf.Ln(3)
	}

	subHeader(pdf, "Why This Matters")
	if result.OverallSEOScore >= 6 && result.OverallAEOScore >= 6 && result.OverallGEOScore >= 6 {
		bodyText(pdf, "Your site scores well across dimensions, but generic content is at risk of being absorbed by AI without citation. Competitors with more specific, original content will outrank you. The fix is not more content - it is more specific content.")
	} else {
		bodyText(pdf, "There are significant opportunities to improve discoverability and defensibility. Focus on the high-impact actions first.")
	}
}

func writeFindingsPages(pdf *fpdf.Fpdf, result *models.AnalysisResult) {
	// SEO
	pdf.AddPage()
	sectionHeader(pdf, "SEO Analysis")
	for _, pa := range result.Pages {
		if pa.SEO == nil {
			continue
		}
		labeled(pdf, "Primary Topic", pa.SEO.PrimaryTopic)
		labeled(pdf, "Quality Score", fmt.Sprintf("%d/10 (%s)", pa.SEO.QualityScore, ScoreRating(pa.SEO.QualityScore)))
		bulletList(pdf, "Current Keywords", pa.SEO.TargetKeywords, 5)
		bulletList(pdf, "Keyword Gaps", pa.SEO.MissingKeywords, 5)
		bulletList(pdf, "Content Gaps", pa.SEO.ContentGaps, 5)
		pdf.Ln(4)
	}
	actionTable(pdf, result.Recommendations, "SEO")

	// AEO
	pdf.AddPage()
	sectionHeader(pdf, "AEO Analysis")
	for _, pa := range result.Pages {
		if pa.AEO == nil {
			continue
		}
		labeled(pdf, "Answer Readiness", pa.AEO.ReadinessRationale)
		labeled(pdf, "Featured Snippet Potential", pa.AEO.FeaturedSnippetPotential)
		bulletList(pdf, "Questions You Answer", pa.AEO.QuestionsAnswered, 5)
		bulletList(pdf, "Questions to Add", pa.AEO.QuestionsToAdd, 5)
		bulletList(pdf, "People Also Ask", pa.AEO.PAAOpportunities, 3)
		pdf.Ln(4)
	}
	actionTable(pdf, result.Recommendations, "AEO")

	// GEO
	pdf.AddPage()
	sectionHeader(pdf, "GEO Analysis")
	for _, pa := range result.Pages {
		if pa.GEO == nil {
			continue
		}
		labeled(pdf, "Originality", pa.GEO.OriginalityAssessment)
		bulletList(pdf, "AI Absorption Risks", pa.GEO.AbsorptionRisks, 5)
		bulletList(pdf, "Citation-Worthy Elements", pa.GEO.CitationWorthyElements, 5)
		bulletList(pdf, "Defensibility Gaps", pa.GEO.DefensibilitySuggestions, 5)
		pdf.Ln(4)
	}
	actionTable(pdf, result.Recommendations, "GEO")
}

func writeRoadmapPage(pdf *fpdf.Fpdf, result *models.AnalysisResult) {
	pdf.AddPage()
	sectionHeader(pdf, "Action Roadmap")

	var high, medium []models.Recommendation
	for _, rec := range result.Recommendations {
		switch rec.Priority.Impact {
		case "high":
			if len(high) < 6 {
				high = append(high, rec)
			}
		case "medium":
			if len(medium) < 6 {
				medium = append(medium, rec)
			}
		}
	}

	subHeader(pdf, "High Impact - Do First")
	roadmapRows(pdf, high)

	subHeader(pdf, "Medium Impact - Do Next")
	roadmapRows(pdf, medium)

	pdf.Ln(6)
	subHeader(pdf, "Next Steps")
	for i, step := range []string{
		"Start with one high-impact action from the list above",
		"Add specific, original content that competitors cannot replicate",
		"Reformat existing content for better scannability (bullets, tables)",
	} {
		bodyText(pdf, fmt.Sprintf("%d. %s", i+1, step))
	}
}

func roadmapRows(pdf *fpdf.Fpdf, recs []models.Recommendation) {
	if len(recs) == 0 {
		bodyText(pdf, "No actions in this tier.")
		return
	}
	for _, rec := range recs {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(55, 65, 81)
		pdf.MultiCell(0, 6, fmt.Sprintf("- %s  [%s]", rec.Title, rec.Category), "", "L", false)
	}
	pdf.Ln(2)
}

func actionTable(pdf *fpdf.Fpdf, recs []models.Recommendation, category string) {
	var filtered []models.Recommendation
	for _, rec := range recs {
		if rec.Category == category && len(filtered) < 5 {
			filtered = append(filtered, rec)
		}
	}
	subHeader(pdf, "Actions")
	if len(filtered) == 0 {
		bodyText(pdf, fmt.Sprintf("No %s actions identified.", category))
		return
	}
	for _, rec := range filtered {
		pdf.SetFont("Helvetica", "B", 9)
		if rec.Priority.Impact == "high" {
			pdf.SetTextColor(220, 38, 38)
		} else {
			pdf.SetTextColor(217, 119, 6)
		}
		pdf.CellFormat(22, 6, rec.Priority.Impact, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(55, 65, 81)
		pdf.MultiCell(0, 6, rec.Title, "", "L", false)
	}
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(17, 24, 39)
	pdf.CellFormat(0, 10, title, "B", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func subHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(55, 65, 81)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func bodyText(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(55, 65, 81)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(1)
}

func labeled(pdf *fpdf.Fpdf, label, value string) {
	if value == "" {
		value = "Not assessed"
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(17, 24, 39)
	pdf.Write(5, label+": ")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(55, 65, 81)
	pdf.Write(5, value)
	pdf.Ln(6)
}

func bulletList(pdf *fpdf.Fpdf, heading string, items []string, max int) {
	if len(items) == 0 {
		return
	}
	if len(items) > max {
		items = items[:max]
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 6, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(55, 65, 81)
	for _, item := range items {
		pdf.MultiCell(0, 5, "- "+item, "", "L", false)
	}
	pdf.Ln(1)
}
