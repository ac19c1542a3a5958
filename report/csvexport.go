package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/engineop/analyzer/models"
)

// CSV exports the keywords, questions and citation-worthy elements found
// during analysis as a spreadsheet-friendly CSV.
func CSV(result *models.AnalysisResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"Item", "Type", "Source", "Priority", "Notes"}}

	for _, pa := range result.Pages {
		from := "From: " + pa.Page.URL

		if pa.SEO != nil {
			for _, kw := range pa.SEO.TargetKeywords {
				rows = append(rows, []string{kw, "keyword", "SEO (current)", "", from})
			}
			for _, kw := range pa.SEO.MissingKeywords {
				rows = append(rows, []string{kw, "keyword", "SEO (opportunity)", "High", from})
			}
		}

		if pa.AEO != nil {
			for _, q := range pa.AEO.QuestionsAnswered {
				rows = append(rows, []string{q, "question", "AEO (answered)", "", from})
			}
			for _, q := range pa.AEO.QuestionsToAdd {
				rows = append(rows, []string{q, "question", "AEO (opportunity)", "High", from})
			}
			for _, q := range pa.AEO.PAAOpportunities {
				rows = append(rows, []string{q, "question", "AEO (PAA)", "High", from})
			}
		}

		if pa.GEO != nil {
			for _, elem := range pa.GEO.CitationWorthyElements {
				rows = append(rows, []string{elem, "element", "GEO (citation-worthy)", "", from})
			}
		}
	}

	for _, kw := range result.KeywordsUsed {
		var notes []string
		if kw.Volume != nil {
			notes = append(notes, fmt.Sprintf("Volume: %d", *kw.Volume))
		}
		if kw.Difficulty != nil {
			notes = append(notes, fmt.Sprintf("KD: %g", *kw.Difficulty))
		}
		if kw.CPC != nil {
			notes = append(notes, fmt.Sprintf("CPC: $%g", *kw.CPC))
		}
		rows = append(rows, []string{kw.Keyword, "keyword", "Imported (CSV)", "", strings.Join(notes, "; ")})
	}

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("writing CSV: %w", err)
	}
	return buf.String(), nil
}
