package models

import "time"

// AnalysisMode selects between single-page and full-site analysis
type AnalysisMode string

const (
	ModeSinglePage AnalysisMode = "single"
	ModeFullSite   AnalysisMode = "full"
)

// Severity grades a structural issue
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ContentType classifies which optimization dimensions content serves
type ContentType string

const (
	TypeSEO    ContentType = "seo"
	TypeAEO    ContentType = "aeo"
	TypeGEO    ContentType = "geo"
	TypeSEOAEO ContentType = "seo_aeo"
	TypeSEOGEO ContentType = "seo_geo"
	TypeAEOGEO ContentType = "aeo_geo"
	TypeAll    ContentType = "all"
)

// Keyword is a single row of imported keyword research data
type Keyword struct {
	Keyword    string   `json:"keyword"`
	Volume     *int     `json:"volume,omitempty"`     // Monthly search volume
	Difficulty *float64 `json:"difficulty,omitempty"` // Keyword difficulty (0-100)
	CPC        *float64 `json:"cpc,omitempty"`        // Cost per click in USD
}

// PageData represents the extracted content of a crawled page
type PageData struct {
	URL             string              `json:"url"`
	Title           string              `json:"title"`
	MetaDescription string              `json:"meta_description,omitempty"`
	Headings        map[string][]string `json:"headings"` // "h1".."h6" -> heading texts
	Paragraphs      []string            `json:"paragraphs"`
	Links           []string            `json:"links"` // Normalized same-domain links
	WordCount       int                 `json:"word_count"`
	HasFAQSection   bool                `json:"has_faq_section"`
	HasTLDRSection  bool                `json:"has_tldr_section"`
	HasSchemaMarkup bool                `json:"has_schema_markup"`
	Error           string              `json:"error,omitempty"` // Non-empty when the fetch failed
}

// StructuralIssue is a single finding from the structure analysis
type StructuralIssue struct {
	Issue          string   `json:"issue"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
}

// StructureAnalysis contains the rule-based structural findings for a page
type StructureAnalysis struct {
	Issues                []StructuralIssue `json:"issues"`
	HasH1                 bool              `json:"has_h1"`
	H1Count               int               `json:"h1_count"`
	HasMetaDescription    bool              `json:"has_meta_description"`
	MetaDescriptionLength int               `json:"meta_description_length"`
	WordCount             int               `json:"word_count"`
	HeadingStructureValid bool              `json:"heading_structure_valid"`
}

// SEOAnalysis contains the search engine optimization findings
type SEOAnalysis struct {
	PrimaryTopic         string   `json:"primary_topic"`
	TargetKeywords       []string `json:"target_keywords"`
	MissingKeywords      []string `json:"missing_keywords"`
	ContentGaps          []string `json:"content_gaps"`
	ClusterOpportunities []string `json:"cluster_opportunities"`
	QualityScore         int      `json:"quality_score"` // 1-10
	QualityRationale     string   `json:"quality_rationale"`
	Recommendations      []string `json:"recommendations"`
}

// AEOAnalysis contains the answer engine optimization findings
type AEOAnalysis struct {
	QuestionsAnswered        []string `json:"questions_answered"`
	QuestionsToAdd           []string `json:"questions_to_add"`
	PAAOpportunities         []string `json:"paa_opportunities"` // "People Also Ask" targets
	FeaturedSnippetPotential string   `json:"featured_snippet_potential"`
	FormatQuality            string   `json:"format_quality"`
	ReadinessScore           int      `json:"readiness_score"` // 1-10
	ReadinessRationale       string   `json:"readiness_rationale"`
	Recommendations          []string `json:"recommendations"`
}

// GEOAnalysis contains the generative engine optimization findings
type GEOAnalysis struct {
	OriginalityAssessment    string   `json:"originality_assessment"`
	CitationWorthyElements   []string `json:"citation_worthy_elements"`
	AbsorptionRisks          []string `json:"absorption_risks"`
	DefensibilitySuggestions []string `json:"defensibility_suggestions"`
	StrengthScore            int      `json:"strength_score"` // 1-10
	StrengthRationale        string   `json:"strength_rationale"`
	Recommendations          []string `json:"recommendations"`
}

// ContentClassification identifies which dimensions content is strong in
type ContentClassification struct {
	PrimaryType      ContentType   `json:"primary_type"`
	Confidence       float64       `json:"confidence"` // 0-1
	Explanation      string        `json:"explanation"`
	OverlappingTypes []ContentType `json:"overlapping_types,omitempty"`
}

// PriorityScore is the computed priority for a recommendation
type PriorityScore struct {
	Score         int            `json:"score"`                    // 1-100
	Impact        string         `json:"impact"`                   // high/medium/low
	Effort        string         `json:"effort"`                   // high/medium/low
	KeywordVolume *int           `json:"keyword_volume,omitempty"` // Highest matched keyword volume
	Factors       map[string]int `json:"factors"`                  // Per-factor score breakdown
}

// Recommendation is a single prioritized recommendation
type Recommendation struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"` // SEO, AEO, GEO, Structure
	Priority    PriorityScore `json:"priority"`
	Rationale   string        `json:"rationale"`
	ActionItems []string      `json:"action_items,omitempty"`
}

// PageAnalysis is the complete analysis of a single page.
// The LLM-backed analyses are nil when skipped (thin content) or failed.
type PageAnalysis struct {
	Page           PageData               `json:"page_data"`
	Structure      StructureAnalysis      `json:"structure"`
	SEO            *SEOAnalysis           `json:"seo,omitempty"`
	AEO            *AEOAnalysis           `json:"aeo,omitempty"`
	GEO            *GEOAnalysis           `json:"geo,omitempty"`
	Classification *ContentClassification `json:"classification,omitempty"`
}

// AnalysisResult is the complete output of an analysis run
type AnalysisResult struct {
	ID              string           `json:"id"`
	URL             string           `json:"url"`
	Mode            AnalysisMode     `json:"mode"`
	Timestamp       time.Time        `json:"timestamp"`
	Pages           []PageAnalysis   `json:"pages"`
	Recommendations []Recommendation `json:"recommendations"`
	OverallSEOScore int              `json:"overall_seo_score"`
	OverallAEOScore int              `json:"overall_aeo_score"`
	OverallGEOScore int              `json:"overall_geo_score"`
	KeywordsUsed    []Keyword        `json:"keywords_used,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// Progress reports the state of a running analysis
type Progress struct {
	Status  string `json:"status"` // starting, running, complete, failed
	Step    string `json:"step"`
	Percent int    `json:"percent"`
}
