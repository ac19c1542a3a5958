// Package analyzer orchestrates content analysis runs: it crawls pages,
// applies rule-based structural checks, runs LLM-backed SEO, AEO and GEO
// analyses, classifies content, and aggregates everything into a single
// prioritized recommendation list.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/engineop/analyzer/crawler"
	"github.com/engineop/analyzer/llm"
	"github.com/engineop/analyzer/metrics"
	"github.com/engineop/analyzer/models"
)

// Config controls an Analyzer.
type Config struct {
	Crawler          crawler.Config
	LLM              llm.Config
	MaxConcurrentLLM int // Concurrent LLM-analyzed pages
}

// DefaultConfig returns the default analyzer configuration.
func DefaultConfig() Config {
	return Config{
		Crawler:          crawler.DefaultConfig(),
		LLM:              llm.DefaultConfig(),
		MaxConcurrentLLM: 3,
	}
}

// Analyzer runs complete analyses. Safe for concurrent use.
type Analyzer struct {
	config  Config
	crawler *crawler.Crawler
	client  LLMClient

	// llmSlots bounds the number of pages being LLM-analyzed at once.
	llmSlots chan struct{}
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithLLMClient substitutes the LLM client. Used by tests.
func WithLLMClient(client LLMClient) Option {
	return func(a *Analyzer) {
		a.client = client
	}
}

// New creates an Analyzer from config.
func New(cfg Config, opts ...Option) (*Analyzer, error) {
	if cfg.MaxConcurrentLLM <= 0 {
		cfg.MaxConcurrentLLM = 1
	}

	a := &Analyzer{
		config:   cfg,
		crawler:  crawler.New(cfg.Crawler),
		llmSlots: make(chan struct{}, cfg.MaxConcurrentLLM),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("creating LLM client: %w", err)
		}
		a.client = client
	}
	return a, nil
}

// Request describes a single analysis run. ID is assigned when empty.
type Request struct {
	ID       string
	URL      string
	Mode     models.AnalysisMode
	MaxPages int
	Keywords []models.Keyword
}

// Run executes a complete analysis. It always returns a result; fatal
// problems (unreachable site, no crawlable pages) are reported in the
// result's Error field.
func (a *Analyzer) Run(ctx context.Context, req Request, progress crawler.ProgressFunc) *models.AnalysisResult {
	if progress == nil {
		progress = func(string, int) {}
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	started := time.Now()

	result := &models.AnalysisResult{
		ID:           req.ID,
		URL:          req.URL,
		Mode:         req.Mode,
		Timestamp:    started.UTC(),
		KeywordsUsed: req.Keywords,
	}

	progress("Starting analysis...", 5)
	metrics.AnalysesStarted.Inc()

	pages, err := a.collectPages(ctx, req.URL, req.Mode, req.MaxPages, progress)
	if err != nil {
		result.Error = err.Error()
		result.Pages = []models.PageAnalysis{}
		result.Recommendations = []models.Recommendation{}
		metrics.AnalysesFailed.Inc()
		return result
	}
	metrics.PagesCrawled.Add(float64(len(pages)))
	progress("Crawl complete", 30)

	// Pages are analyzed concurrently; llmSlots caps how many hit the
	// LLM API at the same time.
	analyses := make([]models.PageAnalysis, len(pages))
	var wg sync.WaitGroup
	var done int
	var mu sync.Mutex
	for i, page := range pages {
		wg.Add(1)
		go func(i int, page models.PageData) {
			defer wg.Done()
			analyses[i] = a.analyzePage(ctx, page, req.Keywords)
			mu.Lock()
			done++
			progress(fmt.Sprintf("Analyzed page %d/%d", done, len(pages)), 30+done*55/len(pages))
			mu.Unlock()
		}(i, page)
	}
	wg.Wait()
	result.Pages = analyses

	progress("Prioritizing recommendations...", 95)
	result.Recommendations = a.collectRecommendations(analyses, req.Keywords)
	result.OverallSEOScore, result.OverallAEOScore, result.OverallGEOScore = overallScores(analyses)

	metrics.AnalysesCompleted.Inc()
	metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
	log.Printf("analysis %s complete: %d pages, %d recommendations in %s",
		result.ID, len(result.Pages), len(result.Recommendations), time.Since(started).Round(time.Millisecond))
	progress("Complete", 100)
	return result
}

// collectPages fetches the page set for the requested mode. An error
// means nothing usable was fetched.
func (a *Analyzer) collectPages(ctx context.Context, targetURL string, mode models.AnalysisMode, maxPages int, progress crawler.ProgressFunc) ([]models.PageData, error) {
	var pages []models.PageData
	if mode == models.ModeFullSite {
		crawled, err := a.crawler.CrawlSite(ctx, targetURL, maxPages, progress)
		if err != nil {
			return nil, fmt.Errorf("crawling site: %w", err)
		}
		pages = crawled
	} else {
		pages = []models.PageData{a.crawler.FetchPage(ctx, targetURL)}
	}

	usable := 0
	for _, p := range pages {
		if p.Error == "" {
			usable++
		}
	}
	if usable == 0 {
		if len(pages) > 0 && pages[0].Error != "" {
			return nil, fmt.Errorf("could not fetch any pages: %s", pages[0].Error)
		}
		return nil, fmt.Errorf("could not fetch any pages from %s", targetURL)
	}
	return pages, nil
}

// analyzePage runs the full per-page pipeline. Pages that failed to fetch
// or are too thin skip the LLM analyses but still get structural checks.
func (a *Analyzer) analyzePage(ctx context.Context, page models.PageData, keywords []models.Keyword) models.PageAnalysis {
	analysis := models.PageAnalysis{
		Page:      page,
		Structure: AnalyzeStructure(page),
	}

	if page.Error != "" || page.WordCount < minWordsForLLM {
		return analysis
	}

	select {
	case a.llmSlots <- struct{}{}:
	case <-ctx.Done():
		return analysis
	}
	defer func() { <-a.llmSlots }()

	metrics.LLMCalls.Add(3)
	analysis.SEO = AnalyzeSEO(ctx, a.client, page, keywords)
	analysis.AEO = AnalyzeAEO(ctx, a.client, page)
	analysis.GEO = AnalyzeGEO(ctx, a.client, page)

	if analysis.SEO != nil && analysis.AEO != nil && analysis.GEO != nil {
		classification := Classify(analysis.SEO, analysis.AEO, analysis.GEO)
		analysis.Classification = &classification
	}
	return analysis
}

// collectRecommendations aggregates per-page recommendations, dedupes
// across pages by title, and sorts by priority.
func (a *Analyzer) collectRecommendations(analyses []models.PageAnalysis, keywords []models.Keyword) []models.Recommendation {
	var all []models.Recommendation
	seen := make(map[string]bool)
	for _, pa := range analyses {
		recs := Aggregate(pa.Structure, pa.SEO, pa.AEO, pa.GEO, keywords)
		for _, rec := range recs {
			key := strings.ToLower(strings.TrimSpace(rec.Title))
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, rec)
		}
	}
	if all == nil {
		all = []models.Recommendation{}
	}
	SortByPriority(all)
	return all
}

// overallScores averages the per-page LLM scores, rounding to the
// nearest integer. A dimension with no analyzed pages scores zero.
func overallScores(analyses []models.PageAnalysis) (seo, aeo, geo int) {
	var seoSum, aeoSum, geoSum, seoN, aeoN, geoN int
	for _, pa := range analyses {
		if pa.SEO != nil {
			seoSum += pa.SEO.QualityScore
			seoN++
		}
		if pa.AEO != nil {
			aeoSum += pa.AEO.ReadinessScore
			aeoN++
		}
		if pa.GEO != nil {
			geoSum += pa.GEO.StrengthScore
			geoN++
		}
	}
	return roundedMean(seoSum, seoN), roundedMean(aeoSum, aeoN), roundedMean(geoSum, geoN)
}

func roundedMean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
