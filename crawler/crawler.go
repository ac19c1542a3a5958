// Package crawler fetches web pages and extracts the content the analyzers
// operate on: title, meta description, headings, paragraphs, internal links,
// and the structural markers (FAQ, TL;DR, schema.org) used downstream.
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/html"

	"github.com/engineop/analyzer/models"
)

// userAgent identifies the crawler to target sites
const userAgent = "EngineOpBot/1.0 (Web Analysis Tool; +https://github.com/engineop/analyzer)"

// maxBodySize limits fetched page bodies
const maxBodySize = 10 * 1024 * 1024 // 10MB

// Config contains crawler configuration
type Config struct {
	HTTPTimeout time.Duration
	CrawlDelay  time.Duration // Polite delay between requests in site crawls
	MaxPages    int           // Upper bound for site crawls, clamped 1-50
}

// DefaultConfig returns default crawler configuration
func DefaultConfig() Config {
	return Config{
		HTTPTimeout: 10 * time.Second,
		CrawlDelay:  1 * time.Second,
		MaxPages:    10,
	}
}

// Crawler fetches pages over HTTP
type Crawler struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Crawler instance
func New(config Config) *Crawler {
	return &Crawler{
		config: config,
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
			// Wrap the transport so crawl requests propagate trace context
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// FetchPage fetches a single URL and extracts its content. Fetch failures do
// not return an error; they are recorded in PageData.Error so a site crawl
// can continue past individual broken pages.
func (c *Crawler) FetchPage(ctx context.Context, pageURL string) models.PageData {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errorPage(pageURL, fmt.Sprintf("invalid URL: %s", pageURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return errorPage(pageURL, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errorPage(pageURL, fmt.Sprintf("request cancelled: %v", ctx.Err()))
		}
		return errorPage(pageURL, fmt.Sprintf("failed to fetch page: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorPage(pageURL, fmt.Sprintf("HTTP error: %d %s", resp.StatusCode, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errorPage(pageURL, fmt.Sprintf("failed to read response: %v", err))
	}

	return c.ParsePage(pageURL, body)
}

// ParsePage extracts page content from raw HTML
func (c *Crawler) ParsePage(pageURL string, body []byte) models.PageData {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return errorPage(pageURL, fmt.Sprintf("invalid URL: %s", pageURL))
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return errorPage(pageURL, fmt.Sprintf("failed to parse HTML: %v", err))
	}

	return extractPage(doc, parsed)
}

// errorPage builds a PageData carrying a fetch error
func errorPage(pageURL, message string) models.PageData {
	return models.PageData{
		URL:        pageURL,
		Headings:   map[string][]string{},
		Paragraphs: []string{},
		Links:      []string{},
		Error:      message,
	}
}
