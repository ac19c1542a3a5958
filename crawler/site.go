package crawler

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/gocolly/colly/v2"

	"github.com/engineop/analyzer/models"
)

// ProgressFunc receives crawl progress updates: a human-readable step and a
// percentage in the 0-30 range (the crawl's share of the overall analysis).
type ProgressFunc func(step string, percent int)

// CrawlSite crawls up to maxPages pages breadth-first from startURL, staying
// on the start domain. Pages that fail to fetch are included in the results
// with their error recorded; their links are not followed.
func (c *Crawler) CrawlSite(ctx context.Context, startURL string, maxPages int, progress ProgressFunc) ([]models.PageData, error) {
	if maxPages < 1 {
		maxPages = 1
	}
	if maxPages > 50 {
		maxPages = 50
	}

	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, fmt.Errorf("start URL must be http or https")
	}

	// Link filtering in sameDomainLink already keeps the crawl on the start
	// domain; the collector allowlist is a second guard. Colly compares
	// hostnames without the port.
	collector := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowedDomains(start.Hostname()),
	)
	collector.SetRequestTimeout(c.config.HTTPTimeout)
	collector.WithTransport(c.httpClient.Transport)

	// Polite delay between requests on the target domain
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      c.config.CrawlDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure crawl limits: %w", err)
	}

	results := make([]models.PageData, 0, maxPages)
	queue := []string{NormalizeURL(start)}
	visited := make(map[string]bool)

	collector.OnResponse(func(r *colly.Response) {
		page := c.ParsePage(r.Request.URL.String(), r.Body)
		results = append(results, page)

		// Queue discovered links for the breadth-first walk
		for _, link := range page.Links {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		log.Printf("Crawl error for %s: %v", r.Request.URL, err)
		results = append(results, errorPage(r.Request.URL.String(), fmt.Sprintf("failed to fetch page: %v", err)))
	})

	for len(queue) > 0 && len(results) < maxPages {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		next := queue[0]
		queue = queue[1:]

		if visited[next] {
			continue
		}
		visited[next] = true

		if progress != nil {
			progress(fmt.Sprintf("Crawling page %d/%d...", len(results)+1, maxPages),
				len(results)*30/maxPages)
		}

		// Errors surface through the OnError callback; ErrAlreadyVisited
		// and filtered domains are simply skipped.
		if err := collector.Visit(next); err != nil {
			log.Printf("Skipping %s: %v", next, err)
		}
	}

	return results, nil
}
