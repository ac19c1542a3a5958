package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Test Page Title for Crawler</title>
<meta name="description" content="A sample meta description used by the crawler tests.">
<script type="application/ld+json">{"@context": "https://schema.org", "@type": "Article"}</script>
</head>
<body>
<h1>Main Heading</h1>
<h2>First Section</h2>
<h2>Second Section</h2>
<h3>Subsection</h3>
<p>This is the first paragraph with enough length to be kept by extraction.</p>
<p>Short.</p>
<p>Another paragraph that is long enough to pass the minimum length filter.</p>
<div class="faq-section">
<h2>Questions</h2>
</div>
<div id="tldr">Quick summary of the page.</div>
<a href="/about">About</a>
<a href="/about">About again</a>
<a href="https://other-domain.example.com/page">External</a>
<a href="/contact#team">Contact</a>
</body>
</html>`

func testCrawler() *Crawler {
	cfg := DefaultConfig()
	cfg.CrawlDelay = 0
	return New(cfg)
}

func TestParsePage(t *testing.T) {
	page := testCrawler().ParsePage("https://example.com/start", []byte(sampleHTML))

	if page.Error != "" {
		t.Fatalf("Unexpected parse error: %s", page.Error)
	}
	if page.Title != "Test Page Title for Crawler" {
		t.Errorf("Expected title extracted, got %q", page.Title)
	}
	if page.MetaDescription != "A sample meta description used by the crawler tests." {
		t.Errorf("Expected meta description extracted, got %q", page.MetaDescription)
	}
	if len(page.Headings["h1"]) != 1 || page.Headings["h1"][0] != "Main Heading" {
		t.Errorf("Expected one H1, got %v", page.Headings["h1"])
	}
	if len(page.Headings["h2"]) != 3 {
		t.Errorf("Expected 3 H2 headings, got %v", page.Headings["h2"])
	}
	if len(page.Paragraphs) != 2 {
		t.Errorf("Expected 2 paragraphs above the length filter, got %v", page.Paragraphs)
	}
	if !page.HasFAQSection {
		t.Error("Expected FAQ section detection from class name")
	}
	if !page.HasTLDRSection {
		t.Error("Expected TL;DR section detection from id")
	}
	if !page.HasSchemaMarkup {
		t.Error("Expected schema markup detection from JSON-LD script")
	}
	if page.WordCount == 0 {
		t.Error("Expected a non-zero word count")
	}
}

func TestParsePageLinks(t *testing.T) {
	page := testCrawler().ParsePage("https://example.com/start", []byte(sampleHTML))

	want := []string{
		"https://example.com/about",
		"https://example.com/contact",
	}
	if len(page.Links) != len(want) {
		t.Fatalf("Expected %d same-domain links, got %v", len(want), page.Links)
	}
	for i, link := range want {
		if page.Links[i] != link {
			t.Errorf("Expected link %q, got %q", link, page.Links[i])
		}
	}
}

func TestParsePageFAQTextDetection(t *testing.T) {
	html := `<html><body><h2>Frequently Asked Questions</h2><p>Some answers here for readers.</p></body></html>`

	page := testCrawler().ParsePage("https://example.com/", []byte(html))

	if !page.HasFAQSection {
		t.Error("Expected FAQ detection from heading text")
	}
}

func TestFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("Expected crawler user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(sampleHTML))
	}))
	defer server.Close()

	page := testCrawler().FetchPage(context.Background(), server.URL)

	if page.Error != "" {
		t.Fatalf("Unexpected fetch error: %s", page.Error)
	}
	if page.Title != "Test Page Title for Crawler" {
		t.Errorf("Expected extracted title, got %q", page.Title)
	}
}

func TestFetchPageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	page := testCrawler().FetchPage(context.Background(), server.URL+"/missing")

	if page.Error == "" {
		t.Fatal("Expected an error for a 404 response")
	}
	if !strings.Contains(page.Error, "HTTP error: 404") {
		t.Errorf("Expected HTTP error message, got %q", page.Error)
	}
}

func TestFetchPageInvalidURL(t *testing.T) {
	page := testCrawler().FetchPage(context.Background(), "ftp://example.com/file")

	if page.Error == "" {
		t.Error("Expected an error for a non-http URL")
	}
}

func TestFetchPageCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	page := testCrawler().FetchPage(ctx, server.URL)

	if page.Error == "" {
		t.Error("Expected an error for a cancelled request")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/page#section", "https://example.com/page"},
		{"https://example.com/page?q=1#frag", "https://example.com/page?q=1"},
		{"https://example.com/", "https://example.com/"},
	}

	for _, tt := range tests {
		u, err := url.Parse(tt.in)
		if err != nil {
			t.Fatalf("Failed to parse %q: %v", tt.in, err)
		}
		if got := NormalizeURL(u); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCrawlSite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Home Page for the Crawl Test</title></head>
<body><h1>Home</h1>
<p>The home page links out to the rest of the small test site here.</p>
<a href="/a">A</a><a href="/b">B</a></body></html>`))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Page A of the Crawl Test</title></head>
<body><h1>A</h1><p>Page A content that is certainly long enough to keep.</p></body></html>`))
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Page B of the Crawl Test</title></head>
<body><h1>B</h1><p>Page B content that is certainly long enough to keep.</p></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	pages, err := testCrawler().CrawlSite(context.Background(), server.URL, 10, nil)
	if err != nil {
		t.Fatalf("CrawlSite failed: %v", err)
	}

	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages crawled, got %d", len(pages))
	}
	seen := make(map[string]bool)
	for _, p := range pages {
		seen[p.Title] = true
	}
	for _, title := range []string{"Home Page for the Crawl Test", "Page A of the Crawl Test", "Page B of the Crawl Test"} {
		if !seen[title] {
			t.Errorf("Expected crawled page %q, got %v", title, seen)
		}
	}
}

func TestCrawlSiteMaxPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Linked List Crawl Test Page</title></head>
<body><h1>Page</h1>
<p>Every page on this site links to three more pages below it.</p>
<a href="` + r.URL.Path + `x">X</a>
<a href="` + r.URL.Path + `y">Y</a>
<a href="` + r.URL.Path + `z">Z</a></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	pages, err := testCrawler().CrawlSite(context.Background(), server.URL, 4, nil)
	if err != nil {
		t.Fatalf("CrawlSite failed: %v", err)
	}

	if len(pages) != 4 {
		t.Errorf("Expected crawl capped at 4 pages, got %d", len(pages))
	}
}

func TestCrawlSiteInvalidStartURL(t *testing.T) {
	if _, err := testCrawler().CrawlSite(context.Background(), "not-a-url", 5, nil); err == nil {
		t.Error("Expected an error for an invalid start URL")
	}
}
