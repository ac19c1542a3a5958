package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/engineop/analyzer/models"
)

// minParagraphLength filters out boilerplate fragments (button labels,
// bylines) that would pollute the analysis prompts.
const minParagraphLength = 20

var (
	faqPattern     = regexp.MustCompile(`(?i)faq`)
	faqTextPattern = regexp.MustCompile(`(?i)frequently\s+asked\s+questions`)
	tldrPattern    = regexp.MustCompile(`(?i)(tldr|tl;dr|summary|key-?takeaway)`)
	schemaPattern  = regexp.MustCompile(`(?i)schema\.org`)
)

// extractPage walks a parsed HTML document and builds the PageData for it.
// baseURL is used to resolve and filter same-domain links.
func extractPage(doc *html.Node, baseURL *url.URL) models.PageData {
	page := models.PageData{
		URL:      baseURL.String(),
		Headings: make(map[string][]string),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if page.Title == "" {
					page.Title = strings.TrimSpace(nodeText(n))
				}
			case "meta":
				extractMeta(n, &page)
			case "h1", "h2", "h3", "h4", "h5", "h6":
				text := strings.TrimSpace(nodeText(n))
				if text != "" {
					page.Headings[n.Data] = append(page.Headings[n.Data], text)
				}
			case "p":
				text := strings.TrimSpace(nodeText(n))
				if len(text) > minParagraphLength {
					page.Paragraphs = append(page.Paragraphs, text)
				}
			case "a":
				if link := sameDomainLink(n, baseURL); link != "" {
					page.Links = appendUnique(page.Links, link)
				}
			case "script":
				if attrValue(n, "type") == "application/ld+json" {
					page.HasSchemaMarkup = true
				}
			}

			if !page.HasSchemaMarkup && schemaPattern.MatchString(attrValue(n, "itemtype")) {
				page.HasSchemaMarkup = true
			}
			if !page.HasFAQSection && hasSectionMarker(n, faqPattern) {
				page.HasFAQSection = true
			}
			if !page.HasTLDRSection && hasSectionMarker(n, tldrPattern) {
				page.HasTLDRSection = true
			}
		}

		if n.Type == html.TextNode && !page.HasFAQSection && faqTextPattern.MatchString(n.Data) {
			page.HasFAQSection = true
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	page.WordCount = len(strings.Fields(bodyText(doc)))

	if page.Paragraphs == nil {
		page.Paragraphs = []string{}
	}
	if page.Links == nil {
		page.Links = []string{}
	}

	return page
}

// extractMeta picks the description off a meta tag
func extractMeta(n *html.Node, page *models.PageData) {
	var name, content string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "name", "property":
			if name == "" {
				name = strings.ToLower(attr.Val)
			}
		case "content":
			content = attr.Val
		}
	}

	if content == "" {
		return
	}
	if (name == "description" || name == "og:description") && page.MetaDescription == "" {
		page.MetaDescription = content
	}
}

// sameDomainLink resolves an anchor href and returns the normalized URL when
// it stays on the base domain. Fragments are dropped, queries kept.
func sameDomainLink(n *html.Node, baseURL *url.URL) string {
	href := attrValue(n, "href")
	if href == "" {
		return ""
	}

	resolved, err := baseURL.Parse(href)
	if err != nil {
		return ""
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host != baseURL.Host {
		return ""
	}

	return NormalizeURL(resolved)
}

// NormalizeURL strips the fragment from a URL and keeps the query string.
// Crawl deduplication compares normalized URLs.
func NormalizeURL(u *url.URL) string {
	normalized := u.Scheme + "://" + u.Host + u.Path
	if u.RawQuery != "" {
		normalized += "?" + u.RawQuery
	}
	return normalized
}

// hasSectionMarker reports whether a node's id or class matches the pattern
func hasSectionMarker(n *html.Node, pattern *regexp.Regexp) bool {
	for _, attr := range n.Attr {
		if attr.Key == "id" || attr.Key == "class" {
			if pattern.MatchString(attr.Val) {
				return true
			}
		}
	}
	return false
}

// attrValue returns the value of the named attribute, or ""
func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// nodeText collects the text content of a node and its children
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return buf.String()
}

// bodyText extracts all visible text from the document, skipping script and
// style contents, for word counting.
func bodyText(doc *html.Node) string {
	var buf strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return strings.TrimSpace(buf.String())
}

// appendUnique appends s to list when not already present
func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
