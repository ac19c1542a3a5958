package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/engineop/analyzer/models"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

const htmlStyle = `
        :root {
            --color-primary: #2563eb;
            --color-success: #16a34a;
            --color-warning: #ca8a04;
            --color-danger: #dc2626;
            --color-bg: #f8fafc;
            --color-text: #1e293b;
            --color-border: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            max-width: 900px;
            margin: 0 auto;
            padding: 2rem;
            background: var(--color-bg);
            color: var(--color-text);
        }
        h1 { color: var(--color-primary); border-bottom: 2px solid var(--color-primary); padding-bottom: 0.5rem; }
        h2 { color: var(--color-primary); margin-top: 2rem; border-bottom: 1px solid var(--color-border); padding-bottom: 0.25rem; }
        h3 { margin-top: 1.5rem; }
        table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
        th, td { border: 1px solid var(--color-border); padding: 0.75rem; text-align: left; }
        th { background: var(--color-bg); font-weight: 600; }
        ul, ol { margin: 0.75rem 0; padding-left: 1.5rem; }
        li { margin: 0.5rem 0; }
        code { background: #e2e8f0; padding: 0.125rem 0.375rem; border-radius: 4px; font-size: 0.9em; }
        @media print {
            body { padding: 0; }
        }
`

// HTML renders the analysis report as a standalone styled HTML document.
func HTML(result *models.AnalysisResult) (string, error) {
	md := Markdown(result)

	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>SEO Analysis Report - %s</title>
    <style>%s</style>
</head>
<body>
%s
</body>
</html>`, html.EscapeString(result.URL), htmlStyle, body.String()), nil
}
