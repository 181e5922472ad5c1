// Package htmlutil provides lightweight HTML metadata extraction for pages
// where a full DOM parse is overkill.
package htmlutil

import (
	"html"
	"regexp"
	"strings"
)

// Title extracts the page title, preferring <title>, then og:title, then the
// first h1.
func Title(htmlContent string) string {
	if matches := titlePattern.FindStringSubmatch(htmlContent); len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}

	if matches := ogTitlePattern.FindStringSubmatch(htmlContent); len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}

	if matches := firstH1Pattern.FindStringSubmatch(htmlContent); len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}

	return ""
}

// Description extracts the meta description, falling back to og:description.
func Description(htmlContent string) string {
	if matches := descPattern.FindStringSubmatch(htmlContent); len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}

	if matches := ogDescPattern.FindStringSubmatch(htmlContent); len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}

	return ""
}

// OGImage extracts the og:image URL, if any.
func OGImage(htmlContent string) string {
	if matches := ogImagePattern.FindStringSubmatch(htmlContent); len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}
	return ""
}

// Text strips tags, scripts, and styles, returning the page's visible text
// with whitespace collapsed.
func Text(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	content := scriptPattern.ReplaceAllString(htmlContent, "")
	content = stylePattern.ReplaceAllString(content, "")
	content = tagPattern.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)
	content = spacePattern.ReplaceAllString(content, " ")

	return strings.TrimSpace(content)
}

// Pre-compiled patterns for extraction.
var (
	titlePattern   = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	ogTitlePattern = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:title["'][^>]+content=["']([^"']+)["']`)
	firstH1Pattern = regexp.MustCompile(`(?i)<h1[^>]*>([^<]+)</h1>`)
	descPattern    = regexp.MustCompile(`(?i)<meta[^>]+name=["']description["'][^>]+content=["']([^"']+)["']`)
	ogDescPattern  = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:description["'][^>]+content=["']([^"']+)["']`)
	ogImagePattern = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']+)["']`)
	scriptPattern  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	stylePattern   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	spacePattern   = regexp.MustCompile(`\s+`)
)
