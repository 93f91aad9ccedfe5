// Package content converts and measures journal bodies. Bodies are stored as
// HTML; Markdown input is rendered on the way in.
package content

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// WordLimit is the soft cap on a day's journal body.
const WordLimit = 200

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()

	// AddSpaceWhenStrippingTag keeps "a</p><p>b" as two words.
	stripper = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

	emptyParagraph  = `<p>(?:&nbsp;|\s|<br\s*/?>)*</p>`
	leadingEmptyP   = regexp.MustCompile(`(?i)^(?:` + emptyParagraph + `)+`)
	trailingEmptyP  = regexp.MustCompile(`(?i)(?:` + emptyParagraph + `)+$`)
	whitespaceChars = regexp.MustCompile(`\s+`)
)

// StripHTML returns the plain text of an HTML body with whitespace collapsed.
func StripHTML(body string) string {
	text := html.UnescapeString(stripper.Sanitize(body))
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(whitespaceChars.ReplaceAllString(text, " "))
}

// WordCount counts whitespace separated words of the body's text.
func WordCount(body string) int {
	return len(strings.Fields(StripHTML(body)))
}

// CleanHTML trims empty paragraphs an editor leaves at either end of a body.
func CleanHTML(body string) string {
	if body == "" {
		return body
	}
	cleaned := leadingEmptyP.ReplaceAllString(strings.TrimSpace(body), "")
	cleaned = trailingEmptyP.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// MarkdownToHTML renders Markdown and sanitizes the result.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimSpace(string(sanitizer.SanitizeBytes(buf.Bytes()))), nil
}

// Sanitize removes unsafe markup from an HTML body.
func Sanitize(body string) string {
	return sanitizer.Sanitize(body)
}

// Excerpt returns at most n words of the body's text, with an ellipsis when
// truncated.
func Excerpt(body string, n int) string {
	words := strings.Fields(StripHTML(body))
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}
