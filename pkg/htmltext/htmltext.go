// Package htmltext converts rendered MediaWiki HTML into plain text suitable
// for tokenizing.
package htmltext

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Flatten extracts the readable text of an HTML fragment. Citation markers,
// edit-section links, navboxes, and script/style nodes are dropped before
// the block elements are joined line by line.
func Flatten(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("style,script,sup.reference,span.mw-editsection,table.navbox").Remove()

	var b strings.Builder
	doc.Find("h1,h2,h3,h4,h5,p,li,caption,blockquote").Each(func(i int, s *goquery.Selection) {
		text := normalizeText(s.Text())
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	})

	// Fragments without block structure still carry text.
	if b.Len() == 0 {
		return normalizeText(doc.Text()), nil
	}
	return strings.TrimSpace(b.String()), nil
}

// Article uses the go-readability library to extract the main article
// content from a full page render, then flattens it. Used when a wiki has no
// plain-text extract support and pages arrive as complete HTML documents.
func Article(rawURL, html string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid page url: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to distill article: %w", err)
	}

	return Flatten(article.Content)
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			// Write the line and a single space for separation
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	// Return the result, trimming the final space
	return strings.TrimSpace(b.String())
}
