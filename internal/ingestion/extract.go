// Package ingestion normalizes uploaded profile documents into plain text.
// Resumes, employer profiles, and job postings arrive either as plain text
// or as HTML exports; storage and prompting always use plain text.
package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText converts an uploaded document to cleaned plain text.
// HTML input is detected by content sniffing; anything else is treated
// as plain text and only normalized.
func ExtractText(content string) (string, error) {
	if looksLikeHTML(content) {
		return extractFromHTML(content)
	}
	return CleanText(content), nil
}

// looksLikeHTML sniffs for markup rather than trusting file extensions,
// since uploads routinely arrive with the wrong ones.
func looksLikeHTML(content string) bool {
	head := strings.ToLower(content)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html") ||
		strings.Contains(head, "<!doctype html") ||
		strings.Contains(head, "<body") ||
		strings.Contains(head, "<div")
}

func extractFromHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Scripts, styles and navigation chrome carry no profile content.
	doc.Find("script, style, nav, header, footer, noscript").Remove()

	var sb strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, pre").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	})

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		// Fallback for documents without block structure.
		text = doc.Text()
	}

	return CleanText(text), nil
}

// CleanText normalizes whitespace while preserving line structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
