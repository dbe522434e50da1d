package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MaxExcerptChars bounds the excerpt handed to the summarizer.
	MaxExcerptChars    = 4000
	fallbackParagraphs = 10
)

// ErrNoContent means the page was fetched but yielded no usable text.
var ErrNoContent = errors.New("no article content found")

// boilerplate is removed before any text is read.
const boilerplate = "script, style, nav, header, footer, aside"

// contentSelectors are tried in order; the first that matches wins.
var contentSelectors = []string{
	".entry-content",
	".article-body",
	".post-content",
	"article",
}

// Doer is the HTTP capability the extractor needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Extractor fetches article pages and pulls a plain-text excerpt out of them.
type Extractor struct {
	client    Doer
	userAgent string
}

// NewExtractor builds an extractor with its own timeout-bound HTTP client.
func NewExtractor(userAgent string, timeout time.Duration) *Extractor {
	return NewExtractorWithClient(&http.Client{Timeout: timeout}, userAgent)
}

func NewExtractorWithClient(client Doer, userAgent string) *Extractor {
	return &Extractor{client: client, userAgent: userAgent}
}

// Fetch gets full text of article by URL
func (e *Extractor) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	content := ExtractText(doc)
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}

// ExtractText strips boilerplate from doc and returns the bounded excerpt.
func ExtractText(doc *goquery.Document) string {
	doc.Find(boilerplate).Remove()

	var content string
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			content = collapseSpaces(sel.Text())
			break
		}
	}

	// A matched but empty container still falls back to paragraphs.
	if content == "" {
		var paragraphs []string
		doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= fallbackParagraphs {
				return false
			}
			paragraphs = append(paragraphs, strings.TrimSpace(s.Text()))
			return true
		})
		content = strings.TrimSpace(strings.Join(paragraphs, " "))
	}

	return truncate(content, MaxExcerptChars)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
