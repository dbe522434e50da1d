package rss

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/speedread/internal/retry"
)

// Entry is one feed item as seen by the pipeline. Link is the only identity key.
type Entry struct {
	Title     string
	Link      string
	Published string // raw feed value, never parsed
	Summary   string
}

// Fetcher downloads and parses RSS/Atom feeds.
type Fetcher struct {
	parser *gofeed.Parser
	retry  retry.RetryConfig
	logger *slog.Logger
}

func NewFetcher(userAgent string, retryCfg retry.RetryConfig, logger *slog.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{parser: parser, retry: retryCfg, logger: logger}
}

// Fetch returns the entries of one feed in document order.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	var feed *gofeed.Feed
	err := retry.WithRetry(ctx, f.retry, func() error {
		parsed, err := f.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			f.logger.Debug("feed fetch attempt failed", "url", url, "error", err)
			return err
		}
		feed = parsed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing RSS %s: %w", url, err)
	}

	entries := toEntries(feed)
	f.logger.Info("loaded feed", "url", url, "entries", len(entries))
	return entries, nil
}

// Parse reads a feed document from r.
func Parse(r io.Reader) ([]Entry, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, err
	}
	return toEntries(feed), nil
}

func toEntries(feed *gofeed.Feed) []Entry {
	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		entries = append(entries, Entry{
			Title:     item.Title,
			Link:      item.Link,
			Published: item.Published,
			Summary:   summary,
		})
	}
	return entries
}
