package news

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/deusflow/speedread/internal/classify"
	"github.com/deusflow/speedread/internal/metrics"
	"github.com/deusflow/speedread/internal/ratelimit"
	"github.com/deusflow/speedread/internal/rss"
	"github.com/deusflow/speedread/internal/summary"
)

// FeedFetcher returns the entries of one feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]rss.Entry, error)
}

// ContentFetcher returns the article text behind a link.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Summarizer produces exactly three bullets for a story.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) summary.Summary
}

type Options struct {
	MaxEntriesPerFeed int
	MaxArticles       int
	PacingDelay       time.Duration
	Now               func() time.Time
}

func DefaultOptions() Options {
	return Options{
		MaxEntriesPerFeed: 15,
		MaxArticles:       12,
		PacingDelay:       time.Second,
	}
}

type Pipeline struct {
	feeds      FeedFetcher
	content    ContentFetcher
	summarizer Summarizer
	opts       Options
	pacer      *ratelimit.Pacer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewPipeline(feeds FeedFetcher, content ContentFetcher, summarizer Summarizer, opts Options, m *metrics.Metrics, logger *slog.Logger) *Pipeline {
	defaults := DefaultOptions()
	if opts.MaxEntriesPerFeed <= 0 {
		opts.MaxEntriesPerFeed = defaults.MaxEntriesPerFeed
	}
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = defaults.MaxArticles
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		feeds:      feeds,
		content:    content,
		summarizer: summarizer,
		opts:       opts,
		pacer:      ratelimit.NewPacer(opts.PacingDelay),
		metrics:    m,
		logger:     logger,
	}
}

// Run processes feedURLs in order and returns at most MaxArticles articles,
// newest first by raw pubDate. Feed failures are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, feedURLs []string) []Article {
	startTime := time.Now()
	defer func() {
		p.metrics.RecordProcessingTime(time.Since(startTime))
	}()

	seenLinks := map[string]struct{}{}
	var articles []Article

feeds:
	for _, feedURL := range feedURLs {
		p.logger.Info("fetching feed", "url", feedURL)
		entries, err := p.feeds.Fetch(ctx, feedURL)
		if err != nil {
			p.logger.Error("error processing feed", "url", feedURL, "error", err)
			p.metrics.IncrementFeedFailures()
			continue
		}

		if len(entries) > p.opts.MaxEntriesPerFeed {
			entries = entries[:p.opts.MaxEntriesPerFeed]
		}

		for _, entry := range entries {
			p.metrics.IncrementEntriesSeen()
			if _, dup := seenLinks[entry.Link]; dup {
				p.logger.Debug("duplicate link skipped", "link", entry.Link)
				p.metrics.IncrementDuplicatesSkipped()
				continue
			}
			seenLinks[entry.Link] = struct{}{}

			if err := p.pacer.Wait(ctx); err != nil {
				p.logger.Warn("run interrupted", "error", err)
				break feeds
			}

			articles = append(articles, p.process(ctx, entry))
		}
	}

	sortByPubDate(articles)
	if len(articles) > p.opts.MaxArticles {
		articles = articles[:p.opts.MaxArticles]
	}
	return articles
}

func (p *Pipeline) process(ctx context.Context, entry rss.Entry) Article {
	content, err := p.content.Fetch(ctx, entry.Link)
	if err != nil || content == "" {
		p.logger.Warn("error fetching article content, using feed summary", "url", entry.Link, "error", err)
		p.metrics.IncrementScrapeFallbacks()
		content = entry.Summary
	}

	s := p.summarizer.Summarize(ctx, entry.Title, content)
	if s.IsFallback() {
		p.metrics.IncrementSummaryFallbacks()
	}

	article := Article{
		Title:       entry.Title,
		Link:        entry.Link,
		PubDate:     entry.Published,
		Summary:     s.Bullets,
		HookType:    classify.Classify(entry.Title, content),
		ProcessedAt: FormatTimestamp(p.opts.Now()),
	}

	p.metrics.IncrementArticlesProcessed()
	p.logger.Info("processed", "title", shorten(entry.Title, 60), "hook", article.HookType, "summary", s.Source)
	return article
}

// sortByPubDate orders newest first by plain string comparison; ties keep feed order.
func sortByPubDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PubDate > articles[j].PubDate
	})
}

func shorten(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
