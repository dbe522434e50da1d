package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deusflow/speedread/internal/config"
	"github.com/deusflow/speedread/internal/llm"
	"github.com/deusflow/speedread/internal/metrics"
	"github.com/deusflow/speedread/internal/news"
	"github.com/deusflow/speedread/internal/ratelimit"
	"github.com/deusflow/speedread/internal/retry"
	"github.com/deusflow/speedread/internal/rss"
	"github.com/deusflow/speedread/internal/scraper"
	"github.com/deusflow/speedread/internal/storage"
	"github.com/deusflow/speedread/internal/summary"
)

// Saver persists the articles of one run.
type Saver interface {
	Save(articles []news.Article) (storage.SaveResult, error)
}

// Run wires the production components from cfg and executes one batch.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	budget := ratelimit.NewBudget(cfg.MaxLLMRequests)
	provider, err := llm.New(ctx, cfg, budget, metrics.Global)
	if err != nil {
		return fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}
	defer provider.Close()

	fetcher := rss.NewFetcher(cfg.UserAgent, retry.RetryConfig{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
	}, logger)
	extractor := scraper.NewExtractor(cfg.UserAgent, cfg.RequestTimeout)
	summarizer := summary.New(provider, logger)

	pipeline := news.NewPipeline(fetcher, extractor, summarizer, news.Options{
		MaxEntriesPerFeed: cfg.MaxEntriesPerFeed,
		MaxArticles:       cfg.MaxArticles,
		PacingDelay:       cfg.PacingDelay,
	}, metrics.Global, logger)
	store := storage.NewFileStore(cfg.SnapshotPath, cfg.HistoryPath, cfg.MaxHistory, logger)

	logger.Info("starting run", "provider", cfg.Provider, "model", cfg.Model, "feeds", len(cfg.Feeds))
	err = Execute(ctx, cfg.Feeds, pipeline, store, metrics.Global, logger)
	logBudget(logger, budget)
	return err
}

// Execute runs the pipeline over feeds and saves the result.
func Execute(ctx context.Context, feeds []string, pipeline *news.Pipeline, store Saver, m *metrics.Metrics, logger *slog.Logger) error {
	articles := pipeline.Run(ctx, feeds)
	logger.Info("collected articles", "count", len(articles))
	preview(logger, articles, 2)

	res, err := store.Save(articles)
	if err != nil {
		m.SetError(err.Error())
		return err
	}
	m.SetLastRun()

	logger.Info(fmt.Sprintf("Saved %d articles (%d new)", res.Saved, res.New))
	logger.Info("run stats", m.LogArgs()...)
	return nil
}

func logBudget(logger *slog.Logger, budget *ratelimit.Budget) {
	stats := budget.GetStats()
	logger.Info("model budget", "used", stats["used"], "limit", stats["limit"])
}

// preview logs the first n articles with their bullets.
func preview(logger *slog.Logger, articles []news.Article, n int) {
	for i, a := range articles {
		if i >= n {
			break
		}
		logger.Debug("preview", "hook", a.HookType, "title", a.Title, "link", a.Link, "summary", a.Summary)
	}
}
