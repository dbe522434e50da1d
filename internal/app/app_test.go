package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/speedread/internal/metrics"
	"github.com/deusflow/speedread/internal/news"
	"github.com/deusflow/speedread/internal/ratelimit"
	"github.com/deusflow/speedread/internal/rss"
	"github.com/deusflow/speedread/internal/storage"
	"github.com/deusflow/speedread/internal/summary"
)

type staticFeeds map[string][]rss.Entry

func (s staticFeeds) Fetch(_ context.Context, url string) ([]rss.Entry, error) {
	entries, ok := s[url]
	if !ok {
		return nil, errors.New("feed not found")
	}
	return entries, nil
}

type noContent struct{}

func (noContent) Fetch(context.Context, string) (string, error) {
	return "", errors.New("HTTP error: 404")
}

type echoSummarizer struct{}

func (echoSummarizer) Summarize(_ context.Context, title, content string) summary.Summary {
	return summary.Summary{Bullets: []string{title, content, "third"}}
}

type failingSaver struct{}

func (failingSaver) Save([]news.Article) (storage.SaveResult, error) {
	return storage.SaveResult{}, errors.New("disk full")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPipeline(m *metrics.Metrics) *news.Pipeline {
	feeds := staticFeeds{
		"https://www.boston.com/feed/bdc-msn-rss": {
			{Title: "Bruins win", Link: "https://www.boston.com/sports/bruins", Published: "2024-01-02", Summary: "Recap"},
			{Title: "Bruins win", Link: "https://www.boston.com/sports/bruins", Published: "2024-01-01", Summary: "Dup"},
		},
	}
	return news.NewPipeline(feeds, noContent{}, echoSummarizer{}, news.Options{}, m, discardLogger())
}

func TestExecute_WritesBothDocuments(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFileStore(filepath.Join(dir, "news-data.json"), filepath.Join(dir, "news-history.json"), 50, discardLogger())
	m := metrics.New()

	err := Execute(context.Background(), []string{"https://www.boston.com/feed/bdc-msn-rss", "https://missing"}, testPipeline(m), store, m, discardLogger())
	require.NoError(t, err)

	h, err := store.LoadHistory()
	require.NoError(t, err)
	require.Len(t, h.Articles, 1)
	assert.Equal(t, []string{"Bruins win", "Recap", "third"}, h.Articles[0].Summary)

	assert.True(t, m.IsHealthy)
	assert.Equal(t, int64(1), m.FeedFailures)
	assert.Equal(t, int64(1), m.DuplicatesSkipped)
}

func TestExecute_SaveErrorIsReturned(t *testing.T) {
	m := metrics.New()

	err := Execute(context.Background(), []string{"https://www.boston.com/feed/bdc-msn-rss"}, testPipeline(m), failingSaver{}, m, discardLogger())

	require.Error(t, err)
	assert.False(t, m.IsHealthy)
	assert.Equal(t, "disk full", m.LastError)
}

func TestLogBudget(t *testing.T) {
	var buf bytes.Buffer
	budget := ratelimit.NewBudget(5)
	require.NoError(t, budget.Use())

	logBudget(slog.New(slog.NewTextHandler(&buf, nil)), budget)

	assert.Contains(t, buf.String(), "used=1")
	assert.Contains(t, buf.String(), "limit=5")
}
