package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	EntriesSeen       int64
	ArticlesProcessed int64
	DuplicatesSkipped int64
	FeedFailures      int64
	ScrapeFallbacks   int64
	SummaryFallbacks  int64
	ModelCalls        int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) IncrementEntriesSeen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesSeen++
}

func (m *Metrics) IncrementArticlesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesProcessed++
}

func (m *Metrics) IncrementDuplicatesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped++
}

func (m *Metrics) IncrementFeedFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFailures++
}

func (m *Metrics) IncrementScrapeFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScrapeFallbacks++
}

func (m *Metrics) IncrementSummaryFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryFallbacks++
}

func (m *Metrics) IncrementModelCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ModelCalls++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"entries_seen":               m.EntriesSeen,
		"articles_processed":         m.ArticlesProcessed,
		"duplicates_skipped":         m.DuplicatesSkipped,
		"feed_failures":              m.FeedFailures,
		"scrape_fallbacks":           m.ScrapeFallbacks,
		"summary_fallbacks":          m.SummaryFallbacks,
		"model_calls":                m.ModelCalls,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

// LogArgs flattens the stats into slog key/value pairs in a stable order.
func (m *Metrics) LogArgs() []any {
	stats := m.GetStats()
	keys := []string{
		"entries_seen", "articles_processed", "duplicates_skipped", "feed_failures",
		"scrape_fallbacks", "summary_fallbacks", "model_calls", "last_processing_time_ms",
	}
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, stats[k])
	}
	return args
}
