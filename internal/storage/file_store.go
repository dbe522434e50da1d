package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/deusflow/speedread/internal/news"
)

const (
	SnapshotVersion   = "2.0"
	DefaultMaxHistory = 50
)

// Snapshot is the current-state document, replaced on every run.
type Snapshot struct {
	LastUpdated string         `json:"lastUpdated"`
	Articles    []news.Article `json:"articles"`
	Stats       Stats          `json:"stats"`
}

type Stats struct {
	TotalArticles int    `json:"totalArticles"`
	LastRefresh   string `json:"lastRefresh"`
	Version       string `json:"version"`
}

// History is the bounded rolling log, newest first and unique by link.
type History struct {
	LastUpdated   string         `json:"lastUpdated"`
	TotalArticles int            `json:"totalArticles"`
	Articles      []news.Article `json:"articles"`
}

// SaveResult reports how many articles were written and how many were new to history.
type SaveResult struct {
	Saved int
	New   int
}

// FileStore writes the snapshot and history JSON documents.
type FileStore struct {
	snapshotPath string
	historyPath  string
	maxHistory   int
	now          func() time.Time
	logger       *slog.Logger
}

func NewFileStore(snapshotPath, historyPath string, maxHistory int, logger *slog.Logger) *FileStore {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		snapshotPath: snapshotPath,
		historyPath:  historyPath,
		maxHistory:   maxHistory,
		now:          time.Now,
		logger:       logger,
	}
}

// Save overwrites the snapshot and merges articles into history.
func (fs *FileStore) Save(articles []news.Article) (SaveResult, error) {
	if articles == nil {
		articles = []news.Article{}
	}
	currentTime := news.FormatTimestamp(fs.now())

	snapshot := Snapshot{
		LastUpdated: currentTime,
		Articles:    articles,
		Stats: Stats{
			TotalArticles: len(articles),
			LastRefresh:   currentTime,
			Version:       SnapshotVersion,
		},
	}
	if err := writeJSON(fs.snapshotPath, snapshot); err != nil {
		return SaveResult{}, fmt.Errorf("failed to write snapshot: %w", err)
	}

	history, err := fs.LoadHistory()
	if err != nil {
		fs.logger.Warn("history unreadable, starting fresh", "path", fs.historyPath, "error", err)
		history = History{}
	}

	merged, added := MergeHistory(history.Articles, articles, fs.maxHistory)
	history = History{
		LastUpdated:   currentTime,
		TotalArticles: len(merged),
		Articles:      merged,
	}
	if err := writeJSON(fs.historyPath, history); err != nil {
		return SaveResult{}, fmt.Errorf("failed to write history: %w", err)
	}

	return SaveResult{Saved: len(articles), New: added}, nil
}

// LoadHistory reads the history document. A missing file is an empty history.
func (fs *FileStore) LoadHistory() (History, error) {
	data, err := os.ReadFile(fs.historyPath)
	if errors.Is(err, os.ErrNotExist) {
		return History{}, nil
	}
	if err != nil {
		return History{}, fmt.Errorf("failed to read history file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return History{}, nil
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return History{}, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return h, nil
}

// MergeHistory prepends articles whose link is not yet in existing and
// truncates the result to limit entries. It returns the merged list and the
// number of newly added articles.
func MergeHistory(existing, articles []news.Article, limit int) ([]news.Article, int) {
	known := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		known[a.Link] = struct{}{}
	}

	merged := make([]news.Article, 0, len(articles)+len(existing))
	for _, a := range articles {
		if _, ok := known[a.Link]; ok {
			continue
		}
		known[a.Link] = struct{}{}
		merged = append(merged, a)
	}
	added := len(merged)
	merged = append(merged, existing...)

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, added
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
