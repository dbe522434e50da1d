package news

import (
	"time"

	"github.com/deusflow/speedread/internal/classify"
)

// TimestampLayout renders UTC instants as e.g. 2024-01-02T03:04:05.000000+00:00.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// Article is one processed story. It is never modified after creation.
type Article struct {
	Title       string            `json:"title"`
	Link        string            `json:"link"`
	PubDate     string            `json:"pubDate"`
	Summary     []string          `json:"summary"`
	HookType    classify.HookType `json:"hookType"`
	ProcessedAt string            `json:"processed_at"`
}

// FormatTimestamp formats t in UTC with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
