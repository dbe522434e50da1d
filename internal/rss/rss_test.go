package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/speedread/internal/retry"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Boston.com</title>
    <link>https://www.boston.com</link>
    <description>Local news</description>
    <item>
      <title>Red Sox win in extra innings</title>
      <link>https://www.boston.com/sports/red-sox-win</link>
      <pubDate>Tue, 02 Jan 2024 10:00:00 +0000</pubDate>
      <description>The Sox walked it off at Fenway.</description>
    </item>
    <item>
      <title>MBTA announces Orange Line closure</title>
      <link>https://www.boston.com/news/orange-line</link>
      <description></description>
    </item>
  </channel>
</rss>`

func TestParse_MapsItems(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, Entry{
		Title:     "Red Sox win in extra innings",
		Link:      "https://www.boston.com/sports/red-sox-win",
		Published: "Tue, 02 Jan 2024 10:00:00 +0000",
		Summary:   "The Sox walked it off at Fenway.",
	}, entries[0])

	assert.Equal(t, "MBTA announces Orange Line closure", entries[1].Title)
	assert.Empty(t, entries[1].Published)
	assert.Empty(t, entries[1].Summary)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("not a feed"))
	assert.Error(t, err)
}

func TestFetcher_Fetch(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFetcher("SpeedReadTest/1.0", retry.RetryConfig{MaxAttempts: 1}, nil)
	entries, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "SpeedReadTest/1.0", gotUA.Load())
}

func TestFetcher_FetchRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFetcher("test", retry.RetryConfig{MaxAttempts: 2, Delay: time.Millisecond}, nil)
	entries, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetcher_FetchSingleAttemptFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher("test", retry.RetryConfig{MaxAttempts: 1}, nil)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
