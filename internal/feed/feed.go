// Package feed fetches RSS/Atom feeds and ad-hoc news-search feeds and hands
// the raw entries to the digest pipeline. Every feed failure is logged and
// skipped; a bad feed never aborts a run.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
)

const userAgent = "Mozilla/5.0 (compatible; DigestBot/2.0)"

// RawEntry is the loosely-shaped feed entry as sources deliver it. Any field
// may be empty; downstream normalization decides what to keep. Content holds
// the content variants some feeds publish alongside (or instead of) a summary.
type RawEntry struct {
	SourceTitle string
	Title       string
	Summary     string
	Content     []string
	Description string
	Link        string
	Published   string
	Updated     string

	PublishedParsed *time.Time
	UpdatedParsed   *time.Time
}

// FromGofeed maps a parsed gofeed item onto a RawEntry. gofeed folds what
// feedparser calls "summary" into Description, so that is where Summary comes
// from; Item.Content becomes the single content variant.
func FromGofeed(sourceTitle string, it *gofeed.Item) RawEntry {
	e := RawEntry{
		SourceTitle:     sourceTitle,
		Title:           it.Title,
		Summary:         it.Description,
		Link:            it.Link,
		Published:       it.Published,
		Updated:         it.Updated,
		PublishedParsed: it.PublishedParsed,
		UpdatedParsed:   it.UpdatedParsed,
	}
	if it.Content != "" {
		e.Content = []string{it.Content}
	}
	return e
}

// Fetcher downloads feeds with a shared HTTP client and browser-like
// User-Agent (several news sites reject default Go clients).
type Fetcher struct {
	parser *gofeed.Parser

	// RawItemCap stops fetching once this many entries are collected
	// (0 = unlimited). Fetching a few multiples of the article budget is
	// enough; the selector discards the rest anyway.
	RawItemCap int

	// PerQueryLimit caps entries kept per search query to avoid one query
	// flooding the candidate pool.
	PerQueryLimit int

	// HealthLog, when set, receives one record per feed fetch attempt.
	HealthLog HealthLogger

	// SearchBaseURL is the news-search feed endpoint; the query string is
	// appended verbatim.
	SearchBaseURL string
}

// HealthLogger records per-feed fetch outcomes for monitoring.
type HealthLogger interface {
	RecordFeedHealth(url string, err error)
}

func NewFetcher(timeout time.Duration) *Fetcher {
	p := gofeed.NewParser()
	p.UserAgent = userAgent
	p.Client = &http.Client{Timeout: timeout}
	return &Fetcher{
		parser:        p,
		PerQueryLimit: 5,
		SearchBaseURL: "https://news.google.com/rss/search?q=%s&hl=en&gl=US&ceid=US:en",
	}
}

// FetchAll downloads and parses every feed URL, returning the collected raw
// entries. Feeds that fail to fetch or parse are logged and skipped.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []RawEntry {
	var entries []RawEntry
	successCount := 0

	for _, url := range urls {
		parsed, err := f.parser.ParseURLWithContext(url, ctx)
		if f.HealthLog != nil {
			f.HealthLog.RecordFeedHealth(url, err)
		}
		if err != nil {
			logger.Warn("failed to fetch feed", "url", url, "error", err)
			continue
		}
		successCount++

		sourceTitle := parsed.Title
		if sourceTitle == "" {
			sourceTitle = url
		}

		for _, it := range parsed.Items {
			entries = append(entries, FromGofeed(sourceTitle, it))
			if f.RawItemCap > 0 && len(entries) >= f.RawItemCap {
				break
			}
		}
		logger.Debug("feed loaded", "url", url, "items", len(parsed.Items))

		if f.RawItemCap > 0 && len(entries) >= f.RawItemCap {
			break
		}
	}

	metrics.Global.AddFeedsFetched(int64(successCount))
	metrics.Global.AddItemsFetched(int64(len(entries)))
	logger.Info("feeds processed", "ok", successCount, "total", len(urls), "items", len(entries))
	return entries
}

// FetchSearch runs each pre-encoded query against the Google News search feed
// and keeps at most PerQueryLimit entries per query. Queries come from the
// digest query generator, already "+"-joined.
func (f *Fetcher) FetchSearch(ctx context.Context, queries []string) []RawEntry {
	var entries []RawEntry

	for _, query := range queries {
		url := fmt.Sprintf(f.SearchBaseURL, query)
		parsed, err := f.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			logger.Warn("search query failed", "query", query, "error", err)
			continue
		}

		limit := f.PerQueryLimit
		if limit <= 0 || limit > len(parsed.Items) {
			limit = len(parsed.Items)
		}
		for _, it := range parsed.Items[:limit] {
			entries = append(entries, FromGofeed("Google News (Real-time)", it))
		}
	}

	metrics.Global.AddItemsFetched(int64(len(entries)))
	logger.Info("search feeds processed", "queries", len(queries), "items", len(entries))
	return entries
}
