// Package digest implements the article scoring, deduplication and
// diversity-selection pipeline: a noisy, duplicate-laden stream of fetched
// entries goes in, a small ranked candidate list comes out. The whole package
// is pure computation over in-memory slices; it performs no I/O and callers
// may run any number of pipelines concurrently.
package digest

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deusflow/digest/internal/feed"
)

// maxDescriptionLen caps the normalized description (in runes). Plain
// truncation, no word-boundary awareness.
const maxDescriptionLen = 500

// Item is one normalized candidate entry for a digest. Items live for a
// single pipeline run; Score is written once by the selector, everything else
// is read-only after Normalize.
type Item struct {
	Source      string
	Title       string
	Description string
	URL         string

	// PublishedAt keeps the source's textual timestamp for display.
	// PublishedParsed is nil when the source gave no parseable date; the
	// scorer then simply applies no recency boost.
	PublishedAt     string
	PublishedParsed *time.Time

	Score float64
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize converts a raw feed entry into a canonical Item. Body text is
// taken from the first non-empty of summary, the first content variant, and
// description; markup tags are stripped and whitespace collapsed. Malformed
// or missing fields degrade to empty values, never to an error.
func Normalize(e feed.RawEntry) Item {
	body := strings.TrimSpace(e.Summary)
	if body == "" && len(e.Content) > 0 {
		body = strings.TrimSpace(e.Content[0])
	}
	if body == "" {
		body = strings.TrimSpace(e.Description)
	}

	body = tagPattern.ReplaceAllString(body, "")
	body = strings.TrimSpace(whitespacePattern.ReplaceAllString(body, " "))
	if utf8.RuneCountInString(body) > maxDescriptionLen {
		body = string([]rune(body)[:maxDescriptionLen])
	}

	publishedAt := e.Published
	if publishedAt == "" {
		publishedAt = e.Updated
	}

	published := e.PublishedParsed
	if published == nil {
		published = e.UpdatedParsed
	}

	return Item{
		Source:          strings.TrimSpace(e.SourceTitle),
		Title:           strings.TrimSpace(e.Title),
		Description:     body,
		URL:             strings.TrimSpace(e.Link),
		PublishedAt:     publishedAt,
		PublishedParsed: published,
	}
}

// NormalizeAll maps Normalize over a batch of raw entries.
func NormalizeAll(entries []feed.RawEntry) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Normalize(e))
	}
	return items
}
