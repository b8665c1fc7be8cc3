// Package scraper optionally enriches selected items with full article text
// before narration. Feed descriptions are often a one-line teaser; the
// narrator writes noticeably better stories from full paragraphs.
package scraper

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/digest/internal/logger"
)

// minParagraphLen drops nav crumbs, bylines and cookie banners that news
// sites scatter between real paragraphs.
const minParagraphLen = 40

var contentSelectors = []string{
	"article p",
	".article-body p",
	".entry-content p",
	".post-content p",
	".content p",
	"main p",
}

type Extractor struct {
	client      *http.Client
	concurrency int
}

func NewExtractor(timeout time.Duration, concurrency int) *Extractor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Extractor{
		client:      &http.Client{Timeout: timeout},
		concurrency: concurrency,
	}
}

// ExtractAll fetches every URL concurrently and returns the extracted text
// keyed by URL. URLs that fail or yield nothing are simply absent from the
// result; callers keep the feed description in that case.
func (e *Extractor) ExtractAll(urls []string) map[string]string {
	results := make(map[string]string, len(urls))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.concurrency)

	for _, url := range urls {
		if url == "" {
			continue
		}
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			text, err := e.extract(url)
			if err != nil {
				logger.Debug("article extraction failed", "url", url, "error", err)
				return
			}
			mu.Lock()
			results[url] = text
			mu.Unlock()
		}(url)
	}

	wg.Wait()
	return results
}

func (e *Extractor) extract(url string) (string, error) {
	resp, err := e.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	var paragraphs []string
	for _, selector := range contentSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) >= minParagraphLen {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			break
		}
	}

	if len(paragraphs) == 0 {
		return "", fmt.Errorf("no article content found")
	}
	return strings.Join(paragraphs, "\n\n"), nil
}
