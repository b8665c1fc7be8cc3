// Package app wires the pipeline together: fetch, widen, normalize, select,
// enrich, narrate, deliver, log.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/deusflow/digest/internal/config"
	"github.com/deusflow/digest/internal/digest"
	"github.com/deusflow/digest/internal/feed"
	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/mail"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/narrator"
	"github.com/deusflow/digest/internal/scraper"
	"github.com/deusflow/digest/internal/storage"
)

// Run executes one full digest run. A run with no relevant articles is a
// normal outcome and returns nil.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(start))
	}()

	err := run(ctx, cfg)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}
	metrics.Global.SetLastRun()
	return nil
}

func run(ctx context.Context, cfg *config.Config) error {
	profile := cfg.Profile
	sendLog := storage.NewSendLog(cfg.SendLogPath, cfg.SendLogMaxEntries)

	fetcher := feed.NewFetcher(cfg.RequestTimeout)
	fetcher.RawItemCap = profile.MaxArticles * 5
	fetcher.HealthLog = storage.NewFeedHealthLog(cfg.FeedHealthLogPath)

	logger.Info("fetching feeds", "profile", profile.Name, "feeds", len(profile.Feeds))
	entries := fetcher.FetchAll(ctx, profile.Feeds)

	if cfg.EnableSearch {
		queries := digest.GenerateQueries(profile.KeywordWeights, profile.CuratedQueries, digest.QueryOptions{
			MaxQueries:      profile.MaxQueries,
			TopKeywordLimit: profile.TopKeywordLimit,
			TopTierCutoff:   profile.TopTierCutoff,
		})
		logger.Info("widening via search feeds", "queries", len(queries))
		entries = append(entries, fetcher.FetchSearch(ctx, queries)...)
	}

	items := digest.NormalizeAll(entries)

	selector, err := digest.NewSelector(digest.Options{
		Budget:       profile.MaxArticles,
		Threshold:    profile.RelevanceThreshold,
		PerSourceCap: profile.PerSourceCap,
		Weights:      profile.KeywordWeights,
		Scoring: digest.ScoreOptions{
			RecencyWindow:   time.Duration(profile.RecencyWindowHours) * time.Hour,
			MaxRecencyBoost: profile.MaxRecencyBoost,
		},
	})
	if err != nil {
		return fmt.Errorf("invalid selection profile: %w", err)
	}

	selected, duplicates := selector.Select(items, time.Now())
	metrics.Global.AddDuplicatesFiltered(int64(duplicates))
	metrics.Global.AddItemsSelected(int64(len(selected)))
	logger.Info("articles selected", "raw", len(items), "selected", len(selected), "duplicates", duplicates)
	for i, it := range selected {
		if i >= 5 {
			break
		}
		logger.Debug("top article", "rank", i+1, "score", fmt.Sprintf("%.2f", it.Score), "title", it.Title)
	}

	if len(selected) == 0 {
		logger.Warn("no relevant articles today, nothing to send")
		return nil
	}

	if cfg.EnableScraper {
		enrich(selected, cfg)
	}

	nc, err := narrator.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	defer nc.Close()

	narrative, err := nc.Narrate(ctx, selected, profile.PromptPreamble, profile.ReaderContext, profile.FallbackSubject, time.Now())
	if err != nil {
		return fmt.Errorf("narration failed: %w", err)
	}

	mobileTLDR := ""
	if cfg.EnableMobileTLDR {
		mobileTLDR = narrator.MobileTLDR(narrative.Raw, narrative.Subject)
	}

	if cfg.DryRun {
		fmt.Println("================ DRY RUN - EMAIL PREVIEW ================")
		fmt.Println("Subject:", narrative.Subject)
		if mobileTLDR != "" {
			fmt.Println(mobileTLDR)
		}
		fmt.Println(narrative.Body)
		fmt.Println("=========================================================")
		return sendLog.Append("DRY_RUN", narrative.Subject)
	}

	sender := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail, cfg.ToEmail, cfg.SMTPPassword, cfg.RequestTimeout)
	if err := sender.Send(ctx, narrative.Subject, narrative.Body, mobileTLDR); err != nil {
		if logErr := sendLog.Append("FAILED: "+truncate(err.Error(), 100), narrative.Subject); logErr != nil {
			logger.Warn("failed to update send log", "error", logErr)
		}
		return err
	}
	return sendLog.Append("SUCCESS", narrative.Subject)
}

// enrich swaps teaser descriptions for scraped full text where extraction
// succeeds and yields something substantial.
func enrich(selected []digest.Item, cfg *config.Config) {
	urls := make([]string, 0, len(selected))
	for _, it := range selected {
		urls = append(urls, it.URL)
	}

	extractor := scraper.NewExtractor(cfg.RequestTimeout, cfg.ScrapeConcurrency)
	full := extractor.ExtractAll(urls)

	for i := range selected {
		if text, ok := full[selected[i].URL]; ok && len(text) > 200 {
			selected[i].Description = text
			logger.Debug("article enriched", "url", selected[i].URL, "chars", len(text))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
