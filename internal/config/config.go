// Package config loads all runtime configuration in one place. Secrets and
// deployment knobs come from the environment; product knobs (feeds, keyword
// weights, thresholds, prompt text) come from a YAML profile so every digest
// variant is configuration, not a code path. Nothing outside Load reads the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Profile settings
	ProfilePath string
	Profile     Profile

	// Narrator settings
	GeminiAPIKey string
	GeminiModel  string

	// Mail settings
	SMTPHost     string
	SMTPPort     int
	FromEmail    string
	ToEmail      string
	SMTPPassword string

	// Pipeline settings
	EnableSearch     bool
	EnableMobileTLDR bool
	EnableScraper    bool
	DryRun           bool
	RequestTimeout   time.Duration
	ScrapeConcurrency int

	// Logs
	SendLogPath       string
	SendLogMaxEntries int
	FeedHealthLogPath string

	// App settings
	Debug          bool
	CronExpression string
	MonitoringPort string
}

// Profile is one digest variant: its feed list, keyword model, selection
// knobs and prompt text.
type Profile struct {
	Name  string   `yaml:"name"`
	Feeds []string `yaml:"feeds"`

	// KeywordWeights maps lower-case keyword/phrase to a positive weight.
	KeywordWeights map[string]float64 `yaml:"keywords"`

	MaxArticles        int     `yaml:"maxArticles"`
	RelevanceThreshold float64 `yaml:"relevanceThreshold"`
	PerSourceCap       int     `yaml:"perSourceCap"`

	RecencyWindowHours int     `yaml:"recencyWindowHours"`
	MaxRecencyBoost    float64 `yaml:"maxRecencyBoost"`

	MaxQueries      int        `yaml:"maxQueries"`
	TopKeywordLimit int        `yaml:"topKeywordLimit"`
	TopTierCutoff   float64    `yaml:"topTierCutoff"`
	CuratedQueries  [][]string `yaml:"curatedQueries"`

	PromptPreamble string `yaml:"promptPreamble"`
	ReaderContext  string `yaml:"readerContext"`
	FallbackSubject string `yaml:"fallbackSubject"`
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		ProfilePath:       "configs/enhanced.yaml",
		GeminiModel:       "gemini-1.5-flash",
		SMTPHost:          "smtp.gmail.com",
		SMTPPort:          465,
		EnableSearch:      true,
		EnableMobileTLDR:  true,
		EnableScraper:     false,
		RequestTimeout:    15 * time.Second,
		ScrapeConcurrency: 4,
		SendLogPath:       "email_log.json",
		SendLogMaxEntries: 30,
		FeedHealthLogPath: "feed_health.log",
	}

	if v := os.Getenv("DIGEST_PROFILE"); v != "" {
		cfg.ProfilePath = v
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.SMTPPort = port
		}
	}
	cfg.FromEmail = os.Getenv("FROM_EMAIL")
	cfg.ToEmail = os.Getenv("TO_EMAIL")
	cfg.SMTPPassword = os.Getenv("SMTP_APP_PASSWORD")

	cfg.EnableSearch = envBool("ENABLE_GOOGLE_NEWS", cfg.EnableSearch)
	cfg.EnableMobileTLDR = envBool("ENABLE_MOBILE_TLDR", cfg.EnableMobileTLDR)
	cfg.EnableScraper = envBool("ENABLE_SCRAPER", cfg.EnableScraper)
	cfg.DryRun = envBool("DRY_RUN", false)
	cfg.Debug = envBool("DEBUG", false)

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("SCRAPE_CONCURRENCY"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.ScrapeConcurrency = val
		}
	}

	if v := os.Getenv("SEND_LOG_PATH"); v != "" {
		cfg.SendLogPath = v
	}
	if v := os.Getenv("FEED_HEALTH_LOG_PATH"); v != "" {
		cfg.FeedHealthLogPath = v
	}

	cfg.CronExpression = os.Getenv("DIGEST_CRON")
	cfg.MonitoringPort = os.Getenv("MONITORING_PORT")

	profile, err := LoadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	cfg.Profile = *profile

	return cfg, cfg.Validate()
}

// LoadProfile reads and validates a digest variant profile.
func LoadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile %s: %w", path, err)
	}
	defer f.Close()

	p := &Profile{
		MaxArticles:        20,
		RelevanceThreshold: 0.8,
		PerSourceCap:       3,
		RecencyWindowHours: 24,
		MaxRecencyBoost:    2.0,
		MaxQueries:         10,
		TopKeywordLimit:    6,
		TopTierCutoff:      2.5,
	}

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if len(p.Feeds) == 0 {
		return nil, fmt.Errorf("profile %s lists no feeds", path)
	}
	if len(p.KeywordWeights) == 0 {
		return nil, fmt.Errorf("profile %s has no keyword weights", path)
	}
	return p, nil
}

func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if !c.DryRun {
		if c.FromEmail == "" || c.ToEmail == "" || c.SMTPPassword == "" {
			return fmt.Errorf("FROM_EMAIL, TO_EMAIL and SMTP_APP_PASSWORD are required unless DRY_RUN is set")
		}
	}
	return nil
}

func envBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	switch v {
	case "":
		return defaultValue
	case "1", "true", "yes", "TRUE", "True":
		return true
	default:
		return false
	}
}
