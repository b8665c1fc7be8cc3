package digest

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ScoreOptions tunes the relevance scorer. The zero value selects the
// defaults used by every digest variant.
type ScoreOptions struct {
	// RecencyWindow is how long after publication the recency boost applies.
	RecencyWindow time.Duration
	// MaxRecencyBoost is the boost at age zero; it decays linearly to zero
	// at the window boundary.
	MaxRecencyBoost float64
}

const (
	defaultRecencyWindow   = 24 * time.Hour
	defaultMaxRecencyBoost = 2.0

	longTitleBonus       = 0.3
	longDescriptionBonus = 0.5

	longTitleRunes       = 60
	longDescriptionRunes = 200
)

func (o ScoreOptions) withDefaults() ScoreOptions {
	if o.RecencyWindow <= 0 {
		o.RecencyWindow = defaultRecencyWindow
	}
	if o.MaxRecencyBoost <= 0 {
		o.MaxRecencyBoost = defaultMaxRecencyBoost
	}
	return o
}

// Score computes the relevance score of an item against a keyword-weight
// table. Every keyword whose lower-cased form appears in the lower-cased
// title+description adds its weight; matches stack, there is no early exit.
// On top of keyword weight come the recency boost and fixed substance bonuses
// for long titles and descriptions. The result is never negative.
func Score(it Item, weights map[string]float64, now time.Time, opts ScoreOptions) float64 {
	opts = opts.withDefaults()

	haystack := strings.ToLower(it.Title + " " + it.Description)
	score := 0.0

	for keyword, weight := range weights {
		k := strings.ToLower(keyword)
		if k == "" {
			continue
		}
		if strings.Contains(haystack, k) {
			score += weight
		}
	}

	if it.PublishedParsed != nil {
		age := now.Sub(*it.PublishedParsed)
		// Future timestamps (clock skew) count as age zero so the boost
		// never exceeds MaxRecencyBoost.
		if age < 0 {
			age = 0
		}
		if age < opts.RecencyWindow {
			score += opts.MaxRecencyBoost * (1 - age.Hours()/opts.RecencyWindow.Hours())
		}
	}

	if utf8.RuneCountInString(it.Title) > longTitleRunes {
		score += longTitleBonus
	}
	if utf8.RuneCountInString(it.Description) > longDescriptionRunes {
		score += longDescriptionBonus
	}

	if score < 0 {
		score = 0
	}
	return score
}
