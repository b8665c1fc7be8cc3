package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func hoursAgo(h float64) *time.Time {
	t := testNow.Add(-time.Duration(h * float64(time.Hour)))
	return &t
}

func TestScore_KeywordMatchesStack(t *testing.T) {
	weights := map[string]float64{
		"gpt-5":            3.0,
		"machine learning": 1.5,
		"ai":               1.0,
	}
	it := Item{
		Title:       "GPT-5 ushers in a new AI era",
		Description: "Advances in machine learning continue.",
	}
	// "ai" also matches inside "GPT-5 ushers in a new AI era"; all three stack.
	assert.InDelta(t, 5.5, Score(it, weights, testNow, ScoreOptions{}), 1e-9)
}

func TestScore_NoMatchesIsZero(t *testing.T) {
	it := Item{Title: "Gardening tips for spring", Description: "Roses and tulips."}
	assert.Zero(t, Score(it, map[string]float64{"quantum": 2.0}, testNow, ScoreOptions{}))
}

func TestScore_RecencyBoostDecaysLinearly(t *testing.T) {
	it := Item{Title: "x", PublishedParsed: hoursAgo(6)}
	// 2.0 * (1 - 6/24) = 1.5
	assert.InDelta(t, 1.5, Score(it, nil, testNow, ScoreOptions{}), 1e-9)

	it.PublishedParsed = hoursAgo(12)
	assert.InDelta(t, 1.0, Score(it, nil, testNow, ScoreOptions{}), 1e-9)
}

func TestScore_YoungerOfTwoIdenticalItemsScoresHigher(t *testing.T) {
	younger := Item{Title: "same headline", PublishedParsed: hoursAgo(2)}
	older := Item{Title: "same headline", PublishedParsed: hoursAgo(10)}
	assert.Greater(t,
		Score(younger, nil, testNow, ScoreOptions{}),
		Score(older, nil, testNow, ScoreOptions{}))
}

func TestScore_FutureTimestampClampedToMaxBoost(t *testing.T) {
	future := testNow.Add(3 * time.Hour)
	it := Item{Title: "x", PublishedParsed: &future}
	assert.InDelta(t, 2.0, Score(it, nil, testNow, ScoreOptions{}), 1e-9)
}

func TestScore_NoBoostOutsideWindowOrWithoutTimestamp(t *testing.T) {
	stale := Item{Title: "x", PublishedParsed: hoursAgo(24)}
	assert.Zero(t, Score(stale, nil, testNow, ScoreOptions{}))

	undated := Item{Title: "x"}
	assert.Zero(t, Score(undated, nil, testNow, ScoreOptions{}))
}

func TestScore_SubstanceBonuses(t *testing.T) {
	longTitle := strings.Repeat("word ", 13) // 65 chars
	longDesc := strings.Repeat("d", 201)

	assert.InDelta(t, 0.3, Score(Item{Title: longTitle}, nil, testNow, ScoreOptions{}), 1e-9)
	assert.InDelta(t, 0.5, Score(Item{Title: "t", Description: longDesc}, nil, testNow, ScoreOptions{}), 1e-9)
	assert.InDelta(t, 0.8, Score(Item{Title: longTitle, Description: longDesc}, nil, testNow, ScoreOptions{}), 1e-9)
}

func TestScore_CustomWindow(t *testing.T) {
	opts := ScoreOptions{RecencyWindow: 12 * time.Hour, MaxRecencyBoost: 4.0}
	it := Item{Title: "x", PublishedParsed: hoursAgo(6)}
	assert.InDelta(t, 2.0, Score(it, nil, testNow, opts), 1e-9)
}
