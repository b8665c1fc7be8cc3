package digest

import (
	"fmt"
	"sort"
	"time"
)

// Options configures a Selector. Budget, Threshold and PerSourceCap differ
// between digest variants and are deliberately not unified here; each variant
// supplies its own profile.
type Options struct {
	// Budget is the maximum number of items in the final selection.
	Budget int
	// Threshold is the minimum score, exclusive: items scoring exactly the
	// threshold are rejected.
	Threshold float64
	// PerSourceCap limits how many accepted items one source may contribute.
	PerSourceCap int

	Weights map[string]float64
	Scoring ScoreOptions
}

// Selector turns a raw item list into the ranked, deduplicated,
// source-diverse candidate list handed to the narrator. One Selector serves
// all digest variants; only the Options differ.
type Selector struct {
	opts Options
}

// NewSelector validates the options and builds a Selector. Malformed feed
// data never errors downstream; the only errors in this package are the
// contract violations rejected here.
func NewSelector(opts Options) (*Selector, error) {
	if opts.Budget < 0 {
		return nil, fmt.Errorf("budget must not be negative, got %d", opts.Budget)
	}
	if opts.Budget > 0 && opts.PerSourceCap <= 0 {
		return nil, fmt.Errorf("per-source cap must be positive when budget is %d, got %d", opts.Budget, opts.PerSourceCap)
	}
	for keyword, weight := range opts.Weights {
		if weight < 0 {
			return nil, fmt.Errorf("keyword %q has negative weight %v", keyword, weight)
		}
	}
	return &Selector{opts: opts}, nil
}

// Select scores every item, drops those at or below the threshold, ranks the
// survivors by score (stable, so equal scores keep their input order), walks
// the ranking through duplicate detection until the budget is filled, and
// finally applies the per-source cap. The cap pass can shrink the list below
// budget but never reorders it: a higher-scored story never appears after a
// lower-scored one. The second return value is the number of duplicates
// discarded; callers that keep counters record it themselves, Select touches
// no shared state.
//
// An empty result is a legitimate outcome (no articles today), not an error.
func (s *Selector) Select(items []Item, now time.Time) ([]Item, int) {
	scored := make([]Item, 0, len(items))
	for _, it := range items {
		it.Score = Score(it, s.opts.Weights, now, s.opts.Scoring)
		if it.Score > s.opts.Threshold {
			scored = append(scored, it)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	tracker := NewTracker()
	unique := make([]Item, 0, s.opts.Budget)
	duplicates := 0
	for _, it := range scored {
		if len(unique) >= s.opts.Budget {
			break
		}
		if tracker.IsDuplicate(it) {
			duplicates++
			continue
		}
		tracker.Remember(it)
		unique = append(unique, it)
	}

	sourceCounts := make(map[string]int)
	diverse := make([]Item, 0, len(unique))
	for _, it := range unique {
		if sourceCounts[it.Source] < s.opts.PerSourceCap {
			diverse = append(diverse, it)
			sourceCounts[it.Source]++
		}
	}

	return diverse, duplicates
}
