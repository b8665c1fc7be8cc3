package digest

import (
	"sort"
	"strings"
)

// QueryOptions bounds the generated search query list.
type QueryOptions struct {
	// MaxQueries caps the whole output sequence.
	MaxQueries int
	// TopKeywordLimit caps how many derived single-keyword queries lead the
	// sequence.
	TopKeywordLimit int
	// TopTierCutoff is the minimum weight a keyword needs to become a query.
	TopTierCutoff float64
}

const (
	defaultMaxQueries      = 10
	defaultTopKeywordLimit = 6
	defaultTopTierCutoff   = 2.5
)

func (o QueryOptions) withDefaults() QueryOptions {
	if o.MaxQueries <= 0 {
		o.MaxQueries = defaultMaxQueries
	}
	if o.TopKeywordLimit <= 0 {
		o.TopKeywordLimit = defaultTopKeywordLimit
	}
	if o.TopTierCutoff <= 0 {
		o.TopTierCutoff = defaultTopTierCutoff
	}
	return o
}

// GenerateQueries derives news-search queries from the keyword-weight table
// and appends the curated entity-group queries that pure derivation misses.
// Derived queries come first, ordered by weight descending (equal weights
// tie-break alphabetically so the output is deterministic); curated groups
// follow; the combined sequence is truncated to MaxQueries last, so excess
// curated queries are dropped before derived ones.
func GenerateQueries(weights map[string]float64, curated [][]string, opts QueryOptions) []string {
	opts = opts.withDefaults()

	type weighted struct {
		keyword string
		weight  float64
	}
	sorted := make([]weighted, 0, len(weights))
	for k, w := range weights {
		sorted = append(sorted, weighted{keyword: k, weight: w})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].weight != sorted[j].weight {
			return sorted[i].weight > sorted[j].weight
		}
		return sorted[i].keyword < sorted[j].keyword
	})

	var queries []string
	for _, kw := range sorted {
		if kw.weight < opts.TopTierCutoff || len(queries) >= opts.TopKeywordLimit {
			break
		}
		queries = append(queries, encodeTerm(kw.keyword))
	}

	for _, group := range curated {
		terms := make([]string, 0, len(group))
		for _, term := range group {
			if strings.TrimSpace(term) == "" {
				continue
			}
			terms = append(terms, encodeTerm(term))
		}
		if len(terms) == 0 {
			continue
		}
		queries = append(queries, strings.Join(terms, "+OR+"))
	}

	if len(queries) > opts.MaxQueries {
		queries = queries[:opts.MaxQueries]
	}
	return queries
}

// encodeTerm makes a keyword query-safe for the search feed URL.
func encodeTerm(term string) string {
	return strings.ReplaceAll(strings.TrimSpace(term), " ", "+")
}
