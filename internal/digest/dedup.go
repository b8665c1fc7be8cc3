package digest

import "strings"

// titlePrefixTokens is how many leading title words feed the near-duplicate
// check, and titleOverlapThreshold how many of them must be shared before two
// items count as the same story.
const (
	titlePrefixTokens     = 5
	titleOverlapThreshold = 3
)

// Tracker detects duplicates incrementally as the selector walks the ranked
// list. Two items are the same story when their trimmed URLs match exactly,
// or when the first five tokens of their lower-cased titles share three or
// more words.
//
// The token-overlap heuristic tolerates paraphrased headlines but is known to
// produce false positives on short generic titles: two unrelated "AI news
// roundup" items collide.
type Tracker struct {
	seenURLs    map[string]struct{}
	titleTokens []map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{seenURLs: make(map[string]struct{})}
}

// IsDuplicate reports whether the item matches anything remembered so far.
func (t *Tracker) IsDuplicate(it Item) bool {
	url := strings.TrimSpace(it.URL)
	if url != "" {
		if _, dup := t.seenURLs[url]; dup {
			return true
		}
	}

	tokens := tokenizeTitle(it.Title)
	for _, seen := range t.titleTokens {
		if overlap(tokens, seen) >= titleOverlapThreshold {
			return true
		}
	}
	return false
}

// Remember records the item so later candidates can be compared against it.
func (t *Tracker) Remember(it Item) {
	t.seenURLs[strings.TrimSpace(it.URL)] = struct{}{}
	t.titleTokens = append(t.titleTokens, tokenizeTitle(it.Title))
}

func tokenizeTitle(title string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(title)))
	if len(words) > titlePrefixTokens {
		words = words[:titlePrefixTokens]
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
