package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_ExactURLMatch(t *testing.T) {
	tr := NewTracker()
	tr.Remember(Item{Title: "Anthropic ships new model", URL: "https://example.com/a"})

	dup := Item{Title: "A completely different headline entirely", URL: "https://example.com/a"}
	assert.True(t, tr.IsDuplicate(dup), "same URL is the same story regardless of title")

	other := Item{Title: "Unrelated robotics funding news roundup", URL: "https://example.com/b"}
	assert.False(t, tr.IsDuplicate(other))
}

func TestTracker_URLComparisonTrimsWhitespace(t *testing.T) {
	tr := NewTracker()
	tr.Remember(Item{Title: "first story headline", URL: "https://example.com/a"})
	assert.True(t, tr.IsDuplicate(Item{Title: "totally different words here now", URL: "  https://example.com/a  "}))
}

func TestTracker_EmptyURLNeverMatchesByURL(t *testing.T) {
	tr := NewTracker()
	tr.Remember(Item{Title: "alpha beta gamma delta epsilon", URL: ""})
	assert.False(t, tr.IsDuplicate(Item{Title: "one two three four five", URL: ""}))
}

func TestTracker_NearDuplicateTitles(t *testing.T) {
	tr := NewTracker()
	tr.Remember(Item{
		Title: "OpenAI releases GPT-5 model today",
		URL:   "https://siteone.com/gpt5",
	})

	// Four of the first five tokens shared; different URL.
	paraphrase := Item{
		Title: "OpenAI releases GPT-5 model this week",
		URL:   "https://sitetwo.com/gpt5-launch",
	}
	assert.True(t, tr.IsDuplicate(paraphrase))
}

func TestTracker_TwoSharedTokensIsNotADuplicate(t *testing.T) {
	tr := NewTracker()
	tr.Remember(Item{Title: "OpenAI releases new benchmark results", URL: "https://a.com/1"})

	candidate := Item{Title: "OpenAI hires chief hardware engineer", URL: "https://b.com/2"}
	assert.False(t, tr.IsDuplicate(candidate), "only 'openai' shared")
}

func TestTracker_OnlyTitlePrefixIsCompared(t *testing.T) {
	tr := NewTracker()
	tr.Remember(Item{Title: "Markets open flat on Monday while investors await jobs data", URL: "https://a.com/1"})

	// Shares three words, but all past the fifth token of the remembered title.
	candidate := Item{Title: "Economists say investors await jobs data", URL: "https://b.com/2"}
	assert.False(t, tr.IsDuplicate(candidate))
}

func TestTracker_CaseInsensitiveTitles(t *testing.T) {
	tr := NewTracker()
	tr.Remember(Item{Title: "Netflix Tests Cheaper Ad Tier", URL: "https://a.com/1"})
	assert.True(t, tr.IsDuplicate(Item{Title: "netflix tests cheaper ad plan", URL: "https://b.com/2"}))
}
