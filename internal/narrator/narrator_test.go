package narrator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deusflow/digest/internal/digest"
)

const sampleNarrative = `Subject: AI Eats the Living Room

=== TOP INSIGHT ===
Streaming platforms are racing to deploy generative recommendation engines.
The losers are hand-curated catalogs.

=== KEY THEMES TODAY ===
• Personalization: every platform announced an engine
• Video generation: costs fell again
• Consolidation: two mid-size studios merged
• Extra theme that should be cut

=== DETAILED STORIES ===

## 1. Netflix ships a generative home screen
**Source**: The Verge

Body of story one.

## 2. Spotify licenses voice cloning for ads
**Source**: TechCrunch

Body of story two.

=== BOTTOM LINE ===
Expect more of the same.`

func TestSplitSubject(t *testing.T) {
	subject, body := SplitSubject(sampleNarrative, "fallback")
	assert.Equal(t, "AI Eats the Living Room", subject)
	assert.False(t, strings.Contains(body, "Subject:"))
	assert.True(t, strings.HasPrefix(body, "=== TOP INSIGHT ==="))
}

func TestSplitSubject_FallbackWhenMissing(t *testing.T) {
	subject, body := SplitSubject("no subject line here\nbody continues", "Daily AI Digest")
	assert.Equal(t, "Daily AI Digest", subject)
	assert.Equal(t, "no subject line here\nbody continues", body)
}

func TestMobileTLDR(t *testing.T) {
	out := MobileTLDR(sampleNarrative, "AI Eats the Living Room")

	assert.Contains(t, out, "Subject: AI Eats the Living Room")
	assert.Contains(t, out, "Streaming platforms are racing")
	assert.Contains(t, out, "• Personalization")
	assert.NotContains(t, out, "Extra theme", "themes are capped at three")
	assert.Contains(t, out, "1. Netflix ships a generative home screen")
	assert.Contains(t, out, "2. Spotify licenses voice cloning for ads")
	assert.NotContains(t, out, "Body of story")
}

func TestBuildPrompt_ListsEveryItemWithScore(t *testing.T) {
	items := []digest.Item{
		{Title: "First", Source: "A", URL: "https://a.com/1", Description: "d1", Score: 3.25},
		{Title: "Second", Source: "B", URL: "https://b.com/2", Description: "d2", Score: 1.5},
	}
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	prompt := BuildPrompt(items, "You are a digest writer.", "Reader builds media products.", now)

	assert.True(t, strings.HasPrefix(prompt, "You are a digest writer."))
	assert.Contains(t, prompt, "Reader builds media products.")
	assert.Contains(t, prompt, "[1] Title: First")
	assert.Contains(t, prompt, "[2] Title: Second")
	assert.Contains(t, prompt, "Relevance Score: 3.25")
	assert.Contains(t, prompt, "https://b.com/2")
	assert.True(t, strings.Index(prompt, "First") < strings.Index(prompt, "Second"),
		"items appear in ranked order")
}
