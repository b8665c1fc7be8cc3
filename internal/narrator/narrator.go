// Package narrator turns the selected candidate items into the digest
// narrative via Gemini. Prompt wording lives in the profile; this package
// only assembles it, calls the model and splits the response.
package narrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/digest/internal/digest"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/retry"
)

type Client struct {
	client *genai.Client
	model  string
}

// Narrative is the parsed model output: a subject line and the digest body.
type Narrative struct {
	Subject string
	Body    string
	Raw     string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Narrate builds the digest prompt from the selected items and asks the
// model for the narrative. fallbackSubject is used when the response carries
// no Subject: line.
func (c *Client) Narrate(ctx context.Context, items []digest.Item, preamble, readerContext, fallbackSubject string, now time.Time) (*Narrative, error) {
	metrics.Global.IncrementNarratorCalls()

	prompt := BuildPrompt(items, preamble, readerContext, now)
	model := c.client.GenerativeModel(c.model)

	var resp *genai.GenerateContentResponse
	err := retry.WithRetry(ctx, retry.Config{
		MaxAttempts: 2,
		Delay:       2 * time.Second,
	}, func() error {
		var genErr error
		resp, genErr = model.GenerateContent(ctx, genai.Text(prompt))
		return genErr
	})
	if err != nil {
		metrics.Global.IncrementNarratorFailures()
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		metrics.Global.IncrementNarratorFailures()
		return nil, fmt.Errorf("no response from Gemini")
	}

	raw := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	subject, body := SplitSubject(raw, fallbackSubject)
	return &Narrative{Subject: subject, Body: body, Raw: raw}, nil
}

// BuildPrompt assembles the narration prompt: profile preamble, reader
// context, then every selected item with its metadata and score, sorted as
// the selector ranked them.
func BuildPrompt(items []digest.Item, preamble, readerContext string, now time.Time) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(preamble))
	b.WriteString("\n\n")

	if strings.TrimSpace(readerContext) != "" {
		b.WriteString("CONTEXT ABOUT YOUR READER:\n")
		b.WriteString(strings.TrimSpace(readerContext))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Current time: %s\n\n", now.Format("2006-01-02 15:04 MST")))
	b.WriteString("NOW, HERE ARE TODAY'S ARTICLES (sorted by relevance):\n")

	for i, it := range items {
		b.WriteString(fmt.Sprintf(`
[%d] Title: %s
Source: %s
Published: %s
URL: %s
Description: %s
Relevance Score: %.2f
`, i+1, it.Title, it.Source, it.PublishedAt, it.URL, it.Description, it.Score))
	}

	b.WriteString(`
IMPORTANT REMINDERS:
- Only use information provided above - no hallucinations
- Connect stories and identify patterns
- Include specific facts and details

Write the digest now:`)

	return b.String()
}

// SplitSubject separates a leading "Subject:" line from the body, falling
// back to the given subject when the model omitted one.
func SplitSubject(raw, fallbackSubject string) (subject, body string) {
	subject = fallbackSubject

	lines := strings.Split(raw, "\n")
	if len(lines) == 0 {
		return subject, strings.TrimSpace(raw)
	}

	first := strings.TrimSpace(lines[0])
	if s, ok := strings.CutPrefix(first, "Subject:"); ok {
		subject = strings.TrimSpace(s)
		return subject, strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
	return subject, strings.TrimSpace(raw)
}

// MobileTLDR condenses the narrative into the quick-scan block placed at the
// top of the email: the top insight, up to three key-theme bullets and up to
// five story titles.
func MobileTLDR(raw, subject string) string {
	lines := strings.Split(raw, "\n")
	var b strings.Builder

	b.WriteString("📱 QUICK SCAN (Mobile)\n\n")
	b.WriteString("Subject: " + subject + "\n")
	b.WriteString(strings.Repeat("=", 50))

	if insight := extractSection(lines, "TOP INSIGHT"); len(insight) > 0 {
		b.WriteString("\n\n🎯 TODAY'S INSIGHT:\n")
		if len(insight) > 2 {
			insight = insight[:2]
		}
		b.WriteString(strings.Join(insight, " "))
	}

	themes := extractBullets(lines, "KEY THEMES", 3)
	if len(themes) > 0 {
		b.WriteString("\n\n🔑 KEY THEMES:\n")
		b.WriteString(strings.Join(themes, "\n"))
	}

	titles := extractStoryTitles(lines, 5)
	if len(titles) > 0 {
		b.WriteString("\n\n📰 STORIES (full digest below):\n")
		for i, title := range titles {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, title))
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	return b.String()
}

// extractSection returns the non-empty lines between a === HEADER === marker
// and the next section or story heading.
func extractSection(lines []string, header string) []string {
	var out []string
	in := false
	for _, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, header) {
			in = true
			continue
		}
		if !in {
			continue
		}
		if strings.HasPrefix(line, "===") || strings.HasPrefix(line, "##") {
			break
		}
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// extractBullets collects up to max bullet lines following a section header.
func extractBullets(lines []string, header string, max int) []string {
	var out []string
	in := false
	for _, line := range lines {
		if strings.Contains(strings.ToUpper(line), header) {
			in = true
			continue
		}
		if !in {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "•") || strings.HasPrefix(trimmed, "- ") {
			out = append(out, trimmed)
			if len(out) >= max {
				break
			}
		} else if strings.HasPrefix(line, "===") {
			break
		}
	}
	return out
}

// extractStoryTitles pulls the "## N. Title" headings, numbering stripped.
func extractStoryTitles(lines []string, max int) []string {
	var out []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "## ") {
			continue
		}
		title := strings.TrimSpace(strings.TrimPrefix(line, "## "))
		if before, after, found := strings.Cut(title, ". "); found && len(before) <= 3 {
			title = after
		}
		if r := []rune(title); len(r) > 60 {
			title = string(r[:60]) + "..."
		}
		out = append(out, title)
		if len(out) >= max {
			break
		}
	}
	return out
}
