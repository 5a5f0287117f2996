package ai

import (
	"regexp"
	"strings"

	"github.com/bilgisen/chronos/internal/models"
)

const (
	emptyResponseTitle = "Intelligence Synchronized"
	fallbackSummary    = "No summary available."
	fallbackSourceName = "Source"
)

var (
	titleRe     = regexp.MustCompile(`(?i)TITLE:\s*(.*)`)
	sentimentRe = regexp.MustCompile(`(?i)SENTIMENT:\s*\**\s*(bullish|bearish|neutral)`)
	locationRe  = regexp.MustCompile(`(?i)LOCATION:\s*(.*)`)
	summaryRe   = regexp.MustCompile(`(?i)SUMMARY:\s*([\s\S]*)`)
	controlRe   = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// Headline is the structured content pulled out of a model answer
type Headline struct {
	Title     string
	Sentiment models.Sentiment
	Location  string
	Summary   string
	Sources   []models.Source
}

// ParseHeadline extracts the labelled fields from the model text and applies fallbacks
// for anything missing. Sources are deduplicated by URL and capped.
func ParseHeadline(text string, sources []models.Source) Headline {
	raw := strings.TrimSpace(text)

	h := Headline{
		Title:     models.FallbackTitle,
		Sentiment: models.SentimentNeutral,
		Location:  models.GlobalLocation,
		Summary:   raw,
		Sources:   models.UniqueSources(sources),
	}

	if raw == "" {
		h.Title = emptyResponseTitle
		h.Summary = fallbackSummary
		return h
	}

	if m := titleRe.FindStringSubmatch(raw); m != nil {
		if title := cleanText(m[1]); title != "" {
			h.Title = title
		}
	}
	if m := sentimentRe.FindStringSubmatch(raw); m != nil {
		h.Sentiment = models.ParseSentiment(m[1])
	}
	if m := locationRe.FindStringSubmatch(raw); m != nil {
		if loc := cleanText(m[1]); loc != "" {
			h.Location = loc
		}
	}
	if m := summaryRe.FindStringSubmatch(raw); m != nil {
		if summary := strings.TrimSpace(strings.Trim(m[1], "* ")); summary != "" {
			h.Summary = summary
		}
	}

	h.Title = models.TruncateTitle(h.Title)
	return h
}

// cleanText removes control characters, stray markdown emphasis and normalizes whitespace
func cleanText(s string) string {
	s = controlRe.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, "*_ ")
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.TrimSpace(s)
}
