package ai

import (
	"strings"
	"testing"

	"github.com/bilgisen/chronos/internal/models"
)

func TestParseHeadline(t *testing.T) {
	text := `TITLE: AI Breakthrough Shakes Chip Makers
SENTIMENT: Bullish
LOCATION: San Francisco, USA
SUMMARY: A new model architecture cut inference costs in half.
Analysts expect a wave of upgrades.`

	h := ParseHeadline(text, nil)

	if h.Title != "AI Breakthrough Shakes Chip Makers" {
		t.Errorf("unexpected title %q", h.Title)
	}
	if h.Sentiment != models.SentimentBullish {
		t.Errorf("unexpected sentiment %q", h.Sentiment)
	}
	if h.Location != "San Francisco, USA" {
		t.Errorf("unexpected location %q", h.Location)
	}
	if !strings.HasPrefix(h.Summary, "A new model architecture") || !strings.HasSuffix(h.Summary, "wave of upgrades.") {
		t.Errorf("unexpected summary %q", h.Summary)
	}
}

func TestParseHeadlineMarkdownLabels(t *testing.T) {
	text := "**TITLE:** Rates Hold Steady\n**SENTIMENT:** bearish\n**LOCATION:** [Global]\n**SUMMARY:** The central bank paused."

	h := ParseHeadline(text, nil)

	if h.Title != "Rates Hold Steady" {
		t.Errorf("unexpected title %q", h.Title)
	}
	if h.Sentiment != models.SentimentBearish {
		t.Errorf("unexpected sentiment %q", h.Sentiment)
	}
	if h.Location != "Global" {
		t.Errorf("unexpected location %q", h.Location)
	}
	if h.Summary != "The central bank paused." {
		t.Errorf("unexpected summary %q", h.Summary)
	}
}

func TestParseHeadlineFallbacks(t *testing.T) {
	t.Run("unstructured text", func(t *testing.T) {
		text := "Markets were quiet today with little movement."
		h := ParseHeadline(text, nil)

		if h.Title != models.FallbackTitle {
			t.Errorf("expected fallback title, got %q", h.Title)
		}
		if h.Sentiment != models.SentimentNeutral {
			t.Errorf("expected neutral sentiment, got %q", h.Sentiment)
		}
		if h.Location != models.GlobalLocation {
			t.Errorf("expected Global location, got %q", h.Location)
		}
		if h.Summary != text {
			t.Errorf("expected raw text as summary, got %q", h.Summary)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		h := ParseHeadline("   ", nil)
		if h.Title != emptyResponseTitle {
			t.Errorf("expected %q, got %q", emptyResponseTitle, h.Title)
		}
		if h.Summary != fallbackSummary {
			t.Errorf("expected placeholder summary, got %q", h.Summary)
		}
	})

	t.Run("unknown sentiment", func(t *testing.T) {
		h := ParseHeadline("TITLE: X\nSENTIMENT: ecstatic", nil)
		if h.Sentiment != models.SentimentNeutral {
			t.Errorf("expected neutral, got %q", h.Sentiment)
		}
	})
}

func TestParseHeadlineTruncatesAndDedups(t *testing.T) {
	long := strings.Repeat("Headline ", 20)
	sources := []models.Source{
		{Title: "A", URL: "https://a"},
		{Title: "A2", URL: "https://a"},
		{Title: "B", URL: "https://b"},
		{Title: "C", URL: "https://c"},
		{Title: "D", URL: "https://d"},
		{Title: "E", URL: "https://e"},
	}

	h := ParseHeadline("TITLE: "+long, sources)

	if len(h.Title) != models.MaxTitleLength || !strings.HasSuffix(h.Title, "...") {
		t.Errorf("expected truncated title, got %q (%d)", h.Title, len(h.Title))
	}
	if len(h.Sources) != models.MaxSources {
		t.Errorf("expected %d sources, got %d", models.MaxSources, len(h.Sources))
	}
}

func TestBuildHeadlinePrompt(t *testing.T) {
	global := BuildHeadlinePrompt("Technology", nil)
	if !strings.Contains(global, "in the Technology category") {
		t.Errorf("prompt missing topic: %s", global)
	}
	if strings.Contains(global, "coordinates") {
		t.Error("global prompt should not mention coordinates")
	}

	local := BuildHeadlinePrompt("Sports", &models.Coordinates{Lat: 40.4, Lng: -3.7})
	if !strings.Contains(local, "near coordinates 40.4, -3.7") {
		t.Errorf("local prompt missing coordinates: %s", local)
	}
}
