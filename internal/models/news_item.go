package models

import (
	"strings"
	"time"
)

// Sentiment is the market tone the AI assigns to a headline
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// ParseSentiment maps free text onto the closed sentiment set, defaulting to neutral
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentBullish:
		return SentimentBullish
	case SentimentBearish:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// GlobalLocation marks an item that is not scoped to any place
const GlobalLocation = "Global"

// FallbackTitle replaces a missing headline
const FallbackTitle = "Breaking Update"

const (
	// MaxTitleLength is the longest title kept, ellipsis included
	MaxTitleLength = 100
	// MaxSources caps the grounding sources attached to an item
	MaxSources = 4
)

// Source is a grounding reference for a news item
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NewsItem represents one AI generated update
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Timestamp   time.Time `json:"timestamp"`
	Sources     []Source  `json:"sources"`
	Topic       string    `json:"topic"`
	ImageURL    string    `json:"image_url"`
	IsPostedToX bool      `json:"is_posted_to_x"`
	Sentiment   Sentiment `json:"sentiment"`
	Location    string    `json:"location"`
}

// Clone returns a copy that shares no slices with the receiver
func (n NewsItem) Clone() NewsItem {
	if n.Sources != nil {
		n.Sources = append([]Source(nil), n.Sources...)
	}
	return n
}

// Normalize applies the feed fallbacks: a missing title or location gets its default,
// the title is truncated, sentiment is forced into the closed set and sources are
// deduplicated and capped.
func (n *NewsItem) Normalize() {
	if strings.TrimSpace(n.Title) == "" {
		n.Title = FallbackTitle
	}
	n.Title = TruncateTitle(n.Title)
	if strings.TrimSpace(n.Location) == "" {
		n.Location = GlobalLocation
	}
	n.Sentiment = ParseSentiment(string(n.Sentiment))
	n.Sources = UniqueSources(n.Sources)
}

// TruncateTitle shortens a title to MaxTitleLength runes, ending it with "..."
func TruncateTitle(title string) string {
	r := []rune(title)
	if len(r) <= MaxTitleLength {
		return title
	}
	return string(r[:MaxTitleLength-3]) + "..."
}

// UniqueSources drops sources with an already seen URL and keeps at most MaxSources
func UniqueSources(sources []Source) []Source {
	seen := make(map[string]bool, len(sources))
	out := make([]Source, 0, MaxSources)
	for _, s := range sources {
		if seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		out = append(out, s)
		if len(out) == MaxSources {
			break
		}
	}
	return out
}
