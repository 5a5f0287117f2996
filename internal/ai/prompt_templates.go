package ai

import (
	"fmt"

	"github.com/bilgisen/chronos/internal/models"
)

// PromptTemplates contains the prompt templates used for headline generation
var PromptTemplates = struct {
	Headline      string
	LocalPriority string
}{
	Headline: `Find the most significant news headline in the %s category from the last 60 minutes.
%s

Return the result in this format:
TITLE: [Headline]
SENTIMENT: [bullish, bearish, or neutral]
LOCATION: [Detected city/country or 'Global']
SUMMARY: [2-3 sentence engaging journalistic summary]`,
	LocalPriority: "Prioritize news happening near coordinates %g, %g if relevant, otherwise stick to major global news.",
}

// BuildHeadlinePrompt creates the headline prompt for a topic, optionally scoped to a location
func BuildHeadlinePrompt(topic string, loc *models.Coordinates) string {
	locationContext := ""
	if loc != nil {
		locationContext = fmt.Sprintf(PromptTemplates.LocalPriority, loc.Lat, loc.Lng)
	}
	return fmt.Sprintf(PromptTemplates.Headline, topic, locationContext)
}
