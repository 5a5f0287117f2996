package models

import "fmt"

// Topic is one of the news categories the desk can follow
type Topic string

const (
	TopicGeneral       Topic = "General News"
	TopicTech          Topic = "Technology"
	TopicBusiness      Topic = "Business"
	TopicSports        Topic = "Sports"
	TopicScience       Topic = "Science"
	TopicEntertainment Topic = "Entertainment"
	TopicCrypto        Topic = "Crypto & Web3"
)

// Topics lists every supported topic in display order
var Topics = []Topic{
	TopicGeneral,
	TopicTech,
	TopicBusiness,
	TopicSports,
	TopicScience,
	TopicEntertainment,
	TopicCrypto,
}

// ParseTopic validates a topic name
func ParseTopic(s string) (Topic, error) {
	for _, t := range Topics {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", s)
}

// IntervalOption is a selectable refresh cadence
type IntervalOption struct {
	Label   string `json:"label"`
	Minutes int    `json:"minutes"`
}

// Intervals lists the allowed update cadences
var Intervals = []IntervalOption{
	{Label: "1m", Minutes: 1},
	{Label: "15m", Minutes: 15},
	{Label: "1h", Minutes: 60},
	{Label: "4h", Minutes: 240},
}

// ValidInterval reports whether minutes is one of Intervals
func ValidInterval(minutes int) bool {
	for _, o := range Intervals {
		if o.Minutes == minutes {
			return true
		}
	}
	return false
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Settings holds the user controlled desk configuration
type Settings struct {
	Topic                 Topic `json:"topic"`
	UpdateIntervalMinutes int   `json:"update_interval_minutes"`
	AutoPostToX           bool  `json:"auto_post_to_x"`
	LocalMode             bool  `json:"local_mode"`
	IsXConnected          bool  `json:"is_x_connected"`
}

// DefaultSettings mirrors the dashboard's startup state
func DefaultSettings() Settings {
	return Settings{
		Topic:                 TopicTech,
		UpdateIntervalMinutes: 60,
		AutoPostToX:           true,
	}
}

// IntervalSeconds is the countdown length for the configured cadence
func (s Settings) IntervalSeconds() int {
	return s.UpdateIntervalMinutes * 60
}
