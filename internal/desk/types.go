// Package desk runs the update cycle: it schedules headline fetches, suppresses
// repeated headlines, syndicates novel ones and keeps the bounded feed and audit log
// that the dashboard renders.
package desk

import (
	"context"
	"errors"
	"time"

	"github.com/bilgisen/chronos/internal/models"
)

// ContentProvider generates a candidate news item for a topic
type ContentProvider interface {
	Generate(ctx context.Context, topic string, loc *models.Coordinates) (*models.NewsItem, error)
}

// Publisher syndicates an item to X
type Publisher interface {
	Publish(ctx context.Context, item models.NewsItem) error
}

// Authorizer performs the X account link handshake
type Authorizer interface {
	Authorize(ctx context.Context) error
}

// Locator returns the current position, best effort
type Locator interface {
	CurrentLocation(ctx context.Context) (*models.Coordinates, error)
}

// State is the controller's position in the update cycle
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateSyndicating State = "syndicating"
	StateCooldown    State = "cooldown"
)

const (
	// MaxHistory is the number of items kept in the feed
	MaxHistory = 20
	// MaxLogEntries is the number of audit entries kept
	MaxLogEntries = 15
	// GatewayDisruptionMessage is shown to the user after any provider failure
	GatewayDisruptionMessage = "AI Gateway disruption. Retrying next cycle..."
)

var (
	ErrProviderFetch   = errors.New("content provider failed")
	ErrSyndication     = errors.New("syndication failed")
	ErrNotLinked       = errors.New("x account not linked")
	ErrItemNotFound    = errors.New("news item not found")
	ErrAlreadyPosted   = errors.New("news item already posted")
	ErrPostInFlight    = errors.New("news item is being posted")
	ErrCycleInFlight   = errors.New("update cycle already in progress")
	ErrLinkInFlight    = errors.New("account link already in progress")
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrInvalidInterval = errors.New("invalid update interval")
)

// LogEntry is one line of the audit log
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

func (e LogEntry) String() string {
	return "[" + e.Time.Format("15:04:05") + "] " + e.Message
}

// Snapshot is a point in time copy of everything the dashboard shows
type Snapshot struct {
	State            State             `json:"state"`
	Loading          bool              `json:"loading"`
	History          []models.NewsItem `json:"history"`
	Settings         models.Settings   `json:"settings"`
	Log              []LogEntry        `json:"log"`
	Error            string            `json:"error,omitempty"`
	Countdown        int               `json:"countdown_seconds"`
	LocationAcquired bool              `json:"location_acquired"`
	Linking          bool              `json:"linking"`
}

// Options configures a Controller
type Options struct {
	Settings models.Settings
	// Now overrides the clock used for item-independent timestamps. Defaults to time.Now.
	Now func() time.Time
}
