package desk

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bilgisen/chronos/internal/logger"
	"github.com/bilgisen/chronos/internal/models"
)

// tickInterval is the countdown resolution.
const tickInterval = time.Second

// Controller owns the desk state. All mutation happens under mu; provider calls run
// outside the lock and the fetching state guarantees a single cycle in flight.
type Controller struct {
	content    ContentProvider
	publisher  Publisher
	authorizer Authorizer
	locator    Locator
	now        func() time.Time

	mu        sync.Mutex
	baseCtx   context.Context
	state     State
	settings  models.Settings
	history   []models.NewsItem
	audit     []LogEntry
	lastError string
	countdown int
	location  *models.Coordinates
	linking   bool
	linkGen   int
	posting   map[string]bool

	subsMu  sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int

	wg sync.WaitGroup
}

// New creates a Controller in the idle state with a full countdown.
func New(content ContentProvider, publisher Publisher, authorizer Authorizer, locator Locator, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	settings := opts.Settings
	if !models.ValidInterval(settings.UpdateIntervalMinutes) {
		settings.UpdateIntervalMinutes = models.DefaultSettings().UpdateIntervalMinutes
	}
	if _, err := models.ParseTopic(string(settings.Topic)); err != nil {
		settings.Topic = models.DefaultSettings().Topic
	}
	// Linking only happens through the handshake.
	settings.IsXConnected = false

	return &Controller{
		content:    content,
		publisher:  publisher,
		authorizer: authorizer,
		locator:    locator,
		now:        opts.Now,
		baseCtx:    context.Background(),
		state:      StateIdle,
		settings:   settings,
		countdown:  settings.IntervalSeconds(),
		posting:    make(map[string]bool),
		subs:       make(map[int]chan Snapshot),
	}
}

// Start acquires the location, runs the first cycle and then drives the countdown
// once per second until ctx is cancelled. Use Wait to block until it has stopped.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.baseCtx = ctx
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.AcquireLocation(ctx)
		c.TriggerUpdate()

		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("Update cycle loop stopping")
				return
			case <-ticker.C:
				c.Tick()
			}
		}
	}()
}

// Wait blocks until the loop and every background cycle, publish and link have returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// AcquireLocation asks the locator for a position. Failure only disables local mode.
func (c *Controller) AcquireLocation(ctx context.Context) {
	if c.locator == nil {
		return
	}
	loc, err := c.locator.CurrentLocation(ctx)

	c.mu.Lock()
	if err != nil || loc == nil {
		c.location = nil
		c.addLog("Location services bypassed.")
		logger.Warn().Err(err).Msg("Location unavailable, local mode disabled")
	} else {
		c.location = loc
		logger.Info().Float64("lat", loc.Lat).Float64("lng", loc.Lng).Msg("Location acquired")
	}
	c.mu.Unlock()
	c.notify()
}

// Tick advances the countdown by one second and starts a cycle when it expires.
// The countdown holds while a cycle is running.
func (c *Controller) Tick() {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	if c.countdown > 0 {
		c.countdown--
	}
	expired := c.countdown <= 0
	c.mu.Unlock()

	if expired {
		c.TriggerUpdate()
	}
}

// TriggerUpdate starts a cycle in the background. It returns false, doing nothing,
// when a cycle is already running.
func (c *Controller) TriggerUpdate() bool {
	topic, loc, ok := c.begin()
	if !ok {
		return false
	}

	c.mu.Lock()
	ctx := c.baseCtx
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.cycle(ctx, topic, loc)
	}()
	return true
}

// RunCycle runs one cycle to completion on the calling goroutine.
func (c *Controller) RunCycle(ctx context.Context) error {
	topic, loc, ok := c.begin()
	if !ok {
		return ErrCycleInFlight
	}
	c.cycle(ctx, topic, loc)
	return nil
}

// begin moves Idle to Fetching and captures the request parameters.
func (c *Controller) begin() (string, *models.Coordinates, bool) {
	c.mu.Lock()
	if c.state == StateFetching || c.state == StateSyndicating {
		c.mu.Unlock()
		logger.Debug().Msg("Update already in flight, trigger ignored")
		return "", nil, false
	}

	c.state = StateFetching
	c.lastError = ""
	topic := string(c.settings.Topic)

	var loc *models.Coordinates
	if c.settings.LocalMode && c.location != nil {
		l := *c.location
		loc = &l
	}

	c.addLog("Scanning Neural Grid: " + topic)
	c.mu.Unlock()

	c.notify()
	return topic, loc, true
}

func (c *Controller) cycle(ctx context.Context, topic string, loc *models.Coordinates) {
	defer c.settle()

	start := c.now()
	log := logger.Component("desk")

	item, err := c.content.Generate(ctx, topic, loc)
	if err == nil && item == nil {
		err = fmt.Errorf("empty result")
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrProviderFetch, err)
		log.Error().Err(err).Str("topic", topic).Msg("Headline fetch failed")

		c.mu.Lock()
		c.lastError = GatewayDisruptionMessage
		c.addLog("Interference detected in AI gateway.")
		c.finish()
		c.mu.Unlock()
		c.notify()
		return
	}

	fresh := item.Clone()
	fresh.IsPostedToX = false
	fresh.Normalize()

	c.mu.Lock()
	if len(c.history) > 0 && c.history[0].Title == fresh.Title {
		c.addLog("Signal static. Maintaining current buffer.")
		log.Info().Str("title", fresh.Title).Msg("Duplicate headline suppressed")
		c.finish()
		c.mu.Unlock()
		c.notify()
		return
	}

	autoPost := c.settings.AutoPostToX
	connected := c.settings.IsXConnected

	switch {
	case autoPost && connected:
		c.state = StateSyndicating
		c.addLog("Autonomous Syndication Protocol triggered...")
		c.mu.Unlock()
		c.notify()

		pubErr := c.publisher.Publish(ctx, fresh)

		c.mu.Lock()
		if pubErr != nil {
			log.Error().Err(fmt.Errorf("%w: %v", ErrSyndication, pubErr)).Str("id", fresh.ID).Msg("Auto syndication failed")
			c.addLog("Syndication uplink failed. Item retained unposted.")
		} else {
			fresh.IsPostedToX = true
			c.addLog("Broadcast complete. Syndicated to X.")
		}
	case autoPost:
		log.Warn().Str("id", fresh.ID).Msg("Auto syndication skipped, X account not linked")
		c.addLog("Syndication blocked: X account not linked.")
	}

	c.history = append([]models.NewsItem{fresh}, c.history...)
	if len(c.history) > MaxHistory {
		c.history = c.history[:MaxHistory]
	}
	c.addLog("Intelligence synchronized: " + strings.ToUpper(string(fresh.Sentiment)))

	log.Info().
		Str("id", fresh.ID).
		Str("title", fresh.Title).
		Str("sentiment", string(fresh.Sentiment)).
		Bool("posted", fresh.IsPostedToX).
		Dur("duration", c.now().Sub(start)).
		Msg("Update cycle complete")

	c.finish()
	c.mu.Unlock()
	c.notify()
}

// finish enters Cooldown and rearms the countdown. Caller holds mu.
func (c *Controller) finish() {
	c.state = StateCooldown
	c.countdown = c.settings.IntervalSeconds()
}

// settle returns a finished cycle to Idle once the Cooldown snapshot has gone out.
// A cycle started in between keeps its state.
func (c *Controller) settle() {
	c.mu.Lock()
	if c.state != StateCooldown {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.mu.Unlock()
	c.notify()
}

// PostItem syndicates a stored item on demand and marks it posted on success.
func (c *Controller) PostItem(ctx context.Context, id string) error {
	c.mu.Lock()
	if !c.settings.IsXConnected {
		c.addLog("Manual uplink rejected: X account not linked.")
		c.mu.Unlock()
		c.notify()
		return ErrNotLinked
	}

	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrItemNotFound
	}
	if c.history[idx].IsPostedToX {
		c.mu.Unlock()
		return ErrAlreadyPosted
	}
	if c.posting[id] {
		c.mu.Unlock()
		return ErrPostInFlight
	}

	c.posting[id] = true
	item := c.history[idx].Clone()
	c.addLog("Establishing manual uplink...")
	c.mu.Unlock()
	c.notify()

	err := c.publisher.Publish(ctx, item)

	c.mu.Lock()
	delete(c.posting, id)
	if err != nil {
		c.addLog("Manual transmission failed.")
		c.mu.Unlock()
		c.notify()
		err = fmt.Errorf("%w: %v", ErrSyndication, err)
		logger.Error().Err(err).Str("id", id).Msg("Manual syndication failed")
		return err
	}

	// The item may have been evicted while publishing.
	if idx := c.indexOf(id); idx >= 0 {
		c.history[idx].IsPostedToX = true
	}
	c.addLog("Manual transmission successful.")
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Controller) indexOf(id string) int {
	for i := range c.history {
		if c.history[i].ID == id {
			return i
		}
	}
	return -1
}

// LinkAccount runs the authorization handshake and marks X as connected.
// Linking an already linked account is a no-op.
func (c *Controller) LinkAccount(ctx context.Context) error {
	gen, started, err := c.beginLink()
	if err != nil || !started {
		return err
	}
	return c.completeLink(ctx, gen)
}

// StartLink runs the handshake in the background and reports whether it started.
// It returns false with a nil error when the account is already linked and
// ErrLinkInFlight when a handshake is running.
func (c *Controller) StartLink() (bool, error) {
	gen, started, err := c.beginLink()
	if err != nil || !started {
		return false, err
	}

	c.mu.Lock()
	ctx := c.baseCtx
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.completeLink(ctx, gen)
	}()
	return true, nil
}

func (c *Controller) beginLink() (int, bool, error) {
	c.mu.Lock()
	if c.settings.IsXConnected {
		c.mu.Unlock()
		return 0, false, nil
	}
	if c.linking {
		c.mu.Unlock()
		return 0, false, ErrLinkInFlight
	}
	c.linking = true
	gen := c.linkGen
	c.addLog("Initiating X authorization handshake...")
	c.mu.Unlock()
	c.notify()
	return gen, true, nil
}

func (c *Controller) completeLink(ctx context.Context, gen int) error {
	err := c.authorizer.Authorize(ctx)

	c.mu.Lock()
	c.linking = false
	switch {
	case err != nil:
		c.addLog("X authorization aborted.")
	case gen != c.linkGen:
		// Unlinked while the handshake was running.
		err = fmt.Errorf("link cancelled by unlink")
	default:
		c.settings.IsXConnected = true
		c.addLog("X account linked. Syndication uplink ready.")
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		logger.Warn().Err(err).Msg("X account link failed")
	}
	return err
}

// UnlinkAccount disconnects X immediately.
func (c *Controller) UnlinkAccount() {
	c.mu.Lock()
	c.linkGen++
	c.settings.IsXConnected = false
	c.addLog("X account unlinked.")
	c.mu.Unlock()
	c.notify()
}

// SetTopic changes the topic used from the next cycle on.
func (c *Controller) SetTopic(topic string) error {
	t, err := models.ParseTopic(topic)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTopic, err)
	}

	c.mu.Lock()
	c.settings.Topic = t
	c.mu.Unlock()
	c.notify()

	logger.Info().Str("topic", topic).Msg("Topic changed")
	return nil
}

// SetInterval changes the cadence and restarts the countdown at the new length.
func (c *Controller) SetInterval(minutes int) error {
	if !models.ValidInterval(minutes) {
		return fmt.Errorf("%w: %d minutes", ErrInvalidInterval, minutes)
	}

	c.mu.Lock()
	c.settings.UpdateIntervalMinutes = minutes
	c.countdown = c.settings.IntervalSeconds()
	c.mu.Unlock()
	c.notify()

	logger.Info().Int("minutes", minutes).Msg("Update interval changed")
	return nil
}

// ToggleLocalMode flips local mode. Without an acquired location it does nothing.
func (c *Controller) ToggleLocalMode() bool {
	c.mu.Lock()
	if c.location == nil {
		enabled := c.settings.LocalMode
		c.mu.Unlock()
		return enabled
	}
	c.settings.LocalMode = !c.settings.LocalMode
	enabled := c.settings.LocalMode
	c.mu.Unlock()
	c.notify()
	return enabled
}

// ToggleAutoPost flips automatic syndication and returns the new value.
func (c *Controller) ToggleAutoPost() bool {
	c.mu.Lock()
	c.settings.AutoPostToX = !c.settings.AutoPostToX
	enabled := c.settings.AutoPostToX
	c.mu.Unlock()
	c.notify()
	return enabled
}

// Snapshot returns a copy of the observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	history := make([]models.NewsItem, len(c.history))
	for i, item := range c.history {
		history[i] = item.Clone()
	}
	return Snapshot{
		State:            c.state,
		Loading:          c.state == StateFetching || c.state == StateSyndicating,
		History:          history,
		Settings:         c.settings,
		Log:              append(make([]LogEntry, 0, len(c.audit)), c.audit...),
		Error:            c.lastError,
		Countdown:        c.countdown,
		LocationAcquired: c.location != nil,
		Linking:          c.linking,
	}
}

// addLog prepends an audit entry, evicting the oldest past the cap. Caller holds mu.
func (c *Controller) addLog(msg string) {
	entry := LogEntry{Time: c.now(), Message: msg}
	c.audit = append([]LogEntry{entry}, c.audit...)
	if len(c.audit) > MaxLogEntries {
		c.audit = c.audit[:MaxLogEntries]
	}
	logger.Debug().Str("audit", msg).Msg("Audit entry")
}
