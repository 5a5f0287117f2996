// Package syndication holds the X publishing and account linking providers.
package syndication

import (
	"context"
	"time"

	"github.com/bilgisen/chronos/internal/logger"
	"github.com/bilgisen/chronos/internal/models"
)

// SimulatedPublisher pretends to post an item to X after a delay
type SimulatedPublisher struct {
	delay time.Duration
}

func NewSimulatedPublisher(delay time.Duration) *SimulatedPublisher {
	return &SimulatedPublisher{delay: delay}
}

// Publish waits for the configured delay and reports success unless ctx ends first
func (p *SimulatedPublisher) Publish(ctx context.Context, item models.NewsItem) error {
	logger.Info().
		Str("id", item.ID).
		Str("title", item.Title).
		Str("sentiment", string(item.Sentiment)).
		Msg("Posting update to X")

	return wait(ctx, p.delay)
}

// SimulatedAuthorizer stands in for the X OAuth handshake
type SimulatedAuthorizer struct {
	delay time.Duration
}

func NewSimulatedAuthorizer(delay time.Duration) *SimulatedAuthorizer {
	return &SimulatedAuthorizer{delay: delay}
}

// Authorize always succeeds once the handshake delay has elapsed
func (a *SimulatedAuthorizer) Authorize(ctx context.Context) error {
	logger.Info().Dur("delay", a.delay).Msg("Starting X authorization handshake")
	return wait(ctx, a.delay)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
