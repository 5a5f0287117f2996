package syndication

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bilgisen/chronos/internal/models"
)

func TestSimulatedPublisherWaits(t *testing.T) {
	p := NewSimulatedPublisher(20 * time.Millisecond)

	start := time.Now()
	if err := p.Publish(context.Background(), models.NewsItem{ID: "1", Title: "T"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected publish to take at least 20ms, took %v", elapsed)
	}
}

func TestSimulatedPublisherCancelled(t *testing.T) {
	p := NewSimulatedPublisher(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, models.NewsItem{ID: "1"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatedAuthorizer(t *testing.T) {
	a := NewSimulatedAuthorizer(0)
	if err := a.Authorize(context.Background()); err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}

	slow := NewSimulatedAuthorizer(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := slow.Authorize(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
