// Package geo resolves the best-effort location used by local mode.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/chronos/internal/logger"
	"github.com/bilgisen/chronos/internal/models"
	"github.com/go-resty/resty/v2"
)

// ErrLocationUnavailable means no position could be determined
var ErrLocationUnavailable = errors.New("location unavailable")

// NoLocator never has a position
type NoLocator struct{}

func (NoLocator) CurrentLocation(ctx context.Context) (*models.Coordinates, error) {
	return nil, ErrLocationUnavailable
}

// StaticLocator returns fixed coordinates from configuration
type StaticLocator struct {
	coords models.Coordinates
}

func NewStaticLocator(lat, lng float64) *StaticLocator {
	return &StaticLocator{coords: models.Coordinates{Lat: lat, Lng: lng}}
}

func (s *StaticLocator) CurrentLocation(ctx context.Context) (*models.Coordinates, error) {
	c := s.coords
	return &c, nil
}

// IPLocator looks up the host's approximate position from an ip-api compatible service
type IPLocator struct {
	client *resty.Client
	url    string
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

func NewIPLocator(url string, timeout time.Duration) *IPLocator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IPLocator{
		client: resty.New().SetTimeout(timeout),
		url:    url,
	}
}

func (l *IPLocator) CurrentLocation(ctx context.Context) (*models.Coordinates, error) {
	var result ipLookupResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&result).
		Get(l.url)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup failed: %v", ErrLocationUnavailable, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrLocationUnavailable, resp.StatusCode())
	}

	if result.Status != "" && result.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrLocationUnavailable, result.Message)
	}

	logger.Debug().
		Str("city", result.City).
		Str("country", result.Country).
		Msg("Resolved location from IP")

	return &models.Coordinates{Lat: result.Lat, Lng: result.Lon}, nil
}
