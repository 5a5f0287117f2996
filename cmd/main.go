package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/chronos/internal/ai"
	"github.com/bilgisen/chronos/internal/api"
	"github.com/bilgisen/chronos/internal/config"
	"github.com/bilgisen/chronos/internal/desk"
	"github.com/bilgisen/chronos/internal/geo"
	"github.com/bilgisen/chronos/internal/logger"
	"github.com/bilgisen/chronos/internal/syndication"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogOutput(),
		Pretty: cfg.LogPretty,
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().
		Str("env", cfg.Env).
		Str("topic", cfg.Topic).
		Int("interval_minutes", cfg.UpdateIntervalMinutes).
		Msg("Starting chronos...")

	if cfg.AIApiKey == "" {
		log.Warn().Msg("AI_API_KEY is not set, every cycle will report a gateway disruption")
	}

	gemini := ai.NewGeminiClient(ai.GeminiOptions{
		APIKey:       cfg.AIApiKey,
		Model:        cfg.AIModel,
		BaseURL:      cfg.AIBaseURL,
		Timeout:      cfg.AITimeout,
		Grounding:    cfg.AIGrounding,
		ImageBaseURL: cfg.ImageBaseURL,
	})

	controller := desk.New(
		gemini,
		syndication.NewSimulatedPublisher(cfg.SyndicationDelay),
		syndication.NewSimulatedAuthorizer(cfg.AuthDelay),
		newLocator(cfg),
		desk.Options{Settings: cfg.Settings()},
	)

	updates, unsubscribe := controller.Subscribe()
	defer unsubscribe()
	go logStateChanges(updates)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	controller.Start(ctx)

	app := api.NewApp(cfg.HTTPTimeout, api.NewHandlers(controller))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the update loop and let in-flight cycles unwind.
	cancel()
	controller.Wait()

	log.Info().Msg("Server exited properly")
}

func newLocator(cfg *config.Config) desk.Locator {
	switch cfg.LocationMode {
	case config.LocationStatic:
		return geo.NewStaticLocator(cfg.LocationLat, cfg.LocationLng)
	case config.LocationIP:
		return geo.NewIPLocator(cfg.GeoIPURL, cfg.HTTPTimeout)
	default:
		return geo.NoLocator{}
	}
}

// logStateChanges reports controller state transitions until the channel closes.
func logStateChanges(updates <-chan desk.Snapshot) {
	last := desk.StateIdle
	for snap := range updates {
		if snap.State == last {
			continue
		}
		last = snap.State
		logger.Debug().
			Str("state", string(snap.State)).
			Int("history", len(snap.History)).
			Int("countdown", snap.Countdown).
			Msg("Desk state changed")
	}
}
