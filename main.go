package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"f7bot/internal/bot"
	"f7bot/internal/config"
	"f7bot/internal/telemetry"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting statistics bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	telemetry.Init()
	go func() {
		if err := telemetry.Serve(ctx, cfg.MetricsAddr); err != nil {
			log.Error().Err(err).Msg("Metrics listener stopped")
		}
	}()

	// Create bot
	b, err := bot.NewBot(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create discord bot")
	}

	// Run bot until interrupted
	if err := b.Run(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Bot stopped")
	}
	log.Info().Msg("Bot stopped")
}

func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Msgf("Unknown log level %q, using info", level)
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)
}
