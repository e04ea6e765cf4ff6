package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"avatargen/internal/discord"
	"avatargen/internal/http/handlers"
	"avatargen/internal/http/httpapi"
	"avatargen/internal/infra"
	"avatargen/internal/midjourney"
	"avatargen/internal/store"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	dc, err := discord.NewClient(discord.Options{
		Token:   cfg.MidjourneyToken,
		BaseURL: cfg.DiscordBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build discord client")
	}

	mj, err := midjourney.NewClient(midjourney.Options{
		Rest:      dc,
		GuildID:   cfg.ServerID,
		ChannelID: cfg.ChannelID,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build midjourney client")
	}

	jobs := store.NewJobStore()
	seeds := store.NewSeedHistory()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hourly sweep of expired jobs; seed history is never evicted.
	go jobs.Janitor(ctx, cfg.CleanupInterval, cfg.JobLifetime, logger)

	app := handlers.NewApp(mj, dc, jobs, seeds, cfg, logger)
	router := httpapi.NewRouter(app, cfg.StaticDir)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
