package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"avatargen/internal/discord"
	"avatargen/internal/infra"
	"avatargen/internal/midjourney"
	"avatargen/internal/store"
)

// generationClient is the slice of the Midjourney client the handlers use.
type generationClient interface {
	Imagine(ctx context.Context, prompt string) (*midjourney.ImagineResult, error)
	Custom(ctx context.Context, req midjourney.CustomRequest) (*midjourney.CustomResult, error)
}

// messageFeed is the slice of the Discord client the handlers use: the
// envelope reaction trigger and the DM feed the seed recovery watches.
type messageFeed interface {
	ListMessages(ctx context.Context, channelID string, limit int) ([]discord.Message, error)
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
}

// App bundles the handler dependencies. State lives here for the process
// lifetime; nothing is persisted.
type App struct {
	MJ    generationClient
	Feed  messageFeed
	Jobs  *store.JobStore
	Seeds *store.SeedHistory
	Cfg   *infra.Config
	Log   infra.Logger
}

// NewApp builds the handler container.
func NewApp(mj generationClient, feed messageFeed, jobs *store.JobStore, seeds *store.SeedHistory, cfg *infra.Config, log infra.Logger) *App {
	return &App{MJ: mj, Feed: feed, Jobs: jobs, Seeds: seeds, Cfg: cfg, Log: log}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}
