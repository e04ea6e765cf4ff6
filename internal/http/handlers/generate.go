package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"avatargen/internal/avatar"
	"avatargen/internal/midjourney"
	"avatargen/internal/store"
)

// envelopeEmoji asks the Midjourney bot to DM the generation seed.
const envelopeEmoji = "✉️"

type generateResponse struct {
	CollageURL string `json:"collageUrl"`
	JobKey     string `json:"jobKey"`
	Seed       string `json:"seed,omitempty"`
	Success    bool   `json:"success"`
}

// Generate runs the full generation flow: validate, build the prompt, submit
// to Midjourney, nudge the bot for the seed, and record the job.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req avatar.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := req.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, err.Error())
		return
	}

	weight := req.ReferenceWeight
	if weight == 0 {
		weight = avatar.DefaultReferenceWeight
	}
	prompt := avatar.BuildPrompt(req, req.ReferenceURL, weight, req.Seed)

	ctx := r.Context()
	result, err := a.MJ.Imagine(ctx, prompt)
	if err != nil {
		a.Log.Error().Err(err).Msg("generate: imagine failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil || result.ID == "" {
		a.error(w, http.StatusInternalServerError, "imagine returned no result")
		return
	}

	// Best effort: the envelope reaction makes the bot DM the seed. A
	// failure here costs us the seed, not the generation.
	if err := a.Feed.AddReaction(ctx, a.Cfg.ChannelID, result.ID, envelopeEmoji); err != nil {
		a.Log.Warn().Err(err).Str("message_id", result.ID).Msg("generate: envelope reaction failed")
	}

	// Give the render and the DM delivery a head start before polling.
	if err := wait(ctx, a.Cfg.SeedInitialWait); err != nil {
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	seed, found := midjourney.RecoverSeed(ctx, a.Feed, midjourney.SeedRecoveryOptions{
		ChannelID:  a.Cfg.DMChannelID,
		Attempts:   a.Cfg.SeedRetryAttempts,
		Delay:      a.Cfg.SeedRetryDelay,
		FetchLimit: a.Cfg.SeedFetchLimit,
		Logger:     &a.Log,
	})

	jobKey := uuid.NewString()
	now := time.Now()
	job := store.Job{
		Key:       jobKey,
		MessageID: result.ID,
		Flags:     result.Flags,
		Options:   result.Options,
		Request:   req,
		Prompt:    prompt,
		ImageURL:  result.URI,
		CreatedAt: now,
	}

	if found {
		job.Seed = seed
		a.Seeds.Add(store.SeedRecord{
			JobKey:    jobKey,
			Seed:      seed,
			Request:   req,
			ImageURL:  result.URI,
			CreatedAt: now,
		})
	} else {
		a.Log.Info().Str("message_id", result.ID).Msg("generate: no seed found in DM after all retries")
	}
	a.Jobs.Put(job)

	a.json(w, http.StatusOK, generateResponse{
		CollageURL: result.URI,
		JobKey:     jobKey,
		Seed:       seed,
		Success:    true,
	})
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
