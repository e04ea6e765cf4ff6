package handlers

import (
	"net/http"
	"time"

	"avatargen/internal/avatar"
)

type seedEntry struct {
	JobKey    string                   `json:"jobKey"`
	Seed      string                   `json:"seed"`
	Prompt    avatar.GenerationRequest `json:"prompt"`
	Timestamp int64                    `json:"timestamp"`
	ImageURL  string                   `json:"imageUrl"`
}

type debugSeedEntry struct {
	Key       string                   `json:"key"`
	Seed      string                   `json:"seed"`
	Prompt    avatar.GenerationRequest `json:"prompt"`
	Timestamp string                   `json:"timestamp"`
	ImageURL  string                   `json:"imageUrl"`
}

type debugSeedsResponse struct {
	Size    int              `json:"size"`
	Entries []debugSeedEntry `json:"entries"`
}

// ListSeeds lists every recovered seed, newest first.
func (a *App) ListSeeds(w http.ResponseWriter, r *http.Request) {
	records := a.Seeds.List()
	entries := make([]seedEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, seedEntry{
			JobKey:    rec.JobKey,
			Seed:      rec.Seed,
			Prompt:    rec.Request,
			Timestamp: rec.CreatedAt.UnixMilli(),
			ImageURL:  rec.ImageURL,
		})
	}
	a.json(w, http.StatusOK, entries)
}

// DebugSeeds exposes the raw history with human-readable timestamps.
func (a *App) DebugSeeds(w http.ResponseWriter, r *http.Request) {
	records := a.Seeds.List()
	entries := make([]debugSeedEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, debugSeedEntry{
			Key:       rec.JobKey,
			Seed:      rec.Seed,
			Prompt:    rec.Request,
			Timestamp: rec.CreatedAt.UTC().Format(time.RFC3339),
			ImageURL:  rec.ImageURL,
		})
	}
	a.json(w, http.StatusOK, debugSeedsResponse{Size: len(entries), Entries: entries})
}
