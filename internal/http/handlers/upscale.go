package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"avatargen/internal/midjourney"
)

type upscaleRequest struct {
	JobKey       string `json:"jobKey"`
	VariantIndex int    `json:"variantIndex"`
}

type upscaleResponse struct {
	UpscaledURL string `json:"upscaledUrl"`
}

// Upscale resolves a stored job and asks Midjourney to upscale one of its
// four variants. Reads only; the job entry is never mutated.
func (a *App) Upscale(w http.ResponseWriter, r *http.Request) {
	var req upscaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	job, ok := a.Jobs.Get(req.JobKey)
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid jobKey")
		return
	}
	if req.VariantIndex < 1 || req.VariantIndex > 4 {
		a.error(w, http.StatusBadRequest, "variantIndex must be between 1 and 4")
		return
	}

	label := fmt.Sprintf("U%d", req.VariantIndex)
	customID := ""
	for _, opt := range job.Options {
		if opt.Label == label {
			customID = opt.Custom
			break
		}
	}
	if customID == "" {
		a.error(w, http.StatusInternalServerError, fmt.Sprintf("Upscale option %s not found", label))
		return
	}

	upscaled, err := a.MJ.Custom(r.Context(), midjourney.CustomRequest{
		MessageID: job.MessageID,
		Flags:     job.Flags,
		CustomID:  customID,
		Content:   job.Prompt,
	})
	if err != nil {
		a.Log.Error().Err(err).Str("job_key", req.JobKey).Msg("upscale failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if upscaled == nil || upscaled.URI == "" {
		a.error(w, http.StatusInternalServerError, "upscale returned no result")
		return
	}

	a.json(w, http.StatusOK, upscaleResponse{UpscaledURL: upscaled.URI})
}
