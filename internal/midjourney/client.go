package midjourney

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"avatargen/internal/discord"
	"avatargen/internal/infra"
)

// Well-known identifiers of the Midjourney Discord application. The command
// id/version pair belongs to the /imagine slash command.
const (
	ApplicationID         = "936929561302675456"
	BotUsername           = "Midjourney Bot"
	imagineCommandID      = "938956540159881230"
	imagineCommandVersion = "1166847114203123795"
)

// ErrTimeout is returned when the bot never delivered a finished message
// within the polling deadline.
var ErrTimeout = errors.New("midjourney: timed out waiting for result")

// rest is the slice of the Discord client the Midjourney flow needs.
type rest interface {
	CreateInteraction(ctx context.Context, payload any) error
	ListMessages(ctx context.Context, channelID string, limit int) ([]discord.Message, error)
}

// Options configures the Midjourney client.
type Options struct {
	Rest         rest
	GuildID      string
	ChannelID    string
	PollInterval time.Duration
	PollTimeout  time.Duration
	Logger       *infra.Logger
}

// Client drives Midjourney generations through Discord interactions and
// recovers the results by polling the channel message feed.
type Client struct {
	rest         rest
	guildID      string
	channelID    string
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *infra.Logger
}

// Option is one interactive button on a finished generation, e.g. label "U1"
// with the opaque custom id needed to trigger the upscale.
type Option struct {
	Label  string `json:"label"`
	Custom string `json:"custom"`
}

// ImagineResult describes a finished four-image collage.
type ImagineResult struct {
	ID      string
	URI     string
	Flags   int
	Options []Option
}

// CustomRequest triggers a component action (upscale, variation) on a
// previously generated message.
type CustomRequest struct {
	MessageID string
	Flags     int
	CustomID  string
	Content   string
}

// CustomResult carries the image produced by a component action.
type CustomResult struct {
	ID  string
	URI string
}

// NewClient wires a Midjourney client on top of a Discord REST client.
func NewClient(opts Options) (*Client, error) {
	if opts.Rest == nil {
		return nil, errors.New("midjourney: rest client is required")
	}
	if opts.GuildID == "" || opts.ChannelID == "" {
		return nil, errors.New("midjourney: guild and channel ids are required")
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	timeout := opts.PollTimeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		rest:         opts.Rest,
		guildID:      opts.GuildID,
		channelID:    opts.ChannelID,
		pollInterval: interval,
		pollTimeout:  timeout,
		logger:       logger,
	}, nil
}

// Imagine submits a prompt and waits for the bot to post the finished collage.
func (c *Client) Imagine(ctx context.Context, prompt string) (*ImagineResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("midjourney: prompt is required")
	}
	payload := map[string]any{
		"type":           2,
		"application_id": ApplicationID,
		"guild_id":       c.guildID,
		"channel_id":     c.channelID,
		"session_id":     sessionID(),
		"data": map[string]any{
			"version": imagineCommandVersion,
			"id":      imagineCommandID,
			"name":    "imagine",
			"type":    1,
			"options": []map[string]any{
				{"type": 3, "name": "prompt", "value": prompt},
			},
		},
	}
	if err := c.rest.CreateInteraction(ctx, payload); err != nil {
		return nil, fmt.Errorf("midjourney: submit imagine: %w", err)
	}

	msg, err := c.await(ctx, func(m discord.Message) bool {
		return isFinishedImagine(m, prompt)
	})
	if err != nil {
		return nil, err
	}
	result := &ImagineResult{
		ID:      msg.ID,
		URI:     firstAttachmentURL(*msg),
		Flags:   msg.Flags,
		Options: flattenOptions(msg.Components),
	}
	c.logger.Debug().Str("message_id", result.ID).Int("options", len(result.Options)).Msg("midjourney: imagine finished")
	return result, nil
}

// Custom triggers a component action and waits for the resulting message.
func (c *Client) Custom(ctx context.Context, req CustomRequest) (*CustomResult, error) {
	if req.MessageID == "" || req.CustomID == "" {
		return nil, errors.New("midjourney: message and custom ids are required")
	}
	payload := map[string]any{
		"type":           3,
		"application_id": ApplicationID,
		"guild_id":       c.guildID,
		"channel_id":     c.channelID,
		"message_id":     req.MessageID,
		"message_flags":  req.Flags,
		"session_id":     sessionID(),
		"data": map[string]any{
			"component_type": 2,
			"custom_id":      req.CustomID,
		},
	}
	if err := c.rest.CreateInteraction(ctx, payload); err != nil {
		return nil, fmt.Errorf("midjourney: submit custom action: %w", err)
	}

	baseline := snowflake(req.MessageID)
	msg, err := c.await(ctx, func(m discord.Message) bool {
		return isUpscaleResult(m, req.Content, baseline)
	})
	if err != nil {
		return nil, err
	}
	return &CustomResult{ID: msg.ID, URI: firstAttachmentURL(*msg)}, nil
}

// await polls the channel feed until a message satisfies the predicate or the
// poll deadline passes.
func (c *Client) await(ctx context.Context, match func(discord.Message) bool) (*discord.Message, error) {
	deadline := time.Now().Add(c.pollTimeout)
	for {
		messages, err := c.rest.ListMessages(ctx, c.channelID, 50)
		if err != nil {
			c.logger.Warn().Err(err).Msg("midjourney: poll channel messages")
		}
		for i := range messages {
			if match(messages[i]) {
				return &messages[i], nil
			}
		}
		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}
		if err := sleep(ctx, c.pollInterval); err != nil {
			return nil, err
		}
	}
}

func isFinishedImagine(m discord.Message, prompt string) bool {
	if m.Author.Username != BotUsername {
		return false
	}
	if !strings.Contains(m.Content, promptPrefix(prompt)) {
		return false
	}
	if len(m.Attachments) == 0 || len(m.Components) == 0 {
		return false
	}
	return !inProgress(m.Content)
}

func isUpscaleResult(m discord.Message, prompt string, baseline uint64) bool {
	if m.Author.Username != BotUsername {
		return false
	}
	if snowflake(m.ID) <= baseline {
		return false
	}
	if len(m.Attachments) == 0 {
		return false
	}
	if !strings.Contains(m.Content, "Image #") && !strings.Contains(m.Content, "Upscaled") {
		return false
	}
	return prompt == "" || strings.Contains(m.Content, promptPrefix(prompt))
}

// promptPrefix returns the fragment of the prompt the bot echoes back in its
// progress messages, stopping before any parameter flags.
func promptPrefix(prompt string) string {
	if i := strings.Index(prompt, "--"); i >= 0 {
		prompt = prompt[:i]
	}
	prompt = strings.TrimSpace(prompt)
	const max = 60
	if len(prompt) > max {
		prompt = prompt[:max]
	}
	return prompt
}

func inProgress(content string) bool {
	if strings.Contains(content, "(Waiting to start)") {
		return true
	}
	return strings.Contains(content, "%)")
}

func firstAttachmentURL(m discord.Message) string {
	for _, a := range m.Attachments {
		if a.URL != "" {
			return a.URL
		}
	}
	return ""
}

func flattenOptions(rows []discord.ComponentRow) []Option {
	var options []Option
	for _, row := range rows {
		for _, b := range row.Components {
			if b.Label == "" || b.CustomID == "" {
				continue
			}
			options = append(options, Option{Label: b.Label, Custom: b.CustomID})
		}
	}
	return options
}

func snowflake(id string) uint64 {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func sessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
