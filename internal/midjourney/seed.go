package midjourney

import (
	"context"
	"regexp"
	"strings"
	"time"

	"avatargen/internal/discord"
	"avatargen/internal/infra"
)

// seedPattern captures the numeric seed out of the bot's DM. The marker
// format is an undocumented contract with the bot; if it ever drifts, this
// file is the only place that needs to change.
var seedPattern = regexp.MustCompile(`(?i)\*\*seed\*\*\s*(\d+)`)

// messageFeed lists recent messages from a channel, newest first.
type messageFeed interface {
	ListMessages(ctx context.Context, channelID string, limit int) ([]discord.Message, error)
}

// SeedRecoveryOptions tunes the bounded retry loop that watches the DM feed.
type SeedRecoveryOptions struct {
	ChannelID  string
	BotName    string
	Attempts   int
	Delay      time.Duration
	FetchLimit int
	Logger     *infra.Logger
}

// ExtractSeed pulls the numeric seed out of a DM body.
func ExtractSeed(content string) (string, bool) {
	m := seedPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isSeedMessage reports whether a DM is the bot's seed disclosure.
func isSeedMessage(m discord.Message, botName string) bool {
	if m.Author.Username != botName {
		return false
	}
	return strings.Contains(m.Content, "**seed**") && strings.Contains(m.Content, "Job ID")
}

// RecoverSeed polls the DM feed for the bot's seed disclosure. It retries a
// bounded number of times with a fixed delay between attempts, sequentially
// so the platform's message ordering is respected. Per-attempt failures are
// logged and swallowed; a missing seed is a valid outcome, not an error.
func RecoverSeed(ctx context.Context, feed messageFeed, opts SeedRecoveryOptions) (string, bool) {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	limit := opts.FetchLimit
	if limit <= 0 {
		limit = 10
	}
	botName := opts.BotName
	if botName == "" {
		botName = BotUsername
	}
	logger := opts.Logger

	for i := 0; i < attempts; i++ {
		if i > 0 {
			if logger != nil {
				logger.Debug().Int("attempt", i+1).Msg("midjourney: retrying seed lookup")
			}
			if err := sleep(ctx, opts.Delay); err != nil {
				return "", false
			}
		}

		messages, err := feed.ListMessages(ctx, opts.ChannelID, limit)
		if err != nil {
			if logger != nil {
				logger.Warn().Err(err).Int("attempt", i+1).Msg("midjourney: seed lookup failed")
			}
			continue
		}
		for _, m := range messages {
			if !isSeedMessage(m, botName) {
				continue
			}
			if seed, ok := ExtractSeed(m.Content); ok {
				return seed, true
			}
		}
	}
	return "", false
}
