package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"3000"`

	// Discord credentials and targets for the Midjourney integration.
	MidjourneyToken string `env:"MIDJOURNEY_USER_TOKEN"`
	ServerID        string `env:"MIDJOURNEY_SERVER_ID"`
	ChannelID       string `env:"MIDJOURNEY_CHANNEL_ID"`
	DMChannelID     string `env:"MIDJOURNEY_DM_CHANNEL_ID"`
	DiscordBaseURL  string `env:"DISCORD_API_BASE_URL" envDefault:"https://discord.com/api/v9"`

	StaticDir string `env:"STATIC_DIR" envDefault:"./public"`

	// Seed recovery pacing: initial wait for the DM to arrive, then a
	// bounded retry loop against the DM feed.
	SeedInitialWait   time.Duration `env:"SEED_INITIAL_WAIT" envDefault:"5s"`
	SeedRetryAttempts int           `env:"SEED_RETRY_ATTEMPTS" envDefault:"3"`
	SeedRetryDelay    time.Duration `env:"SEED_RETRY_DELAY" envDefault:"3s"`
	SeedFetchLimit    int           `env:"SEED_FETCH_LIMIT" envDefault:"10"`

	JobLifetime     time.Duration `env:"JOB_LIFETIME" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`

	HTTPReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	// Generation blocks on the Midjourney render plus the seed retry loop,
	// so the write timeout has to outlast the full polling window.
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"5m"`
	HTTPIdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The Discord credentials have no sensible defaults
// and are required.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.MidjourneyToken == "" {
		return nil, fmt.Errorf("MIDJOURNEY_USER_TOKEN is required")
	}
	if cfg.ServerID == "" {
		return nil, fmt.Errorf("MIDJOURNEY_SERVER_ID is required")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("MIDJOURNEY_CHANNEL_ID is required")
	}
	if cfg.DMChannelID == "" {
		return nil, fmt.Errorf("MIDJOURNEY_DM_CHANNEL_ID is required")
	}

	return cfg, nil
}
