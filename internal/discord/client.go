package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"avatargen/internal/infra"
)

// ErrMissingToken indicates that the client was configured without a user token.
var ErrMissingToken = errors.New("discord: user token is required")

// Discord rejects requests carrying the default Go user agent, so we present
// a regular browser instead.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Options configures the Discord REST client.
type Options struct {
	Token          string
	BaseURL        string
	UserAgent      string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs raw HTTP calls against the Discord REST API using a user
// token, the same surface the original facade talks to.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *infra.Logger
}

// User identifies a message author.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
}

// Attachment is an uploaded file on a message.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	ProxyURL string `json:"proxy_url"`
}

// Button is an interactive component on a message.
type Button struct {
	Type     int    `json:"type"`
	Style    int    `json:"style"`
	Label    string `json:"label"`
	CustomID string `json:"custom_id"`
}

// ComponentRow is an action row grouping buttons.
type ComponentRow struct {
	Type       int      `json:"type"`
	Components []Button `json:"components"`
}

// Message is the subset of a Discord channel message this service reads.
type Message struct {
	ID          string         `json:"id"`
	ChannelID   string         `json:"channel_id"`
	Content     string         `json:"content"`
	Flags       int            `json:"flags"`
	Timestamp   string         `json:"timestamp"`
	Author      User           `json:"author"`
	Attachments []Attachment   `json:"attachments"`
	Components  []ComponentRow `json:"components"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, ErrMissingToken
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://discord.com/api/v9"
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
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
		token:      token,
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// ListMessages fetches the most recent messages of a channel, newest first.
func (c *Client) ListMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	if channelID == "" {
		return nil, errors.New("discord: channel id is required")
	}
	if limit <= 0 {
		limit = 10
	}
	endpoint := fmt.Sprintf("%s/channels/%s/messages?limit=%s", c.baseURL, channelID, strconv.Itoa(limit))
	raw, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var messages []Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("discord: decode messages: %w", err)
	}
	return messages, nil
}

// AddReaction puts the given emoji on a message as the authenticated user.
func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if channelID == "" || messageID == "" {
		return errors.New("discord: channel and message ids are required")
	}
	endpoint := fmt.Sprintf("%s/channels/%s/messages/%s/reactions/%s/@me",
		c.baseURL, channelID, messageID, url.PathEscape(emoji))
	_, err := c.do(ctx, http.MethodPut, endpoint, nil)
	return err
}

// CreateInteraction submits an interaction payload (application command or
// message component). Discord answers 204 with an empty body on success.
func (c *Client) CreateInteraction(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("discord: encode interaction: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, c.baseURL+"/interactions", body)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("discord: build request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("discord: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("discord: %s %s: status %d: %s", method, resp.Request.URL.Path, resp.StatusCode, snippet)
	}
	c.logger.Debug().Str("method", method).Str("endpoint", endpoint).Msg("discord: request ok")
	return raw, nil
}
