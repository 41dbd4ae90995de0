package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ErrAPI wraps a response the Bot API marked as not ok.
var ErrAPI = errors.New("telegram api error")

// Client sends messages to the one chat the bot is bound to.
type Client struct {
	http   *resty.Client
	chatID string
	logger zerolog.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another Bot API host.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.http.SetBaseURL(url) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client for token and chatID. Both must be set; callers
// check configuration before constructing one.
func NewClient(token, chatID string, opts ...Option) *Client {
	c := &Client{
		http:   resty.New().SetTimeout(90 * time.Second),
		chatID: chatID,
		logger: log.Logger,
	}
	c.http.SetBaseURL(DefaultBaseURL)
	for _, opt := range opts {
		opt(c)
	}
	// The token is a path prefix on every method.
	c.http.SetBaseURL(c.http.BaseURL + "/bot" + token)
	return c
}

// apiResponse is the envelope of every Bot API reply.
type apiResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

// Notify sends a Markdown message to the configured chat.
func (c *Client) Notify(ctx context.Context, text string) error {
	c.logger.Debug().Str("text", text).Msg("Telegram notify")

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id":    c.chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if _, err := decode(resp.Body()); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// getUpdates long-polls for updates starting at offset.
func (c *Client) getUpdates(ctx context.Context, offset int, timeout time.Duration) ([]Update, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":  fmt.Sprint(offset),
			"timeout": fmt.Sprint(int(timeout.Seconds())),
		}).
		Get("/getUpdates")
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	result, err := decode(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

func decode(body []byte) (json.RawMessage, error) {
	var r apiResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !r.Ok {
		return nil, fmt.Errorf("%w: %s (code %d)", ErrAPI, r.Description, r.ErrorCode)
	}
	return r.Result, nil
}
