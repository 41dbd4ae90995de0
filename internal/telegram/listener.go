package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Update represents a Telegram Update object (partial schema)
type Update struct {
	UpdateID int `json:"update_id"`
	Message  struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From struct {
			Username string `json:"username"`
		} `json:"from"`
	} `json:"message"`
}

// CommandHandler processes one slash command and returns the reply.
type CommandHandler func(ctx context.Context, command string) string

// Listener long-polls for commands sent to the bot.
type Listener struct {
	client      *Client
	pollTimeout time.Duration
	retryDelay  time.Duration
}

func NewListener(c *Client) *Listener {
	return &Listener{
		client:      c,
		pollTimeout: 60 * time.Second,
		retryDelay:  5 * time.Second,
	}
}

// Run polls until ctx is cancelled. Commands from any chat other than the
// configured one are logged and ignored.
func (l *Listener) Run(ctx context.Context, handler CommandHandler) error {
	authChatID, err := strconv.ParseInt(l.client.chatID, 10, 64)
	if err != nil {
		return err
	}
	logger := l.client.logger
	offset := 0

	logger.Info().Msg("Telegram Listener: Started")

	for {
		if ctx.Err() != nil {
			logger.Info().Msg("Telegram Listener: Stopped")
			return nil
		}

		updates, err := l.client.getUpdates(ctx, offset, l.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error().Err(err).Msg("Telegram Listener Error")
			select {
			case <-ctx.Done():
			case <-time.After(l.retryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1

			if update.Message.Chat.ID != authChatID {
				// No reply, so the bot's existence is not leaked
				logger.Warn().
					Str("user", update.Message.From.Username).
					Int64("chat_id", update.Message.Chat.ID).
					Str("text", update.Message.Text).
					Msg("Unauthorized command attempt")
				continue
			}

			text := strings.TrimSpace(update.Message.Text)
			if !strings.HasPrefix(text, "/") {
				continue
			}
			logger.Info().Str("command", text).Msg("Command received")
			if err := l.client.Notify(ctx, handler(ctx, text)); err != nil {
				logger.Error().Err(err).Msg("Telegram reply failed")
			}
		}
	}
}
