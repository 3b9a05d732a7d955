package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/noahxzhu/homework-notify/internal/notify"
)

const transportName = "telegram"

type Client struct {
	bot    *telego.Bot
	chatID telego.ChatID
}

type Options struct {
	// APIServer overrides https://api.telegram.org, mostly for tests.
	APIServer string
	HTTP      *http.Client
}

func NewClient(token, chatID string, opts Options) (*Client, error) {
	botOpts := []telego.BotOption{telego.WithDiscardLogger()}
	if opts.APIServer != "" {
		botOpts = append(botOpts, telego.WithAPIServer(opts.APIServer))
	}
	if opts.HTTP != nil {
		botOpts = append(botOpts, telego.WithHTTPClient(opts.HTTP))
	}

	bot, err := telego.NewBot(token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}

	return &Client{bot: bot, chatID: id}, nil
}

// Send posts message to the configured chat.
func (c *Client) Send(ctx context.Context, message string) error {
	if _, err := c.bot.SendMessage(ctx, tu.Message(c.chatID, message)); err != nil {
		return &notify.NotificationError{Transport: transportName, Err: err}
	}
	return nil
}

// parseChatID accepts a numeric chat id or a public @channel username.
func parseChatID(raw string) (telego.ChatID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return telego.ChatID{}, fmt.Errorf("telegram chat id is empty")
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return tu.ID(id), nil
	}
	if strings.HasPrefix(raw, "@") {
		return tu.Username(raw), nil
	}
	return telego.ChatID{}, fmt.Errorf("invalid telegram chat id %q", raw)
}

var _ notify.Notifier = (*Client)(nil)
