// Package telegram adapts the Telegram Bot API to the ChatTransport port.
// Reconnection is the library's concern: GetUpdatesChan retries failed
// long-polls internally.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"orders-bot/internal/bot/app/core"
	"orders-bot/internal/xpkg/logger"
)

const updateTimeout = 60

type Transport struct {
	api   *tgbotapi.BotAPI
	mylog logger.Logger
}

func New(token string, mylog logger.Logger) (*Transport, error) {
	if token == "" {
		return nil, core.ErrMissingToken
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}

	mylog.Action("transport_authorized").Info("Chat transport authorized", "account", api.Self.UserName)
	return &Transport{api: api, mylog: mylog}, nil
}

// Messages starts long-polling and returns a channel of inbound text
// messages. The channel closes when ctx is done.
func (t *Transport) Messages(ctx context.Context) (<-chan core.Message, error) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := t.api.GetUpdatesChan(u)
	out := make(chan core.Message)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				t.api.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || update.Message.Text == "" {
					continue
				}
				out <- core.Message{
					SenderID: strconv.FormatInt(update.Message.Chat.ID, 10),
					Text:     update.Message.Text,
				}
			}
		}
	}()

	return out, nil
}

func (t *Transport) SendMessage(ctx context.Context, userID, text string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", userID, err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (t *Transport) Close() error {
	t.api.StopReceivingUpdates()
	return nil
}
