// internal/infra/telegram/client.go
package telegram

import (
	"context"

	"gopkg.in/telebot.v3"

	"sisnompeg_admin/internal/domain/notify"
)

// Client sends messages through a Telegram bot.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}

// TelebotAdapter implements Client using gopkg.in/telebot.v3.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

func (tba *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	_, err := tba.bot.Send(telebot.ChatID(chatID), text, options)
	return err
}

// AdminNotifier forwards notifications to the administrator's chat.
type AdminNotifier struct {
	client  Client
	adminID int64
}

func NewAdminNotifier(client Client, adminID int64) *AdminNotifier {
	return &AdminNotifier{client: client, adminID: adminID}
}

func (n *AdminNotifier) Notify(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.client.SendMessage(n.adminID, msg.Subject+"\n\n"+msg.Body, nil)
}
