// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const msgUnauthorized = "Maaf, bot ini hanya dapat digunakan oleh administrator."

func RegisterBotCommands(b *telebot.Bot, adminTelegramID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")
	b.Handle("/start", startHandler(adminTelegramID, startHelpLogger))
	b.Handle("/help", helpHandler(adminTelegramID, startHelpLogger))
}

func startHandler(adminTelegramID int64, log *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := log.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID != adminTelegramID {
			logCtx.Info("User is not the administrator")
			return c.Send(msgUnauthorized)
		}
		return c.Send(fmt.Sprintf("Halo, %s! Bot SISNOMPEG siap. Gunakan /help untuk daftar perintah.", c.Sender().FirstName))
	}
}

func helpHandler(adminTelegramID int64, log *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := log.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID != adminTelegramID {
			return c.Send(msgUnauthorized)
		}
		var helpText strings.Builder
		helpText.WriteString("Perintah administrator:\n\n")
		helpText.WriteString("`/kgb`\n - Daftar KGB yang terlewat, jatuh tempo hari ini, atau segera jatuh tempo.\n\n")
		helpText.WriteString("`/proses_kgb`\n - Proses kenaikan gaji berkala yang sudah jatuh tempo.\n\n")
		helpText.WriteString("`/pegawai <NIP>`\n - Ringkasan data pegawai dan kelayakan kenaikan pangkat.\n\n")
		helpText.WriteString("`/help`\n - Tampilkan pesan ini.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}
}
