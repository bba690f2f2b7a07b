package reminders

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// LogNotifier writes reminders to the log. It is the default delivery
// channel when no Telegram bot is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "reminders").Logger()}
}

func (n *LogNotifier) Notify(ctx context.Context, r Reminder) error {
	n.logger.Info().Str("kind", r.Kind).Time("at", r.At).Msg(r.Message)
	return nil
}

// TelegramNotifier delivers reminders to a personal Telegram chat, so
// the daemon can reach the user's phone without a push service.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a Telegram-backed notifier.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, r Reminder) error {
	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("⏰ %s", r.Message))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}
