package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"surgical-viz-client/internal/domain/model"
	"surgical-viz-client/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.NotificationSink = (*TelegramSink)(nil)

// TelegramSink forwards notifications to a Telegram chat so job outcomes reach
// an operator who is away from the workstation. Optional; wired only when a
// bot token and chat id are configured. Send failures are logged and dropped.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zerolog.Logger
}

func NewTelegramSink(token string, chatID int64, logger *zerolog.Logger) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	l := logger.With().Str("component", "TelegramSink").Logger()
	return &TelegramSink{bot: bot, chatID: chatID, log: &l}, nil
}

func (t *TelegramSink) Notify(ctx context.Context, kind model.NotificationKind, message string) {
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("[%s] %s", kind, message))
	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn().Err(err).Int64("chat_id", t.chatID).Msg("telegram notify failed")
	}
}
