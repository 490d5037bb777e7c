package notify

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Sender отправка сообщения в Telegram; реализуется *bot.Bot
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier отправляет уведомления в чат бэк-офиса
type TelegramNotifier struct {
	sender Sender
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(sender Sender, chatID int64, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// Notify отправляет сообщение; ошибка отправки только логируется
func (n *TelegramNotifier) Notify(ctx context.Context, text string) {
	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Error("Failed to send notification",
			zap.Int64("chat_id", n.chatID),
			zap.String("text", text),
			zap.Error(err))
	}
}

// LogNotifier пишет уведомления в лог, когда Telegram не настроен
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify пишет сообщение в лог
func (n *LogNotifier) Notify(_ context.Context, text string) {
	n.logger.Info("Notification", zap.String("text", text))
}
