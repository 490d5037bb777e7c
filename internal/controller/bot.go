package controller

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// BoardReader доступ к доске только на чтение
type BoardReader interface {
	Slots() []*model.Slot
}

// BotController команды бэк-офиса в Telegram: просмотр доски на день
type BotController struct {
	bot    *bot.Bot
	board  BoardReader
	chatID int64
	logger *zap.Logger
}

func NewBotController(botInstance *bot.Bot, board BoardReader, chatID int64, logger *zap.Logger) *BotController {
	return &BotController{
		bot:    botInstance,
		board:  board,
		chatID: chatID,
		logger: logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/board", bot.MatchTypePrefix, c.handleBoard)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "board", Description: "🗓 Слоты на день (/board 2026-10-18)"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота; блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

func (c *BotController) allowed(update *models.Update) bool {
	return update.Message != nil && update.Message.Chat.ID == c.chatID
}

func (c *BotController) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !c.allowed(update) {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "📚 Справка по командам:\n\n" +
			"/board - слоты и встречи на сегодня\n" +
			"/board ГГГГ-ММ-ДД - слоты на указанную дату\n" +
			"/help - показать эту справку",
	})
}

func (c *BotController) handleBoard(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !c.allowed(update) {
		return
	}

	day := time.Now()
	if arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/board")); arg != "" {
		parsed, err := time.Parse(model.DateFormat, arg)
		if err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   "❌ Неверный формат даты, используйте ГГГГ-ММ-ДД",
			})
			return
		}
		day = parsed
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      FormatDay(c.board.Slots(), day),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		c.logger.Error("Failed to send board", zap.Error(err))
	}
}
