// Package bot hosts the Telegram surface of the application: a thin
// practice and stats UI on top of the practice service, plus the reminder
// delivery used by the background scheduler.
package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/flashbot/internal/database"
	"github.com/example/flashbot/internal/practice"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in an inline menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates an inline keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram bot application
type Bot struct {
	api      *tgbotapi.BotAPI
	practice *practice.Service
	users    *database.UserRepository
	stats    *database.StatisticsRepository
	sessions *sessionRegistry
	config   *Config
}

// New creates a new bot instance
func New(practiceService *practice.Service) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram API client: %w", err)
	}

	return &Bot{
		api:      api,
		practice: practiceService,
		users:    database.NewUserRepository(),
		stats:    database.NewStatisticsRepository(),
		sessions: newSessionRegistry(),
		config:   DefaultConfig(),
	}, nil
}

// Start begins processing Telegram updates until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.config.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop shuts down the update feed
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

// SendReminder implements scheduler.Notifier: it delivers the due-card
// reminder with a button that jumps straight into a practice session.
func (b *Bot) SendReminder(ctx context.Context, userID int64, dueCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	plural := "s"
	if dueCount == 1 {
		plural = ""
	}
	text := fmt.Sprintf("🧠 Smart Practice Reminder\n\nYou have %d card%s ready for review!\n\nPractice now to strengthen your memory 💪", dueCount, plural)

	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🚀 Practice now", CallbackData: "practice"}},
	})

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// sendText sends a plain message, logging delivery problems
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}
