package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/flashbot/internal/excel"
	"github.com/example/flashbot/internal/spaced_repetition"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleUpdate dispatches one Telegram update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage handles commands and document uploads
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.GetOrCreate(ctx, msg.From.ID, msg.From.UserName, msg.From.FirstName)
	if err != nil {
		log.Printf("Error registering user %d: %v", msg.From.ID, err)
		return
	}
	if user.IsBanned {
		return
	}

	if msg.Document != nil {
		b.handleDocument(ctx, msg, user.IsAdmin)
		return
	}

	switch msg.Command() {
	case "start":
		b.sendText(msg.Chat.ID,
			"Welcome to the flashcard bot!\n\n"+
				"/practice - review your due cards\n"+
				"/stats - your learning statistics\n"+
				"/notifications on|off - toggle reminders\n"+
				"/help - this message")
	case "help":
		b.sendText(msg.Chat.ID,
			"/practice - review your due cards\n"+
				"/stats - your learning statistics\n"+
				"/notifications on|off - toggle reminders\n\n"+
				"Admins can upload an .xlsx or .csv file (term, definition columns) to import a card set.")
	case "practice":
		b.startPracticeSession(ctx, msg.Chat.ID, user.ID)
	case "stats":
		b.sendStats(ctx, msg.Chat.ID, user.ID)
	case "notifications":
		b.toggleNotifications(ctx, msg.Chat.ID, user.ID, msg.CommandArguments())
	default:
		if msg.IsCommand() {
			b.sendText(msg.Chat.ID, "Unknown command. Try /help.")
		}
	}
}

// handleCallback handles inline keyboard presses
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Ack the button press so the client stops its spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	chatID := query.Message.Chat.ID
	userID := query.From.ID

	switch {
	case query.Data == "practice":
		b.startPracticeSession(ctx, chatID, userID)
	case query.Data == "reveal":
		b.revealCurrentCard(chatID, query.Message.MessageID)
	case strings.HasPrefix(query.Data, "rate:"):
		b.handleRating(ctx, chatID, userID, strings.TrimPrefix(query.Data, "rate:"))
	case query.Data == "stop_practice":
		b.sessions.remove(chatID)
		b.sendText(chatID, "Session stopped. Come back any time with /practice.")
	}
}

// startPracticeSession fetches the due batch and shows the first card
func (b *Bot) startPracticeSession(ctx context.Context, chatID, userID int64) {
	cards, err := b.practice.FetchDueCards(ctx, userID, time.Now().UTC())
	if err != nil {
		log.Printf("Error fetching due cards for user %d: %v", userID, err)
		b.sendText(chatID, "Something went wrong fetching your cards. Please try again later.")
		return
	}
	if len(cards) == 0 {
		b.sendText(chatID, "🎉 No cards due right now. Check back later!")
		return
	}

	b.sessions.put(chatID, &practiceSession{Cards: cards})
	b.sendCurrentCard(chatID)
}

// sendCurrentCard shows the term side of the session's current card
func (b *Bot) sendCurrentCard(chatID int64) {
	session, ok := b.sessions.get(chatID)
	if !ok {
		return
	}
	card, ok := session.current()
	if !ok {
		b.finishSession(chatID)
		return
	}
	session.Revealed = false

	text := fmt.Sprintf("Card %d of %d\n\n❓ %s", session.Index+1, len(session.Cards), card.Term)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "Show answer", CallbackData: "reveal"}},
		{{Text: "Stop", CallbackData: "stop_practice"}},
	})
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending card to chat %d: %v", chatID, err)
	}
}

// revealCurrentCard edits the card message to show the definition and the
// five rating buttons
func (b *Bot) revealCurrentCard(chatID int64, messageID int) {
	session, ok := b.sessions.get(chatID)
	if !ok {
		b.sendText(chatID, "No active session. Start one with /practice.")
		return
	}
	card, ok := session.current()
	if !ok {
		b.finishSession(chatID)
		return
	}
	session.Revealed = true

	text := fmt.Sprintf("Card %d of %d\n\n❓ %s\n\n💡 %s\n\nHow well did you remember it?",
		session.Index+1, len(session.Cards), card.Term, card.Definition)
	keyboard := createKeyboard([][]MenuButton{
		{
			{Text: "❌ Again", CallbackData: "rate:1"},
			{Text: "😓 Hard", CallbackData: "rate:2"},
		},
		{
			{Text: "🙂 Good", CallbackData: "rate:3"},
			{Text: "😎 Easy", CallbackData: "rate:4"},
		},
		{
			{Text: "🏆 Mastered", CallbackData: "rate:5"},
		},
	})
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error revealing card in chat %d: %v", chatID, err)
	}
}

// handleRating submits the grade for the current card and advances
func (b *Bot) handleRating(ctx context.Context, chatID, userID int64, raw string) {
	session, ok := b.sessions.get(chatID)
	if !ok {
		b.sendText(chatID, "No active session. Start one with /practice.")
		return
	}
	card, ok := session.current()
	if !ok {
		b.finishSession(chatID)
		return
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Error parsing rating %q from chat %d: %v", raw, chatID, err)
		return
	}
	rating := spaced_repetition.Rating(value)
	if !rating.IsValid() {
		log.Printf("Ignoring out-of-range rating %d from chat %d", value, chatID)
		return
	}

	if err := b.practice.SubmitReview(ctx, userID, card.SetID, card.ID, rating, time.Now().UTC()); err != nil {
		log.Printf("Error submitting review for user %d card %s: %v", userID, card.ID, err)
		b.sendText(chatID, "Couldn't save that review. Please try again.")
		return
	}

	session.Reviewed++
	session.Index++
	b.sendCurrentCard(chatID)
}

// finishSession closes out the session with a summary
func (b *Bot) finishSession(chatID int64) {
	session, ok := b.sessions.get(chatID)
	if !ok {
		return
	}
	b.sessions.remove(chatID)
	b.sendText(chatID, fmt.Sprintf("✅ Session complete! You reviewed %d cards.", session.Reviewed))
}

// sendStats reports the user's learning statistics
func (b *Bot) sendStats(ctx context.Context, chatID, userID int64) {
	stats, err := b.stats.GetUserStatistics(ctx, userID, time.Now().UTC())
	if err != nil {
		log.Printf("Error getting statistics for user %d: %v", userID, err)
		b.sendText(chatID, "Something went wrong fetching your statistics.")
		return
	}
	b.sendText(chatID, fmt.Sprintf(
		"📊 Your statistics\n\n"+
			"Cards tracked: %d\n"+
			"Due now: %d\n"+
			"Mastered: %d\n"+
			"Average ease: %.2f",
		stats.TotalCards, stats.DueNow, stats.Mastered, stats.AvgEaseFactor))
}

// toggleNotifications turns reminders on or off for the user
func (b *Bot) toggleNotifications(ctx context.Context, chatID, userID int64, arg string) {
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		b.sendText(chatID, "Usage: /notifications on|off")
		return
	}
	if err := b.users.SetNotificationsEnabled(ctx, userID, enabled); err != nil {
		log.Printf("Error toggling notifications for user %d: %v", userID, err)
		b.sendText(chatID, "Couldn't update your notification setting.")
		return
	}
	if enabled {
		b.sendText(chatID, "🔔 Reminders enabled.")
	} else {
		b.sendText(chatID, "🔕 Reminders disabled.")
	}
}

// handleDocument imports an uploaded spreadsheet as a new card set
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message, isAdmin bool) {
	if !isAdmin {
		b.sendText(msg.Chat.ID, "Only admins can import card sets.")
		return
	}

	ext := strings.ToLower(filepath.Ext(msg.Document.FileName))
	if ext != ".xlsx" && ext != ".csv" {
		b.sendText(msg.Chat.ID, "Please upload an .xlsx or .csv file.")
		return
	}

	localPath, err := b.downloadDocument(msg.Document, ext)
	if err != nil {
		log.Printf("Error downloading document from chat %d: %v", msg.Chat.ID, err)
		b.sendText(msg.Chat.ID, "Couldn't download that file.")
		return
	}
	defer os.Remove(localPath)

	config := excel.DefaultImportConfig()
	config.FilePath = localPath
	config.UserID = msg.From.ID
	config.SetName = strings.TrimSuffix(msg.Document.FileName, ext)

	result, err := excel.ImportCards(ctx, config)
	if err != nil {
		log.Printf("Error importing cards from chat %d: %v", msg.Chat.ID, err)
		b.sendText(msg.Chat.ID, "Import failed. Check the file format.")
		return
	}

	summary := fmt.Sprintf("Imported %d cards into set %q.", result.Created, config.SetName)
	if result.Skipped > 0 {
		summary += fmt.Sprintf(" Skipped %d rows.", result.Skipped)
	}
	b.sendText(msg.Chat.ID, summary)
}

// downloadDocument fetches a Telegram file to a temp path
func (b *Bot) downloadDocument(doc *tgbotapi.Document, ext string) (string, error) {
	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file URL: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch file: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "flashbot-import-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return tmp.Name(), nil
}
