// Package scheduler runs the background reminder pass: every hour it walks
// the user base, applies the notification backoff gate, and hands users
// with due cards to a Notifier.
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/flashbot/internal/notification"
	"github.com/example/flashbot/pkg/models"
	"github.com/go-co-op/gocron"
)

// Default notification window (UTC hours)
const (
	DefaultNotificationStartHour = 4
	DefaultNotificationEndHour   = 18
)

// Defaults for the delivery loop
const (
	// DefaultSendTimeout bounds one delivery attempt so a single
	// unreachable chat cannot stall the whole pass
	DefaultSendTimeout = 5 * time.Second
	// DefaultSendDelay spaces out sends to stay under Telegram's
	// ~20 messages/second limit
	DefaultSendDelay = 50 * time.Millisecond
)

// UserStore provides the user records the reminder pass iterates over.
type UserStore interface {
	// UsersForReminders returns every user eligible for reminders
	// (notifications enabled, not banned).
	UsersForReminders(ctx context.Context) ([]models.User, error)
	// RecordNotificationSent persists the advanced backoff level and send
	// time after a reminder was actually delivered.
	RecordNotificationSent(ctx context.Context, userID int64, level int, sentAt time.Time) error
}

// DueCounter reports how many cards are waiting for a user.
type DueCounter interface {
	CountDueCards(ctx context.Context, userID int64, now time.Time) (int, error)
}

// Notifier delivers a practice reminder to one user.
type Notifier interface {
	SendReminder(ctx context.Context, userID int64, dueCount int) error
}

// Config carries the tunables for the reminder pass
type Config struct {
	SendTimeout time.Duration
	SendDelay   time.Duration
	StartHour   int
	EndHour     int
}

// ConfigFromEnv builds a Config with defaults, honoring the
// NOTIFICATION_START_HOUR and NOTIFICATION_END_HOUR environment variables.
func ConfigFromEnv() Config {
	cfg := Config{
		SendTimeout: DefaultSendTimeout,
		SendDelay:   DefaultSendDelay,
		StartHour:   DefaultNotificationStartHour,
		EndHour:     DefaultNotificationEndHour,
	}
	if s := os.Getenv("NOTIFICATION_START_HOUR"); s != "" {
		if h, err := strconv.Atoi(s); err == nil && h >= 0 && h <= 23 {
			cfg.StartHour = h
		}
	}
	if s := os.Getenv("NOTIFICATION_END_HOUR"); s != "" {
		if h, err := strconv.Atoi(s); err == nil && h >= 0 && h <= 23 {
			cfg.EndHour = h
		}
	}
	return cfg
}

// Scheduler manages the periodic reminder pass
type Scheduler struct {
	scheduler *gocron.Scheduler
	users     UserStore
	due       DueCounter
	notifier  Notifier
	config    Config

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler instance
func New(users UserStore, due DueCounter, notifier Notifier, config Config) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		users:     users,
		due:       due,
		notifier:  notifier,
		config:    config,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins the hourly reminder pass in the background
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(func() {
		s.RunPass(s.ctx, time.Now().UTC())
	})
	s.scheduler.StartAsync()
}

// Stop cancels the running pass and stops the scheduler. The pass finishes
// the user it is currently processing before exiting, so no user is left
// with a sent-but-unrecorded reminder.
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

// RunPass executes one reminder pass over all eligible users and reports
// how many reminders were sent and how many users failed. Failures are
// isolated per user: storage or delivery trouble for one user never aborts
// the rest of the pass.
func (s *Scheduler) RunPass(ctx context.Context, now time.Time) (sent, failed int) {
	hour := now.Hour()
	if hour < s.config.StartHour || hour > s.config.EndHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			hour, s.config.StartHour, s.config.EndHour)
		return 0, 0
	}

	users, err := s.users.UsersForReminders(ctx)
	if err != nil {
		log.Printf("Error getting users for reminders: %v", err)
		return 0, 0
	}

	for _, user := range users {
		if ctx.Err() != nil {
			log.Printf("Reminder pass cancelled after %d sends", sent)
			return sent, failed
		}

		state := notification.BackoffState{Level: user.BackoffLevel}
		if user.LastNotificationSent.Valid {
			state.LastSent = user.LastNotificationSent.Time
		}
		if !state.Ready(now) {
			continue
		}

		count, err := s.due.CountDueCards(ctx, user.ID, now)
		if err != nil {
			log.Printf("Error counting due cards for user %d: %v", user.ID, err)
			failed++
			continue
		}
		if count == 0 {
			// Nothing due: the backoff window is not consumed, so the
			// next pass can fire as soon as cards become due
			continue
		}

		sendCtx, cancelSend := context.WithTimeout(ctx, s.config.SendTimeout)
		err = s.notifier.SendReminder(sendCtx, user.ID, count)
		cancelSend()
		if err != nil {
			// Delivery failed, nothing reached the user: the backoff
			// level stays where it was
			log.Printf("Error sending reminder to user %d: %v", user.ID, err)
			failed++
			continue
		}

		advanced := state.Advanced(now)
		if err := s.users.RecordNotificationSent(ctx, user.ID, advanced.Level, now); err != nil {
			log.Printf("Error recording notification state for user %d: %v", user.ID, err)
			failed++
			continue
		}
		sent++

		if s.config.SendDelay > 0 {
			time.Sleep(s.config.SendDelay)
		}
	}

	log.Printf("Reminder pass finished: %d sent, %d failed", sent, failed)
	return sent, failed
}

// RunManualCheck forces a reminder check for a specific user, bypassing the
// backoff gate and the notification window.
func (s *Scheduler) RunManualCheck(ctx context.Context, userID int64) error {
	count, err := s.due.CountDueCards(ctx, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return s.notifier.SendReminder(ctx, userID, count)
}
