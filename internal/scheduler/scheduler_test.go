package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/example/flashbot/pkg/models"
)

// Noon keeps every test inside the default notification window.
var t0 = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		SendTimeout: time.Second,
		SendDelay:   0,
		StartHour:   DefaultNotificationStartHour,
		EndHour:     DefaultNotificationEndHour,
	}
}

type fakeUserStore struct {
	users    []models.User
	listErr  error
	recorded map[int64]int // userID -> level written
	sentAt   map[int64]time.Time
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	return &fakeUserStore{
		users:    users,
		recorded: make(map[int64]int),
		sentAt:   make(map[int64]time.Time),
	}
}

func (f *fakeUserStore) UsersForReminders(context.Context) ([]models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.users, nil
}

func (f *fakeUserStore) RecordNotificationSent(_ context.Context, userID int64, level int, sentAt time.Time) error {
	f.recorded[userID] = level
	f.sentAt[userID] = sentAt
	return nil
}

type fakeDueCounter struct {
	counts map[int64]int
	errs   map[int64]error
	calls  int
}

func (f *fakeDueCounter) CountDueCards(_ context.Context, userID int64, _ time.Time) (int, error) {
	f.calls++
	if err := f.errs[userID]; err != nil {
		return 0, err
	}
	return f.counts[userID], nil
}

type fakeNotifier struct {
	sent  map[int64]int // userID -> due count delivered
	fail  map[int64]error
	calls int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(map[int64]int), fail: make(map[int64]error)}
}

func (f *fakeNotifier) SendReminder(_ context.Context, userID int64, dueCount int) error {
	f.calls++
	if err := f.fail[userID]; err != nil {
		return err
	}
	f.sent[userID] = dueCount
	return nil
}

func user(id int64, level int, lastSent time.Time) models.User {
	u := models.User{ID: id, NotificationsEnabled: true, BackoffLevel: level}
	if !lastSent.IsZero() {
		u.LastNotificationSent = sql.NullTime{Time: lastSent, Valid: true}
	}
	return u
}

func TestRunPassFirstTickSendsAndAdvances(t *testing.T) {
	users := newFakeUserStore(user(1, 0, time.Time{}))
	due := &fakeDueCounter{counts: map[int64]int{1: 5}}
	notifier := newFakeNotifier()
	s := New(users, due, notifier, testConfig())

	sent, failed := s.RunPass(context.Background(), t0)
	if sent != 1 || failed != 0 {
		t.Fatalf("sent=%d failed=%d, want 1/0", sent, failed)
	}
	if notifier.sent[1] != 5 {
		t.Errorf("delivered due count = %d, want 5", notifier.sent[1])
	}
	if users.recorded[1] != 1 {
		t.Errorf("recorded level = %d, want 1", users.recorded[1])
	}
	if !users.sentAt[1].Equal(t0) {
		t.Errorf("recorded sentAt = %v, want %v", users.sentAt[1], t0)
	}
}

func TestRunPassGatesInsideWaitWindow(t *testing.T) {
	// Level 1, last reminded 30 minutes ago: the 2h wait has not elapsed.
	users := newFakeUserStore(user(1, 1, t0.Add(-30*time.Minute)))
	due := &fakeDueCounter{counts: map[int64]int{1: 5}}
	notifier := newFakeNotifier()
	s := New(users, due, notifier, testConfig())

	sent, _ := s.RunPass(context.Background(), t0)
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}
	if due.calls != 0 {
		t.Errorf("due cards were counted for a gated user")
	}
}

func TestRunPassSendsAfterWaitElapsed(t *testing.T) {
	users := newFakeUserStore(user(1, 1, t0.Add(-2*time.Hour)))
	due := &fakeDueCounter{counts: map[int64]int{1: 2}}
	notifier := newFakeNotifier()
	s := New(users, due, notifier, testConfig())

	sent, _ := s.RunPass(context.Background(), t0)
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	if users.recorded[1] != 2 {
		t.Errorf("recorded level = %d, want 2", users.recorded[1])
	}
}

func TestRunPassNoDueCardsLeavesStateAlone(t *testing.T) {
	users := newFakeUserStore(user(1, 2, t0.Add(-5*time.Hour)))
	due := &fakeDueCounter{counts: map[int64]int{1: 0}}
	notifier := newFakeNotifier()
	s := New(users, due, notifier, testConfig())

	sent, failed := s.RunPass(context.Background(), t0)
	if sent != 0 || failed != 0 {
		t.Errorf("sent=%d failed=%d, want 0/0", sent, failed)
	}
	if notifier.calls != 0 {
		t.Error("notifier called with no due cards")
	}
	if len(users.recorded) != 0 {
		t.Error("backoff state mutated without a send")
	}
}

func TestRunPassDeliveryFailureDoesNotAdvance(t *testing.T) {
	users := newFakeUserStore(user(1, 0, time.Time{}))
	due := &fakeDueCounter{counts: map[int64]int{1: 3}}
	notifier := newFakeNotifier()
	notifier.fail[1] = errors.New("chat blocked")
	s := New(users, due, notifier, testConfig())

	sent, failed := s.RunPass(context.Background(), t0)
	if sent != 0 || failed != 1 {
		t.Errorf("sent=%d failed=%d, want 0/1", sent, failed)
	}
	if len(users.recorded) != 0 {
		t.Error("backoff advanced despite delivery failure")
	}
}

func TestRunPassIsolatesPerUserFailures(t *testing.T) {
	users := newFakeUserStore(
		user(1, 0, time.Time{}),
		user(2, 0, time.Time{}),
		user(3, 0, time.Time{}),
	)
	due := &fakeDueCounter{
		counts: map[int64]int{1: 1, 3: 4},
		errs:   map[int64]error{2: errors.New("store unavailable")},
	}
	notifier := newFakeNotifier()
	s := New(users, due, notifier, testConfig())

	sent, failed := s.RunPass(context.Background(), t0)
	if sent != 2 {
		t.Errorf("sent = %d, want 2 (users 1 and 3)", sent)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1 (user 2)", failed)
	}
	if notifier.sent[3] != 4 {
		t.Errorf("user 3 due count = %d, want 4", notifier.sent[3])
	}
}

func TestRunPassOutsideNotificationWindow(t *testing.T) {
	users := newFakeUserStore(user(1, 0, time.Time{}))
	due := &fakeDueCounter{counts: map[int64]int{1: 5}}
	notifier := newFakeNotifier()
	cfg := testConfig()
	cfg.StartHour = 8
	cfg.EndHour = 10
	s := New(users, due, notifier, cfg)

	sent, _ := s.RunPass(context.Background(), t0) // noon, outside 8-10
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}
	if notifier.calls != 0 {
		t.Error("notifier called outside the window")
	}
}

func TestRunPassStopsOnCancelledContext(t *testing.T) {
	users := newFakeUserStore(
		user(1, 0, time.Time{}),
		user(2, 0, time.Time{}),
	)
	due := &fakeDueCounter{counts: map[int64]int{1: 1, 2: 1}}
	notifier := newFakeNotifier()
	s := New(users, due, notifier, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, _ := s.RunPass(ctx, t0)
	if sent != 0 {
		t.Errorf("sent = %d, want 0 after cancellation", sent)
	}
	if notifier.calls != 0 {
		t.Error("notifier called after cancellation")
	}
}

func TestRunManualCheck(t *testing.T) {
	users := newFakeUserStore()
	due := &fakeDueCounter{counts: map[int64]int{7: 2}}
	notifier := newFakeNotifier()
	s := New(users, due, notifier, testConfig())

	if err := s.RunManualCheck(context.Background(), 7); err != nil {
		t.Fatalf("RunManualCheck: %v", err)
	}
	if notifier.sent[7] != 2 {
		t.Errorf("due count = %d, want 2", notifier.sent[7])
	}
	// Manual checks never touch the persisted backoff state.
	if len(users.recorded) != 0 {
		t.Error("manual check advanced backoff state")
	}
}
