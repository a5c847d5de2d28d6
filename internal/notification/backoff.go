// Package notification implements the reminder backoff state machine that
// keeps the bot from spamming inactive users. Each user carries a backoff
// level indexing a ladder of minimum waits between reminders; the level
// climbs one step per delivered reminder and drops back to zero the moment
// the user grades a card.
package notification

import "time"

// waitLadder holds the minimum wait before the next reminder, indexed by
// backoff level: 1h, 2h, 4h, 8h, 24h.
var waitLadder = [...]time.Duration{
	1 * time.Hour,
	2 * time.Hour,
	4 * time.Hour,
	8 * time.Hour,
	24 * time.Hour,
}

// MaxLevel is the highest backoff level; the wait stays at 24h beyond it.
const MaxLevel = len(waitLadder) - 1

// Wait returns the required wait for a backoff level. Out-of-range levels
// are clamped into the ladder.
func Wait(level int) time.Duration {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return waitLadder[level]
}

// BackoffState is a user's position in the reminder ladder.
type BackoffState struct {
	Level    int
	LastSent time.Time // zero value means no reminder has ever been sent
}

// Ready reports whether enough time has passed since the last reminder for
// another one to be allowed. A user who has never been reminded is always
// ready.
func (s BackoffState) Ready(now time.Time) bool {
	if s.LastSent.IsZero() {
		return true
	}
	return now.Sub(s.LastSent) >= Wait(s.Level)
}

// Advanced returns the state after a reminder was actually delivered: the
// level climbs one step, capped at MaxLevel. This is the only transition
// that increases the level.
func (s BackoffState) Advanced(now time.Time) BackoffState {
	level := s.Level + 1
	if level > MaxLevel {
		level = MaxLevel
	}
	return BackoffState{Level: level, LastSent: now}
}

// Reset returns the state after the user graded a card in a practice
// session. The level drops to zero regardless of where it was; the last
// send time is kept so an immediately following pass still honors the 1h
// base wait.
func (s BackoffState) Reset() BackoffState {
	return BackoffState{Level: 0, LastSent: s.LastSent}
}
