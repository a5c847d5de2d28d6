package notification

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestWaitLadder(t *testing.T) {
	tests := []struct {
		level int
		want  time.Duration
	}{
		{0, 1 * time.Hour},
		{1, 2 * time.Hour},
		{2, 4 * time.Hour},
		{3, 8 * time.Hour},
		{4, 24 * time.Hour},
		{9, 24 * time.Hour}, // clamped above the ladder
		{-1, 1 * time.Hour}, // clamped below
	}
	for _, tt := range tests {
		if got := Wait(tt.level); got != tt.want {
			t.Errorf("Wait(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestReadyNeverSent(t *testing.T) {
	var s BackoffState
	if !s.Ready(t0) {
		t.Error("fresh state should always be ready")
	}
}

func TestReadyRespectsWait(t *testing.T) {
	s := BackoffState{Level: 1, LastSent: t0}

	if s.Ready(t0.Add(time.Hour)) {
		t.Error("ready after 1h at level 1, want gated until 2h")
	}
	if !s.Ready(t0.Add(2 * time.Hour)) {
		t.Error("not ready after 2h at level 1")
	}
}

func TestAdvancedClimbsAndCaps(t *testing.T) {
	var s BackoffState
	for i := 1; i <= 7; i++ {
		s = s.Advanced(t0)
		want := i
		if want > MaxLevel {
			want = MaxLevel
		}
		if s.Level != want {
			t.Errorf("after %d sends Level = %d, want %d", i, s.Level, want)
		}
	}
	if !s.LastSent.Equal(t0) {
		t.Errorf("LastSent = %v, want %v", s.LastSent, t0)
	}
}

func TestResetDropsLevelKeepsLastSent(t *testing.T) {
	s := BackoffState{Level: 4, LastSent: t0}
	out := s.Reset()
	if out.Level != 0 {
		t.Errorf("Level = %d, want 0", out.Level)
	}
	if !out.LastSent.Equal(t0) {
		t.Errorf("LastSent = %v, want %v", out.LastSent, t0)
	}
}

// Walks the ladder the way the poller does: first tick always sends, the
// second tick is gated until the new wait elapses.
func TestLadderProgression(t *testing.T) {
	var s BackoffState
	now := t0

	// First tick: never sent before, so it fires and climbs to level 1.
	if !s.Ready(now) {
		t.Fatal("first tick should pass the gate")
	}
	s = s.Advanced(now)
	if s.Level != 1 {
		t.Fatalf("Level = %d, want 1", s.Level)
	}

	// A tick 30 minutes later is inside the 2h wait for level 1.
	if s.Ready(now.Add(30 * time.Minute)) {
		t.Error("tick inside the wait window should be gated")
	}

	// After the wait elapses the next send climbs to level 2 (gate 4h).
	now = now.Add(2 * time.Hour)
	if !s.Ready(now) {
		t.Fatal("tick after the wait should pass")
	}
	s = s.Advanced(now)
	if s.Level != 2 {
		t.Errorf("Level = %d, want 2", s.Level)
	}
	if Wait(s.Level) != 4*time.Hour {
		t.Errorf("Wait(%d) = %v, want 4h", s.Level, Wait(s.Level))
	}
}
