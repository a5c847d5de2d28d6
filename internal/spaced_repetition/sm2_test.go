package spaced_repetition

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/example/flashbot/pkg/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func mustSchedule(t *testing.T, sm *SM2, p models.CardProgress, r Rating, now time.Time) models.CardProgress {
	t.Helper()
	out, err := sm.Schedule(p, r, now)
	if err != nil {
		t.Fatalf("Schedule(%v): %v", r, err)
	}
	return out
}

func freshProgress() models.CardProgress {
	return NewProgress(42, "card-1", "set-1")
}

func TestScheduleFreshGood(t *testing.T) {
	sm := NewSM2()
	p := mustSchedule(t, sm, freshProgress(), Good, t0)

	if p.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", p.Repetitions)
	}
	assertFloat(t, "IntervalDays", p.IntervalDays, 1)
	// 2.5 + 0.1 clamps at the 2.5 ceiling
	assertFloat(t, "EaseFactor", p.EaseFactor, 2.5)
	wantNext := t0.Add(24 * time.Hour)
	if !p.NextReview.Equal(wantNext) {
		t.Errorf("NextReview = %v, want %v", p.NextReview, wantNext)
	}
	if !p.LastReviewed.Equal(t0) {
		t.Errorf("LastReviewed = %v, want %v", p.LastReviewed, t0)
	}
}

func TestScheduleFirstIntervalTiers(t *testing.T) {
	sm := NewSM2()
	tests := []struct {
		rating       Rating
		wantInterval float64
		wantReps     int
	}{
		{Again, AgainIntervalDays, 0},
		{Hard, HardMinIntervalDays, 1},
		{Good, 1, 1},
		{Easy, 3, 1},
		{Mastered, 365, 1},
	}
	for _, tt := range tests {
		t.Run(tt.rating.String(), func(t *testing.T) {
			p := mustSchedule(t, sm, freshProgress(), tt.rating, t0)
			assertFloat(t, "IntervalDays", p.IntervalDays, tt.wantInterval)
			if p.Repetitions != tt.wantReps {
				t.Errorf("Repetitions = %d, want %d", p.Repetitions, tt.wantReps)
			}
		})
	}
}

func TestScheduleSecondIntervalTiers(t *testing.T) {
	sm := NewSM2()
	base := freshProgress()
	base.Repetitions = 1
	base.IntervalDays = 1
	base.EaseFactor = 2.0

	tests := []struct {
		rating       Rating
		wantInterval float64
	}{
		{Good, 2},
		{Easy, 5},
	}
	for _, tt := range tests {
		t.Run(tt.rating.String(), func(t *testing.T) {
			p := mustSchedule(t, sm, base, tt.rating, t0)
			assertFloat(t, "IntervalDays", p.IntervalDays, tt.wantInterval)
			if p.Repetitions != 2 {
				t.Errorf("Repetitions = %d, want 2", p.Repetitions)
			}
		})
	}
}

func TestScheduleMatureIntervalFormula(t *testing.T) {
	sm := NewSM2()
	p := freshProgress()
	p.Repetitions = 3
	p.IntervalDays = 10
	p.EaseFactor = 2.0

	good := mustSchedule(t, sm, p, Good, t0)
	assertFloat(t, "Good interval", good.IntervalDays, 20) // floor(10 * 2.0)

	easy := mustSchedule(t, sm, p, Easy, t0)
	assertFloat(t, "Easy interval", easy.IntervalDays, 26) // floor(10 * 2.0 * 1.3)
}

func TestScheduleAgainResetsStreak(t *testing.T) {
	sm := NewSM2()
	p := freshProgress()
	p.Repetitions = 7
	p.IntervalDays = 42
	p.EaseFactor = 2.0

	out := mustSchedule(t, sm, p, Again, t0)
	if out.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0", out.Repetitions)
	}
	assertFloat(t, "IntervalDays", out.IntervalDays, AgainIntervalDays)
	assertFloat(t, "EaseFactor", out.EaseFactor, 1.8)
}

func TestScheduleEaseFloorClamp(t *testing.T) {
	sm := NewSM2()
	p := freshProgress()
	p.EaseFactor = 1.3

	out := mustSchedule(t, sm, p, Again, t0)
	assertFloat(t, "EaseFactor", out.EaseFactor, 1.3)

	out = mustSchedule(t, sm, p, Hard, t0)
	assertFloat(t, "EaseFactor", out.EaseFactor, 1.3)
}

func TestScheduleEaseCeilingClamp(t *testing.T) {
	sm := NewSM2()
	p := freshProgress()
	p.EaseFactor = 2.5
	p.Repetitions = 2
	p.IntervalDays = 4

	out := mustSchedule(t, sm, p, Easy, t0)
	assertFloat(t, "EaseFactor", out.EaseFactor, 2.5)
}

func TestScheduleRepeatedAgainKeepsEaseBounded(t *testing.T) {
	sm := NewSM2()
	p := freshProgress()
	now := t0
	for i := 0; i < 20; i++ {
		p = mustSchedule(t, sm, p, Again, now)
		if p.EaseFactor < 1.3 {
			t.Fatalf("iteration %d: EaseFactor = %v, below 1.3", i, p.EaseFactor)
		}
		now = p.NextReview.Add(time.Second)
	}
	assertFloat(t, "EaseFactor", p.EaseFactor, 1.3)
}

func TestScheduleIntervalAlwaysPositive(t *testing.T) {
	sm := NewSM2()
	ratings := []Rating{Again, Hard, Good, Easy, Mastered}
	// Walk every rating from a few awkward starting states, including the
	// sub-day intervals where floor(interval*ef) would truncate to zero.
	starts := []models.CardProgress{
		freshProgress(),
		{UserID: 42, CardID: "c", SetID: "s", Repetitions: 2, IntervalDays: HardMinIntervalDays, EaseFactor: 1.3},
		{UserID: 42, CardID: "c", SetID: "s", Repetitions: 5, IntervalDays: 0.5, EaseFactor: 1.5},
	}
	for _, start := range starts {
		for _, r := range ratings {
			p := mustSchedule(t, sm, start, r, t0)
			if p.IntervalDays <= 0 {
				t.Errorf("start %+v rating %v: IntervalDays = %v, want > 0", start, r, p.IntervalDays)
			}
			if !p.NextReview.After(t0) {
				t.Errorf("start %+v rating %v: NextReview = %v, not after now", start, r, p.NextReview)
			}
		}
	}
}

func TestScheduleInvalidRating(t *testing.T) {
	sm := NewSM2()
	for _, r := range []Rating{0, 6, -1, 100} {
		_, err := sm.Schedule(freshProgress(), r, t0)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Schedule(%d) error = %v, want ErrInvalidRating", int(r), err)
		}
	}
}

// Simulates five sessions on one card, advancing time past each review.
func TestScheduleFullRecoveryScenario(t *testing.T) {
	sm := NewSM2()
	p := freshProgress()
	now := t0

	for _, r := range []Rating{Again, Hard, Good, Easy, Mastered} {
		p = mustSchedule(t, sm, p, r, now)
		now = p.NextReview.Add(time.Minute)
	}

	if p.Repetitions != 4 {
		t.Errorf("Repetitions = %d, want 4", p.Repetitions)
	}
	assertFloat(t, "IntervalDays", p.IntervalDays, 365)
	assertFloat(t, "EaseFactor", p.EaseFactor, 2.5)
	if !sm.IsMastered(p) {
		t.Error("IsMastered = false, want true")
	}
}

func TestScheduleIsPure(t *testing.T) {
	sm := NewSM2()
	in := freshProgress()
	in.Repetitions = 2
	in.IntervalDays = 4
	before := in

	if _, err := sm.Schedule(in, Good, t0); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if in != before {
		t.Errorf("input mutated: %+v != %+v", in, before)
	}
}
