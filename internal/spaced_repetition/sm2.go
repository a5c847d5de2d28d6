package spaced_repetition

import (
	"fmt"
	"math"
	"time"

	"github.com/example/flashbot/pkg/models"
)

// Interval constants in fractional days for the short-term re-queue tiers
const (
	// AgainIntervalDays re-queues a forgotten card after about one minute
	AgainIntervalDays = 1.0 / 1440
	// HardMinIntervalDays is the floor for difficult cards, about ten minutes
	HardMinIntervalDays = 1.0 / 144
)

// SM2 implements a five-tier variant of the SuperMemo-2 algorithm.
// Compared to textbook SM-2 it uses tiered first-repetition intervals per
// rating and an asymmetric ease adjustment that penalizes failure harder
// than it rewards success.
type SM2 struct {
	// Lower bound for the ease factor
	MinEaseFactor float64
	// Upper bound for the ease factor
	MaxEaseFactor float64
	// Fixed interval assigned when a card is rated Mastered
	MasteredIntervalDays float64
}

// NewSM2 creates a scheduler with the default settings
func NewSM2() *SM2 {
	return &SM2{
		MinEaseFactor:        1.3,
		MaxEaseFactor:        2.5,
		MasteredIntervalDays: 365,
	}
}

// NewProgress returns a fresh progress record for a card the user has never
// reviewed: zero repetitions, maximum ease, no interval.
func NewProgress(userID int64, cardID, setID string) models.CardProgress {
	return models.CardProgress{
		UserID:     userID,
		CardID:     cardID,
		SetID:      setID,
		EaseFactor: 2.5,
	}
}

// Schedule computes the next state of a progress record after the user rated
// a recall. It is a pure function: the caller persists the result. Every
// valid rating is accepted for every prior state; an unrecognized rating is
// a caller bug and yields ErrInvalidRating.
func (sm *SM2) Schedule(progress models.CardProgress, rating Rating, now time.Time) (models.CardProgress, error) {
	p := progress

	switch rating {
	case Again:
		// Forgot completely: reset the streak, re-queue in about a minute
		p.Repetitions = 0
		p.IntervalDays = AgainIntervalDays
		p.EaseFactor = math.Max(sm.MinEaseFactor, p.EaseFactor-0.2)
	case Hard:
		if p.Repetitions == 0 {
			p.IntervalDays = HardMinIntervalDays
		} else {
			p.IntervalDays = math.Max(HardMinIntervalDays, p.IntervalDays*1.2)
		}
		p.Repetitions++
		p.EaseFactor = math.Max(sm.MinEaseFactor, p.EaseFactor-0.15)
	case Good:
		switch p.Repetitions {
		case 0:
			p.IntervalDays = 1
		case 1:
			p.IntervalDays = 2
		default:
			p.IntervalDays = math.Max(1, math.Floor(p.IntervalDays*p.EaseFactor))
		}
		p.Repetitions++
		p.EaseFactor = math.Min(sm.MaxEaseFactor, p.EaseFactor+0.1)
	case Easy:
		switch p.Repetitions {
		case 0:
			p.IntervalDays = 3
		case 1:
			p.IntervalDays = 5
		default:
			p.IntervalDays = math.Max(1, math.Floor(p.IntervalDays*p.EaseFactor*1.3))
		}
		p.Repetitions++
		p.EaseFactor = math.Min(sm.MaxEaseFactor, p.EaseFactor+0.15)
	case Mastered:
		// Product decision: retire the card with a fixed year-long interval
		// instead of the multiplicative formula
		p.IntervalDays = sm.MasteredIntervalDays
		p.Repetitions++
		p.EaseFactor = sm.MaxEaseFactor
	default:
		return models.CardProgress{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	p.LastReviewed = now
	p.NextReview = now.Add(DurationFromDays(p.IntervalDays))

	return p, nil
}

// IsMastered reports whether a card has been retired from frequent rotation
func (sm *SM2) IsMastered(progress models.CardProgress) bool {
	return progress.IntervalDays >= sm.MasteredIntervalDays
}

// DurationFromDays converts a fractional day count to a time.Duration
func DurationFromDays(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
