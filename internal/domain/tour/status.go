package tour

import (
	"errors"
	"math"
	"time"

	"tourbook/internal/domain/shared/calendar"
)

// ErrDegenerateCapacity is returned instead of dividing by a zero minimum.
// NewTour never produces such a tour; records ingested from elsewhere might.
var ErrDegenerateCapacity = errors.New("tour: minimum participants must be positive")

// TourStatus is the derived operational status shown on every screen.
type TourStatus string

const (
	StatusOpen         TourStatus = "OPEN"
	StatusNearDeadline TourStatus = "NEAR_DEADLINE"
	StatusFull         TourStatus = "FULL"
	StatusNotEnough    TourStatus = "NOT_ENOUGH"
	StatusCancelled    TourStatus = "CANCELLED"
	StatusActive       TourStatus = "ACTIVE"
	StatusInactive     TourStatus = "INACTIVE"
)

// NearDeadlineDays is the time-pressure threshold: at or under this many days
// to departure a viable tour is flagged NEAR_DEADLINE and an under-subscribed
// one gets the urgent discount tier.
const NearDeadlineDays = 7

// Progress reports the fill ratio against the minimum viable headcount, in
// whole percent. Deliberately unclamped: an oversubscribed tour reads above
// 100. The status engine always uses this raw value.
func (t *Tour) Progress() (int, error) {
	if t.MinParticipants <= 0 {
		return 0, ErrDegenerateCapacity
	}
	ratio := 100 * float64(t.CurrentParticipants) / float64(t.MinParticipants)
	return int(math.Round(ratio)), nil
}

// ProgressClamped keeps the value inside [0, 100] for progress-bar widgets.
func (t *Tour) ProgressClamped() int {
	p, err := t.Progress()
	if err != nil {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Classify derives the operational status. First match wins:
//
//  1. explicit CANCELLED, INACTIVE or ACTIVE flag (operator override),
//  2. FULL when current >= max,
//  3. NOT_ENOUGH when current < min, regardless of days remaining
//     (days only pick the discount tier, not the label),
//  4. NEAR_DEADLINE within NearDeadlineDays of departure,
//  5. OPEN otherwise.
//
// Capacity outranks time pressure: a full tour cannot absorb discount-driven
// demand no matter how close the deadline is.
func (t *Tour) Classify(now time.Time) TourStatus {
	switch t.Flag {
	case FlagCancelled:
		return StatusCancelled
	case FlagInactive:
		return StatusInactive
	case FlagActive:
		return StatusActive
	}
	if t.CurrentParticipants >= t.MaxParticipants {
		return StatusFull
	}
	if t.CurrentParticipants < t.MinParticipants {
		return StatusNotEnough
	}
	if calendar.DaysBetween(now, t.StartDate) <= NearDeadlineDays {
		return StatusNearDeadline
	}
	return StatusOpen
}
