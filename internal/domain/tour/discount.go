package tour

import (
	"errors"
	"time"

	"tourbook/internal/domain/shared/calendar"
)

var ErrDiscountPercent = errors.New("tour: discount percent must be between 1 and 99")

const (
	// StandardDiscountPercent is suggested while there is still comfortable
	// time to fill the tour.
	StandardDiscountPercent = 10
	// UrgentDiscountPercent is the last-chance tier ("giảm giá gấp") inside
	// the deadline window.
	UrgentDiscountPercent = 20
)

// DiscountAdvice is a non-binding suggestion for an under-subscribed tour.
// It is only meaningful when Classify returns NOT_ENOUGH; callers filter.
type DiscountAdvice struct {
	Eligible         bool
	SuggestedPercent int
	Urgent           bool
}

// AdviseDiscount picks a tier from the time left until departure. Once the
// tour has effectively started, discounting is moot and cancellation is the
// only remaining action.
func (t *Tour) AdviseDiscount(now time.Time) DiscountAdvice {
	days := calendar.DaysBetween(now, t.StartDate)
	switch {
	case days <= 0:
		return DiscountAdvice{}
	case days <= NearDeadlineDays:
		return DiscountAdvice{Eligible: true, SuggestedPercent: UrgentDiscountPercent, Urgent: true}
	default:
		return DiscountAdvice{Eligible: true, SuggestedPercent: StandardDiscountPercent}
	}
}

// ApplyDiscount reprices the tour. The original price is captured exactly
// once; a second discount recomputes from it rather than compounding on the
// already-discounted price.
func (t *Tour) ApplyDiscount(percent int, now time.Time) error {
	if percent < 1 || percent > 99 {
		return ErrDiscountPercent
	}
	if t.Flag == FlagCancelled {
		return ErrTourCancelled
	}
	if calendar.DaysBetween(now, t.StartDate) <= 0 {
		return ErrTourDeparted
	}
	if t.OriginalPrice.IsZero() {
		t.OriginalPrice = t.Price
	}
	t.Price = t.OriginalPrice.Percent(100 - percent)
	t.DiscountPercent = percent
	t.UpdatedAt = now.UTC()
	t.Record(TourDiscounted{
		TourID:   t.ID,
		Percent:  percent,
		NewPrice: t.Price,
		At:       t.UpdatedAt,
	})
	return nil
}
