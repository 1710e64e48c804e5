package booking

import (
	"math"
	"time"

	"tourbook/internal/domain/shared/calendar"
	"tourbook/internal/domain/shared/money"
)

// FeeQuote is the deterministic cancellation charge for one point in time.
type FeeQuote struct {
	Percent int
	Amount  money.Money
}

// FeeTier maps a days-until-departure bracket to its fee percentage.
// MinDays is inclusive; the last tier is open-ended downwards.
type FeeTier struct {
	MinDays int
	Percent int
}

// FeeTiers is the authoritative fee table, largest bracket first. The policy
// text shown to staff quotes ranges (10-20%, 30-50%, 70-80%, 100%); those are
// advisory copy only, the engine always resolves to these exact values.
var FeeTiers = []FeeTier{
	{MinDays: 11, Percent: 15},
	{MinDays: 6, Percent: 40},
	{MinDays: 3, Percent: 75},
	{MinDays: math.MinInt, Percent: 100},
}

// FeePercentFor selects the tier for a number of days before departure.
func FeePercentFor(daysUntil int) int {
	for _, tier := range FeeTiers {
		if daysUntil >= tier.MinDays {
			return tier.Percent
		}
	}
	return 100
}

// ComputeFee quotes the cancellation charge for cancelling "now" a booking
// whose tour departs at tourDate. Pure; callers freeze the result onto the
// booking at the moment of the PAID -> CANCELLED transition.
func ComputeFee(tourDate time.Time, total money.Money, now time.Time) FeeQuote {
	percent := FeePercentFor(calendar.DaysBetween(now, tourDate))
	return FeeQuote{Percent: percent, Amount: total.Percent(percent)}
}

// ComputeRefund derives the net refund for a cancelled booking: the paid
// amount minus the frozen fee, floored at zero. A booking cancelled through a
// path that never ran the fee engine refunds the full amount. Requires the
// booking to be CANCELLED; idempotent given the frozen fee.
func ComputeRefund(b *Booking) (money.Money, error) {
	if b.Status != StatusCancelled {
		return money.Money{}, ErrIllegalState
	}
	if !b.FeeComputed {
		return b.TotalAmount, nil
	}
	refund, err := b.TotalAmount.Sub(b.CancellationFee)
	if err != nil {
		return money.Money{}, err
	}
	if refund.IsNegative() {
		refund = money.Money{Amount: 0, Currency: b.TotalAmount.Currency}
	}
	return refund, nil
}

// PreviewCancellation quotes what cancelling now would cost without touching
// the booking, for the staff confirmation dialog. Pending bookings preview a
// zero fee; cancelled or refunded ones have nothing left to quote.
func PreviewCancellation(b *Booking, now time.Time) (FeeQuote, error) {
	switch b.Status {
	case StatusPaid:
		return ComputeFee(b.TourDate, b.TotalAmount, now), nil
	case StatusPending:
		return FeeQuote{Percent: 0, Amount: money.Money{Amount: 0, Currency: b.TotalAmount.Currency}}, nil
	default:
		return FeeQuote{}, ErrIllegalState
	}
}
