package booking

import (
	"context"
	"errors"
	"time"

	"tourbook/internal/domain/shared/events"
	"tourbook/internal/domain/shared/money"
	"tourbook/internal/domain/tour"
)

var (
	// ErrInvalidTransition rejects a status change outside the allowed table,
	// including self-transitions.
	ErrInvalidTransition = errors.New("booking: invalid status transition")
	// ErrIllegalState rejects fee or refund computation outside its transition.
	ErrIllegalState    = errors.New("booking: operation not allowed in current status")
	ErrInvalidGuests   = errors.New("booking: guests count must be positive")
	ErrInvalidAmount   = errors.New("booking: total amount must not be negative")
	ErrBookingNotFound = errors.New("booking: not found")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

// Booking is a customer's reservation against a tour. Fee and refund fields
// are undefined until the transition that freezes them and immutable after.
type Booking struct {
	ID          BookingID
	TourID      tour.TourID
	CustomerID  string
	Guests      int
	TotalAmount money.Money
	BookingDate time.Time
	// TourDate is snapshotted at booking time; cancellation fees tier on the
	// days between "now" and this date, not on the tour's live record.
	TourDate   time.Time
	Status     Status
	PaymentRef string

	CancellationFee        money.Money
	CancellationFeePercent int
	// FeeComputed distinguishes a zero fee frozen by the engine from a
	// booking that was cancelled through the unpaid path where the engine
	// never ran.
	FeeComputed  bool
	RefundAmount money.Money

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error)
}

type CreateParams struct {
	ID          BookingID
	TourID      tour.TourID
	CustomerID  string
	Guests      int
	TotalAmount money.Money
	TourDate    time.Time
	Now         time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.CustomerID == "" {
		return nil, errors.New("booking: customer id required")
	}
	if params.TotalAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:          params.ID,
		TourID:      params.TourID,
		CustomerID:  params.CustomerID,
		Guests:      params.Guests,
		TotalAmount: params.TotalAmount,
		BookingDate: now,
		TourDate:    params.TourDate.UTC(),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Record(BookingRequested{BookingID: b.ID, TourID: b.TourID, CustomerID: b.CustomerID, Guests: b.Guests, Total: b.TotalAmount, At: now})
	return b, nil
}

// Pay confirms external payment: PENDING -> PAID. No fee logic is involved.
func (b *Booking) Pay(paymentRef string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.Status = StatusPaid
	b.PaymentRef = paymentRef
	b.UpdatedAt = now.UTC()
	b.Record(PaymentConfirmed{BookingID: b.ID, TourID: b.TourID, PaymentRef: paymentRef, Total: b.TotalAmount, At: b.UpdatedAt})
	return nil
}

// Cancel moves the booking to CANCELLED. A paid booking runs the fee engine
// with "now" at cancellation time and freezes the result; a pending booking
// cancels with zero fee since nothing has been paid. Every other status,
// including a repeated cancel, is rejected.
func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.Status {
	case StatusPaid:
		quote := ComputeFee(b.TourDate, b.TotalAmount, now)
		b.CancellationFee = quote.Amount
		b.CancellationFeePercent = quote.Percent
		b.FeeComputed = true
	case StatusPending:
		b.CancellationFee = money.Money{Amount: 0, Currency: b.TotalAmount.Currency}
		b.CancellationFeePercent = 0
	default:
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{
		BookingID:  b.ID,
		TourID:     b.TourID,
		Fee:        b.CancellationFee,
		FeePercent: b.CancellationFeePercent,
		Reason:     reason,
		At:         b.UpdatedAt,
	})
	return nil
}

// Refund moves CANCELLED -> REFUNDED, freezing the amount derived from the
// frozen cancellation fee. REFUNDED is terminal.
func (b *Booking) Refund(now time.Time) (money.Money, error) {
	if b.Status != StatusCancelled {
		return money.Money{}, ErrInvalidTransition
	}
	refund, err := ComputeRefund(b)
	if err != nil {
		return money.Money{}, err
	}
	b.RefundAmount = refund
	b.Status = StatusRefunded
	b.UpdatedAt = now.UTC()
	b.Record(BookingRefunded{BookingID: b.ID, TourID: b.TourID, Refund: refund, At: b.UpdatedAt})
	return refund, nil
}
