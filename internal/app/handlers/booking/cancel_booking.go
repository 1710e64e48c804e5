package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourbook/internal/app/commands"
	"tourbook/internal/app/handlers/support"
	"tourbook/internal/app/middleware"
	"tourbook/internal/app/outbox"
	"tourbook/internal/app/uow"
	domainbooking "tourbook/internal/domain/booking"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID       string
	Reason          string
	IdempotencyKeyV string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

func (c CancelBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CancelBookingCommand) ResultPrototype() any { return &CancelBookingResult{} }

func (c CancelBookingCommand) Validate() error {
	if strings.TrimSpace(c.BookingID) == "" {
		return errors.New("booking: booking id is required")
	}
	return nil
}

type CancelBookingResult struct {
	BookingID  string `json:"booking_id"`
	Status     string `json:"status"`
	FeePercent int    `json:"fee_percent"`
	FeeAmount  int64  `json:"fee_amount"`
	Currency   string `json:"currency"`
}

type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	unit, execCtx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	managed := cleanup != nil
	if managed {
		defer cleanup()
	}

	now := time.Now().UTC()
	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}

	wasPaid := b.Status == domainbooking.StatusPaid
	if err := b.Cancel(cmd.Reason, now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(execCtx, b); err != nil {
		return nil, err
	}

	// Only a paid booking held seats on the tour.
	if wasPaid {
		t, err := unit.Tours().ByID(execCtx, b.TourID)
		if err != nil {
			return nil, err
		}
		if err := t.ReleaseSeats(b.Guests, now); err != nil {
			return nil, err
		}
		if err := unit.Tours().Save(execCtx, t); err != nil {
			return nil, err
		}
		if err := support.DrainEvents(execCtx, h.Outbox, h.Encoder, t); err != nil {
			return nil, err
		}
	}
	if err := support.DrainEvents(execCtx, h.Outbox, h.Encoder, b); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
	}
	return &CancelBookingResult{
		BookingID:  string(b.ID),
		Status:     string(b.Status),
		FeePercent: b.CancellationFeePercent,
		FeeAmount:  b.CancellationFee.Amount,
		Currency:   b.TotalAmount.Currency,
	}, nil
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CancelBookingCommand)(nil)
