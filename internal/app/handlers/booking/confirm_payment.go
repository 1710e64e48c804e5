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

const confirmPaymentKey = "booking.confirm_payment"

// ConfirmPaymentCommand applies an external payment confirmation: the booking
// moves PENDING -> PAID and its seats are reserved on the tour.
type ConfirmPaymentCommand struct {
	BookingID       string
	PaymentRef      string
	IdempotencyKeyV string
}

func (c ConfirmPaymentCommand) Key() string { return confirmPaymentKey }

func (c ConfirmPaymentCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ConfirmPaymentCommand) ResultPrototype() any { return &ConfirmPaymentResult{} }

func (c ConfirmPaymentCommand) Validate() error {
	if strings.TrimSpace(c.BookingID) == "" {
		return errors.New("booking: booking id is required")
	}
	return nil
}

type ConfirmPaymentResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type ConfirmPaymentHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*ConfirmPaymentResult, error) {
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
	// Reject non-pending bookings before the tour is touched: a duplicate
	// confirmation must not reserve seats it then cannot pay for.
	if b.Status != domainbooking.StatusPending {
		return nil, domainbooking.ErrInvalidTransition
	}
	t, err := unit.Tours().ByID(execCtx, b.TourID)
	if err != nil {
		return nil, err
	}

	// Seats first: a full tour must fail the confirmation before the booking
	// flips to PAID.
	if err := t.ReserveSeats(b.Guests, now); err != nil {
		return nil, err
	}
	if err := b.Pay(cmd.PaymentRef, now); err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(execCtx, b); err != nil {
		return nil, err
	}
	if err := unit.Tours().Save(execCtx, t); err != nil {
		return nil, err
	}
	if err := support.DrainEvents(execCtx, h.Outbox, h.Encoder, b, t); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
	}
	return &ConfirmPaymentResult{BookingID: string(b.ID), Status: string(b.Status)}, nil
}

var _ commands.Handler[ConfirmPaymentCommand, *ConfirmPaymentResult] = (*ConfirmPaymentHandler)(nil)
var _ middleware.IdempotentCommand = (*ConfirmPaymentCommand)(nil)
