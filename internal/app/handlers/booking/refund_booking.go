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

const refundBookingKey = "booking.refund"

type RefundBookingCommand struct {
	BookingID       string
	IdempotencyKeyV string
}

func (c RefundBookingCommand) Key() string { return refundBookingKey }

func (c RefundBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RefundBookingCommand) ResultPrototype() any { return &RefundBookingResult{} }

func (c RefundBookingCommand) Validate() error {
	if strings.TrimSpace(c.BookingID) == "" {
		return errors.New("booking: booking id is required")
	}
	return nil
}

type RefundBookingResult struct {
	BookingID    string `json:"booking_id"`
	Status       string `json:"status"`
	RefundAmount int64  `json:"refund_amount"`
	Currency     string `json:"currency"`
}

type RefundBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RefundBookingHandler) Handle(ctx context.Context, cmd RefundBookingCommand) (*RefundBookingResult, error) {
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
	refund, err := b.Refund(now)
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(execCtx, b); err != nil {
		return nil, err
	}
	if err := support.DrainEvents(execCtx, h.Outbox, h.Encoder, b); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
	}
	return &RefundBookingResult{
		BookingID:    string(b.ID),
		Status:       string(b.Status),
		RefundAmount: refund.Amount,
		Currency:     refund.Currency,
	}, nil
}

var _ commands.Handler[RefundBookingCommand, *RefundBookingResult] = (*RefundBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RefundBookingCommand)(nil)
