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
	domaintour "tourbook/internal/domain/tour"
)

const requestBookingKey = "booking.request"

type RequestBookingCommand struct {
	CommandID       string
	TourID          string
	CustomerID      string
	Guests          int
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

func (c RequestBookingCommand) Validate() error {
	if strings.TrimSpace(c.TourID) == "" {
		return errors.New("booking: tour id is required")
	}
	if strings.TrimSpace(c.CustomerID) == "" {
		return errors.New("booking: customer id is required")
	}
	if c.Guests <= 0 {
		return domainbooking.ErrInvalidGuests
	}
	return nil
}

type RequestBookingResult struct {
	BookingID string    `json:"booking_id"`
	Total     int64     `json:"total"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	TourDate  time.Time `json:"tour_date"`
}

type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, execCtx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	managed := cleanup != nil
	if managed {
		defer cleanup()
	}

	now := time.Now().UTC()
	t, err := unit.Tours().ByID(execCtx, domaintour.TourID(cmd.TourID))
	if err != nil {
		return nil, err
	}
	if err := t.EnsureBookable(cmd.Guests, now); err != nil {
		return nil, err
	}

	total := t.Price.Multiply(int64(cmd.Guests))
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(cmd.CommandID),
		TourID:      t.ID,
		CustomerID:  cmd.CustomerID,
		Guests:      cmd.Guests,
		TotalAmount: total,
		TourDate:    t.StartDate,
		Now:         now,
	})
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
	return &RequestBookingResult{
		BookingID: string(b.ID),
		Total:     b.TotalAmount.Amount,
		Currency:  b.TotalAmount.Currency,
		Status:    string(b.Status),
		TourDate:  b.TourDate,
	}, nil
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
var _ middleware.SelfValidating = (*RequestBookingCommand)(nil)
