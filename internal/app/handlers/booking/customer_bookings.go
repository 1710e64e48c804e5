package booking

import (
	"context"
	"errors"
	"strings"

	"tourbook/internal/app/dto"
	"tourbook/internal/app/handlers/support"
	"tourbook/internal/app/queries"
	"tourbook/internal/app/uow"
)

const customerBookingsKey = "booking.by_customer"

type CustomerBookingsQuery struct {
	CustomerID string
}

func (q CustomerBookingsQuery) Key() string { return customerBookingsKey }

type CustomerBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CustomerBookingsHandler) Handle(ctx context.Context, q CustomerBookingsQuery) (dto.BookingCollection, error) {
	customerID := strings.TrimSpace(q.CustomerID)
	if customerID == "" {
		return dto.BookingCollection{}, errors.New("booking: customer id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByCustomer(execCtx, customerID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	items := make([]dto.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, dto.MapBookingSummary(b))
	}
	return dto.BookingCollection{Items: items}, nil
}

var _ queries.Handler[CustomerBookingsQuery, dto.BookingCollection] = (*CustomerBookingsHandler)(nil)
