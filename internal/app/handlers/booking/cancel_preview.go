package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourbook/internal/app/dto"
	"tourbook/internal/app/handlers/support"
	"tourbook/internal/app/queries"
	"tourbook/internal/app/uow"
	domainbooking "tourbook/internal/domain/booking"
	"tourbook/internal/domain/shared/calendar"
)

const cancelPreviewKey = "booking.cancel_preview"

// CancelPreviewQuery quotes the fee and refund of cancelling a booking right
// now, without committing anything. At overrides "now" for deterministic use.
type CancelPreviewQuery struct {
	BookingID string
	At        time.Time
}

func (q CancelPreviewQuery) Key() string { return cancelPreviewKey }

type CancelPreviewHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CancelPreviewHandler) Handle(ctx context.Context, q CancelPreviewQuery) (dto.CancellationPreview, error) {
	if strings.TrimSpace(q.BookingID) == "" {
		return dto.CancellationPreview{}, errors.New("booking: booking id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CancellationPreview{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return dto.CancellationPreview{}, err
	}
	now := q.At
	if now.IsZero() {
		now = time.Now().UTC()
	}
	quote, err := domainbooking.PreviewCancellation(b, now)
	if err != nil {
		return dto.CancellationPreview{}, err
	}
	refund, err := b.TotalAmount.Sub(quote.Amount)
	if err != nil {
		return dto.CancellationPreview{}, err
	}
	if refund.IsNegative() {
		refund.Amount = 0
	}
	return dto.CancellationPreview{
		BookingID:          string(b.ID),
		Status:             string(b.Status),
		DaysUntilDeparture: calendar.DaysBetween(now, b.TourDate),
		FeePercent:         quote.Percent,
		FeeAmount:          dto.MapMoney(quote.Amount),
		RefundAmount:       dto.MapMoney(refund),
	}, nil
}

var _ queries.Handler[CancelPreviewQuery, dto.CancellationPreview] = (*CancelPreviewHandler)(nil)
