package tour

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
	domaintour "tourbook/internal/domain/tour"
)

const applyDiscountKey = "tour.apply_discount"

// ErrNotEligible is returned when no percent was supplied and the advisor has
// no suggestion to fall back on.
var ErrNotEligible = errors.New("tour: no discount advisable for this tour")

// ApplyDiscountCommand reprices a tour. Percent zero means "use the advisor's
// suggestion"; otherwise the operator's explicit choice wins.
type ApplyDiscountCommand struct {
	TourID          string
	Percent         int
	IdempotencyKeyV string
}

func (c ApplyDiscountCommand) Key() string { return applyDiscountKey }

func (c ApplyDiscountCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ApplyDiscountCommand) ResultPrototype() any { return &ApplyDiscountResult{} }

func (c ApplyDiscountCommand) Validate() error {
	if strings.TrimSpace(c.TourID) == "" {
		return errors.New("tour: tour id is required")
	}
	if c.Percent < 0 || c.Percent > 99 {
		return domaintour.ErrDiscountPercent
	}
	return nil
}

type ApplyDiscountResult struct {
	TourID        string `json:"tour_id"`
	Percent       int    `json:"percent"`
	NewPrice      int64  `json:"new_price"`
	OriginalPrice int64  `json:"original_price"`
	Currency      string `json:"currency"`
}

type ApplyDiscountHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ApplyDiscountHandler) Handle(ctx context.Context, cmd ApplyDiscountCommand) (*ApplyDiscountResult, error) {
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

	percent := cmd.Percent
	if percent == 0 {
		advice := t.AdviseDiscount(now)
		if !advice.Eligible {
			return nil, ErrNotEligible
		}
		percent = advice.SuggestedPercent
	}
	if err := t.ApplyDiscount(percent, now); err != nil {
		return nil, err
	}
	if err := unit.Tours().Save(execCtx, t); err != nil {
		return nil, err
	}
	if err := support.DrainEvents(execCtx, h.Outbox, h.Encoder, t); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
	}
	return &ApplyDiscountResult{
		TourID:        string(t.ID),
		Percent:       percent,
		NewPrice:      t.Price.Amount,
		OriginalPrice: t.OriginalPrice.Amount,
		Currency:      t.Price.Currency,
	}, nil
}

var _ commands.Handler[ApplyDiscountCommand, *ApplyDiscountResult] = (*ApplyDiscountHandler)(nil)
var _ middleware.IdempotentCommand = (*ApplyDiscountCommand)(nil)
