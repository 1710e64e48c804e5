package tour

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourbook/internal/app/dto"
	"tourbook/internal/app/handlers/support"
	"tourbook/internal/app/queries"
	"tourbook/internal/app/uow"
	"tourbook/internal/domain/shared/calendar"
	domaintour "tourbook/internal/domain/tour"
)

const tourOverviewKey = "tour.overview"

// TourOverviewQuery fetches one tour with its derived status, progress and
// discount advice. At, when set, pins the evaluation instant.
type TourOverviewQuery struct {
	TourID string
	At     time.Time
}

func (q TourOverviewQuery) Key() string { return tourOverviewKey }

type TourOverviewHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *TourOverviewHandler) Handle(ctx context.Context, query TourOverviewQuery) (*dto.TourOverview, error) {
	if strings.TrimSpace(query.TourID) == "" {
		return nil, errors.New("tour: tour id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	now := query.At
	if now.IsZero() {
		now = time.Now().UTC()
	}
	t, err := unit.Tours().ByID(execCtx, domaintour.TourID(query.TourID))
	if err != nil {
		return nil, err
	}
	daysUntil := calendar.DaysBetween(now, t.StartDate)
	overview := dto.MapTourOverview(t, now, daysUntil)
	return &overview, nil
}

var _ queries.Handler[TourOverviewQuery, *dto.TourOverview] = (*TourOverviewHandler)(nil)
