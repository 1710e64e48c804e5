package tour

import (
	"context"
	"strings"
	"time"

	"tourbook/internal/app/dto"
	"tourbook/internal/app/handlers/support"
	"tourbook/internal/app/queries"
	"tourbook/internal/app/uow"
	domaintour "tourbook/internal/domain/tour"
)

const tourCatalogKey = "tour.catalog"

// TourCatalogQuery lists tours for the public catalog, optionally filtered.
// Status filters on the derived classification, so it is applied after the
// repository search, per row.
type TourCatalogQuery struct {
	Region        string
	OperatorID    string
	Status        string
	DepartureFrom time.Time
	DepartureTo   time.Time
	Limit         int
}

func (q TourCatalogQuery) Key() string { return tourCatalogKey }

type TourCatalogHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *TourCatalogHandler) Handle(ctx context.Context, query TourCatalogQuery) (*dto.TourCatalog, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	now := time.Now().UTC()
	tours, err := unit.Tours().Search(execCtx, domaintour.SearchParams{
		Region:        query.Region,
		Operator:      query.OperatorID,
		DepartureFrom: query.DepartureFrom,
		DepartureTo:   query.DepartureTo,
		Limit:         query.Limit,
	})
	if err != nil {
		return nil, err
	}

	wantStatus := strings.ToUpper(strings.TrimSpace(query.Status))
	catalog := &dto.TourCatalog{Items: make([]dto.TourCatalogRow, 0, len(tours))}
	for _, t := range tours {
		row := dto.MapTourCatalogRow(t, now)
		if wantStatus != "" && row.Status != wantStatus {
			continue
		}
		catalog.Items = append(catalog.Items, row)
	}
	return catalog, nil
}

var _ queries.Handler[TourCatalogQuery, *dto.TourCatalog] = (*TourCatalogHandler)(nil)
