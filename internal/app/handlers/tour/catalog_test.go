package tour

import (
	"context"
	"testing"
	"time"

	"tourbook/internal/domain/shared/money"
	domaintour "tourbook/internal/domain/tour"
	"tourbook/internal/infra/storage/memory"
)

func seedCatalogTour(t *testing.T, repo *memory.TourRepository, id string, current, daysUntil int) {
	t.Helper()
	now := time.Now().UTC()
	tr, err := domaintour.NewTour(domaintour.CreateParams{
		ID:              domaintour.TourID(id),
		OperatorID:      "op-1",
		Title:           "Tour " + id,
		Region:          "Ha Giang",
		MinParticipants: 10,
		MaxParticipants: 20,
		StartDate:       now.AddDate(0, 0, daysUntil),
		Price:           money.Dong(1_000_000),
		Now:             now,
	})
	if err != nil {
		t.Fatalf("NewTour(%s): %v", id, err)
	}
	tr.CurrentParticipants = current
	tr.ClearEvents()
	if err := repo.Save(context.Background(), tr); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestTourCatalogFiltersByDerivedStatus(t *testing.T) {
	repo := memory.NewTourRepository()
	seedCatalogTour(t, repo, "t-open", 12, 30)
	seedCatalogTour(t, repo, "t-short", 4, 30)
	seedCatalogTour(t, repo, "t-full", 20, 30)

	h := &TourCatalogHandler{UoWFactory: memory.Factory{
		TourRepo:    repo,
		BookingRepo: memory.NewBookingRepository(),
	}}
	ctx := context.Background()

	t.Run("no status returns everything", func(t *testing.T) {
		catalog, err := h.Handle(ctx, TourCatalogQuery{})
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(catalog.Items) != 3 {
			t.Fatalf("items = %d, want 3", len(catalog.Items))
		}
	})

	t.Run("status narrows to matching rows", func(t *testing.T) {
		catalog, err := h.Handle(ctx, TourCatalogQuery{Status: "NOT_ENOUGH"})
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(catalog.Items) != 1 || catalog.Items[0].ID != "t-short" {
			t.Fatalf("items = %+v, want only t-short", catalog.Items)
		}
	})

	t.Run("status is case insensitive", func(t *testing.T) {
		catalog, err := h.Handle(ctx, TourCatalogQuery{Status: "full"})
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(catalog.Items) != 1 || catalog.Items[0].ID != "t-full" {
			t.Fatalf("items = %+v, want only t-full", catalog.Items)
		}
	})

	t.Run("unknown status matches nothing", func(t *testing.T) {
		catalog, err := h.Handle(ctx, TourCatalogQuery{Status: "DEPARTED"})
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(catalog.Items) != 0 {
			t.Fatalf("items = %d, want 0", len(catalog.Items))
		}
	})
}
