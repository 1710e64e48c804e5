package tour

import (
	"errors"
	"testing"
	"time"
)

func TestAdviseDiscountTiers(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		daysUntil   int
		wantOK      bool
		wantPercent int
		wantUrgent  bool
	}{
		{"comfortable lead time", 12, true, StandardDiscountPercent, false},
		{"just outside the window", 8, true, StandardDiscountPercent, false},
		{"window boundary is urgent", 7, true, UrgentDiscountPercent, true},
		{"last day is urgent", 1, true, UrgentDiscountPercent, true},
		{"departure day ineligible", 0, false, 0, false},
		{"already departed ineligible", -3, false, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := testTour(t, 10, 20, 4, tc.daysUntil, now)
			advice := tr.AdviseDiscount(now)
			if advice.Eligible != tc.wantOK {
				t.Fatalf("Eligible = %v, want %v", advice.Eligible, tc.wantOK)
			}
			if advice.SuggestedPercent != tc.wantPercent {
				t.Fatalf("SuggestedPercent = %d, want %d", advice.SuggestedPercent, tc.wantPercent)
			}
			if advice.Urgent != tc.wantUrgent {
				t.Fatalf("Urgent = %v, want %v", advice.Urgent, tc.wantUrgent)
			}
		})
	}
}

func TestApplyDiscountDoesNotCompound(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tr := testTour(t, 10, 20, 4, 20, now)

	if err := tr.ApplyDiscount(10, now); err != nil {
		t.Fatalf("first discount: %v", err)
	}
	if tr.Price.Amount != 1_350_000 {
		t.Fatalf("price after 10%% = %d, want 1350000", tr.Price.Amount)
	}
	if tr.OriginalPrice.Amount != 1_500_000 {
		t.Fatalf("original price = %d, want 1500000", tr.OriginalPrice.Amount)
	}

	// Second discount recomputes from the original, not the discounted price.
	if err := tr.ApplyDiscount(20, now); err != nil {
		t.Fatalf("second discount: %v", err)
	}
	if tr.Price.Amount != 1_200_000 {
		t.Fatalf("price after 20%% = %d, want 1200000", tr.Price.Amount)
	}
	if tr.DiscountPercent != 20 {
		t.Fatalf("DiscountPercent = %d, want 20", tr.DiscountPercent)
	}
}

func TestApplyDiscountValidation(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("percent out of range", func(t *testing.T) {
		tr := testTour(t, 10, 20, 4, 20, now)
		for _, p := range []int{0, 100, -5} {
			if err := tr.ApplyDiscount(p, now); !errors.Is(err, ErrDiscountPercent) {
				t.Fatalf("ApplyDiscount(%d): got %v, want ErrDiscountPercent", p, err)
			}
		}
	})

	t.Run("cancelled tour", func(t *testing.T) {
		tr := testTour(t, 10, 20, 4, 20, now)
		if err := tr.Cancel("weather", now); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if err := tr.ApplyDiscount(10, now); !errors.Is(err, ErrTourCancelled) {
			t.Fatalf("got %v, want ErrTourCancelled", err)
		}
	})

	t.Run("departed tour", func(t *testing.T) {
		tr := testTour(t, 10, 20, 4, 0, now)
		if err := tr.ApplyDiscount(10, now); !errors.Is(err, ErrTourDeparted) {
			t.Fatalf("got %v, want ErrTourDeparted", err)
		}
	})
}
