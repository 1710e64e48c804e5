package tour

import (
	"errors"
	"testing"
	"time"

	"tourbook/internal/domain/shared/money"
)

func TestNewTourDefaultsMinimum(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		minSeats int
		maxSeats int
		wantMin  int
	}{
		{"half of max floored", 0, 21, 10},
		{"max one clamps to one", 0, 1, 1},
		{"explicit minimum kept", 5, 20, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := NewTour(CreateParams{
				ID:              "t-1",
				Title:           "Sapa trek",
				MinParticipants: tc.minSeats,
				MaxParticipants: tc.maxSeats,
				StartDate:       now.AddDate(0, 1, 0),
				Price:           money.Dong(900_000),
				Now:             now,
			})
			if err != nil {
				t.Fatalf("NewTour: %v", err)
			}
			if tr.MinParticipants != tc.wantMin {
				t.Fatalf("MinParticipants = %d, want %d", tr.MinParticipants, tc.wantMin)
			}
		})
	}
}

func TestNewTourValidation(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	base := CreateParams{
		ID:              "t-1",
		Title:           "Sapa trek",
		MaxParticipants: 20,
		StartDate:       now.AddDate(0, 1, 0),
		Price:           money.Dong(900_000),
		Now:             now,
	}

	t.Run("missing title", func(t *testing.T) {
		p := base
		p.Title = "  "
		if _, err := NewTour(p); !errors.Is(err, ErrTitleRequired) {
			t.Fatalf("got %v, want ErrTitleRequired", err)
		}
	})
	t.Run("zero capacity", func(t *testing.T) {
		p := base
		p.MaxParticipants = 0
		if _, err := NewTour(p); !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("got %v, want ErrInvalidCapacity", err)
		}
	})
	t.Run("min above max", func(t *testing.T) {
		p := base
		p.MinParticipants = 30
		if _, err := NewTour(p); !errors.Is(err, ErrCapacityRange) {
			t.Fatalf("got %v, want ErrCapacityRange", err)
		}
	})
	t.Run("non-positive price", func(t *testing.T) {
		p := base
		p.Price = money.Dong(0)
		if _, err := NewTour(p); !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("got %v, want ErrInvalidPrice", err)
		}
	})
}

func TestReserveAndReleaseSeats(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tr := testTour(t, 10, 20, 18, 15, now)

	if err := tr.ReserveSeats(2, now); err != nil {
		t.Fatalf("ReserveSeats: %v", err)
	}
	if tr.CurrentParticipants != 20 {
		t.Fatalf("CurrentParticipants = %d, want 20", tr.CurrentParticipants)
	}
	if err := tr.ReserveSeats(1, now); !errors.Is(err, ErrTourFull) {
		t.Fatalf("reserve above max: got %v, want ErrTourFull", err)
	}
	if err := tr.ReserveSeats(0, now); !errors.Is(err, ErrSeatCount) {
		t.Fatalf("reserve zero: got %v, want ErrSeatCount", err)
	}

	if err := tr.ReleaseSeats(25, now); err != nil {
		t.Fatalf("ReleaseSeats: %v", err)
	}
	if tr.CurrentParticipants != 0 {
		t.Fatalf("CurrentParticipants after over-release = %d, want 0", tr.CurrentParticipants)
	}
}

func TestLifecycleFlags(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("cancel is terminal", func(t *testing.T) {
		tr := testTour(t, 10, 20, 12, 15, now)
		if err := tr.Cancel("operator pulled out", now); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if err := tr.Cancel("again", now); !errors.Is(err, ErrInvalidLifecycle) {
			t.Fatalf("second cancel: got %v, want ErrInvalidLifecycle", err)
		}
		if err := tr.Activate(now); !errors.Is(err, ErrInvalidLifecycle) {
			t.Fatalf("activate cancelled: got %v, want ErrInvalidLifecycle", err)
		}
		if err := tr.Deactivate(now); !errors.Is(err, ErrInvalidLifecycle) {
			t.Fatalf("deactivate cancelled: got %v, want ErrInvalidLifecycle", err)
		}
	})

	t.Run("deactivate then activate", func(t *testing.T) {
		tr := testTour(t, 10, 20, 12, 15, now)
		if err := tr.Deactivate(now); err != nil {
			t.Fatalf("Deactivate: %v", err)
		}
		if err := tr.ReserveSeats(1, now); !errors.Is(err, ErrTourInactive) {
			t.Fatalf("reserve while inactive: got %v, want ErrTourInactive", err)
		}
		if err := tr.Activate(now); err != nil {
			t.Fatalf("Activate: %v", err)
		}
		if err := tr.ReserveSeats(1, now); err != nil {
			t.Fatalf("reserve after activate: %v", err)
		}
	})
}

func TestEnsureBookable(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("rejects departed tour", func(t *testing.T) {
		tr := testTour(t, 10, 20, 4, 0, now)
		if err := tr.EnsureBookable(2, now); !errors.Is(err, ErrTourDeparted) {
			t.Fatalf("got %v, want ErrTourDeparted", err)
		}
	})
	t.Run("rejects when guests exceed remaining seats", func(t *testing.T) {
		tr := testTour(t, 10, 20, 19, 15, now)
		if err := tr.EnsureBookable(2, now); !errors.Is(err, ErrTourFull) {
			t.Fatalf("got %v, want ErrTourFull", err)
		}
	})
	t.Run("accepts viable booking", func(t *testing.T) {
		tr := testTour(t, 10, 20, 4, 15, now)
		if err := tr.EnsureBookable(2, now); err != nil {
			t.Fatalf("EnsureBookable: %v", err)
		}
	})
}

func TestAttachPhoto(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tr := testTour(t, 10, 20, 4, 15, now)

	if err := tr.AttachPhoto(" ", now); !errors.Is(err, ErrPhotoURLRequired) {
		t.Fatalf("blank url: got %v, want ErrPhotoURLRequired", err)
	}
	if err := tr.AttachPhoto("https://cdn.example.com/t-1/a.jpg", now); err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}
	if len(tr.Photos) != 1 {
		t.Fatalf("Photos = %d entries, want 1", len(tr.Photos))
	}
}

func TestEventsRecorded(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tr := testTour(t, 10, 20, 4, 15, now)
	tr.ClearEvents()

	if err := tr.ReserveSeats(2, now); err != nil {
		t.Fatalf("ReserveSeats: %v", err)
	}
	if err := tr.ApplyDiscount(10, now); err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}

	pending := tr.PendingEvents()
	if len(pending) != 2 {
		t.Fatalf("pending events = %d, want 2", len(pending))
	}
	if pending[0].EventName() != "tour.seats_reserved" {
		t.Fatalf("first event = %s", pending[0].EventName())
	}
	if pending[1].EventName() != "tour.discounted" {
		t.Fatalf("second event = %s", pending[1].EventName())
	}
}
