package tour

import (
	"errors"
	"testing"
	"time"

	"tourbook/internal/domain/shared/money"
)

func testTour(t *testing.T, minSeats, maxSeats, current int, daysUntil int, now time.Time) *Tour {
	t.Helper()
	tr, err := NewTour(CreateParams{
		ID:              "t-1",
		OperatorID:      "op-1",
		Title:           "Ha Giang loop",
		MinParticipants: minSeats,
		MaxParticipants: maxSeats,
		StartDate:       now.AddDate(0, 0, daysUntil),
		Price:           money.Dong(1_500_000),
		Now:             now,
	})
	if err != nil {
		t.Fatalf("NewTour: %v", err)
	}
	tr.CurrentParticipants = current
	return tr
}

func TestClassifyPrecedence(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		minSeats  int
		maxSeats  int
		current   int
		daysUntil int
		flag      LifecycleFlag
		want      TourStatus
	}{
		{"open with room and time", 10, 20, 12, 30, FlagNone, StatusOpen},
		{"near deadline when viable", 10, 20, 12, 7, FlagNone, StatusNearDeadline},
		{"near deadline on departure eve", 10, 20, 12, 1, FlagNone, StatusNearDeadline},
		{"not enough beats deadline pressure", 10, 20, 4, 12, FlagNone, StatusNotEnough},
		{"not enough even inside window", 10, 20, 4, 3, FlagNone, StatusNotEnough},
		{"full beats deadline", 10, 20, 20, 2, FlagNone, StatusFull},
		{"overbooked still full", 10, 20, 25, 30, FlagNone, StatusFull},
		{"cancelled flag wins over full", 10, 20, 20, 2, FlagCancelled, StatusCancelled},
		{"inactive flag wins over capacity", 10, 20, 4, 12, FlagInactive, StatusInactive},
		{"active flag overrides not enough", 10, 20, 4, 12, FlagActive, StatusActive},
		{"departed but viable reads near deadline", 10, 20, 12, -2, FlagNone, StatusNearDeadline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := testTour(t, tc.minSeats, tc.maxSeats, tc.current, tc.daysUntil, now)
			tr.Flag = tc.flag
			if got := tr.Classify(now); got != tc.want {
				t.Fatalf("Classify = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestProgressUnclamped(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tr := testTour(t, 8, 30, 12, 20, now)

	got, err := tr.Progress()
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if got != 150 {
		t.Fatalf("Progress = %d, want 150", got)
	}
	if clamped := tr.ProgressClamped(); clamped != 100 {
		t.Fatalf("ProgressClamped = %d, want 100", clamped)
	}
}

func TestProgressRounds(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tr := testTour(t, 3, 30, 1, 20, now)

	got, err := tr.Progress()
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if got != 33 {
		t.Fatalf("Progress = %d, want 33", got)
	}
}

func TestProgressDegenerateCapacity(t *testing.T) {
	tr := &Tour{MinParticipants: 0, CurrentParticipants: 5}
	if _, err := tr.Progress(); !errors.Is(err, ErrDegenerateCapacity) {
		t.Fatalf("Progress on zero minimum: got %v, want ErrDegenerateCapacity", err)
	}
	if got := tr.ProgressClamped(); got != 0 {
		t.Fatalf("ProgressClamped on degenerate tour = %d, want 0", got)
	}
}
