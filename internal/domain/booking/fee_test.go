package booking

import (
	"errors"
	"testing"
	"time"

	"tourbook/internal/domain/shared/money"
)

func TestFeePercentForTiers(t *testing.T) {
	cases := []struct {
		daysUntil int
		want      int
	}{
		{30, 15},
		{11, 15},
		{10, 40},
		{6, 40},
		{5, 75},
		{3, 75},
		{2, 100},
		{0, 100},
		{-4, 100},
	}
	for _, tc := range cases {
		if got := FeePercentFor(tc.daysUntil); got != tc.want {
			t.Errorf("FeePercentFor(%d) = %d, want %d", tc.daysUntil, got, tc.want)
		}
	}
}

func TestComputeFeeFourDaysOut(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tourDate := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)

	quote := ComputeFee(tourDate, money.Dong(2_000_000), now)
	if quote.Percent != 75 {
		t.Fatalf("Percent = %d, want 75", quote.Percent)
	}
	if quote.Amount.Amount != 1_500_000 {
		t.Fatalf("fee = %d, want 1500000", quote.Amount.Amount)
	}
}

func TestComputeRefund(t *testing.T) {
	t.Run("requires cancelled status", func(t *testing.T) {
		b := &Booking{Status: StatusPaid, TotalAmount: money.Dong(2_000_000)}
		if _, err := ComputeRefund(b); !errors.Is(err, ErrIllegalState) {
			t.Fatalf("got %v, want ErrIllegalState", err)
		}
	})

	t.Run("subtracts the frozen fee", func(t *testing.T) {
		b := &Booking{
			Status:          StatusCancelled,
			TotalAmount:     money.Dong(2_000_000),
			CancellationFee: money.Dong(1_500_000),
			FeeComputed:     true,
		}
		refund, err := ComputeRefund(b)
		if err != nil {
			t.Fatalf("ComputeRefund: %v", err)
		}
		if refund.Amount != 500_000 {
			t.Fatalf("refund = %d, want 500000", refund.Amount)
		}
	})

	t.Run("full refund when the fee engine never ran", func(t *testing.T) {
		b := &Booking{Status: StatusCancelled, TotalAmount: money.Dong(2_000_000)}
		refund, err := ComputeRefund(b)
		if err != nil {
			t.Fatalf("ComputeRefund: %v", err)
		}
		if refund.Amount != 2_000_000 {
			t.Fatalf("refund = %d, want 2000000", refund.Amount)
		}
	})

	t.Run("floors at zero", func(t *testing.T) {
		b := &Booking{
			Status:          StatusCancelled,
			TotalAmount:     money.Dong(1_000_000),
			CancellationFee: money.Dong(1_200_000),
			FeeComputed:     true,
		}
		refund, err := ComputeRefund(b)
		if err != nil {
			t.Fatalf("ComputeRefund: %v", err)
		}
		if refund.Amount != 0 {
			t.Fatalf("refund = %d, want 0", refund.Amount)
		}
	})
}

func TestPreviewCancellation(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tourDate := now.AddDate(0, 0, 4)

	t.Run("paid booking quotes the live tier", func(t *testing.T) {
		b := &Booking{Status: StatusPaid, TourDate: tourDate, TotalAmount: money.Dong(2_000_000)}
		quote, err := PreviewCancellation(b, now)
		if err != nil {
			t.Fatalf("PreviewCancellation: %v", err)
		}
		if quote.Percent != 75 || quote.Amount.Amount != 1_500_000 {
			t.Fatalf("quote = %d%% / %d", quote.Percent, quote.Amount.Amount)
		}
		if b.FeeComputed {
			t.Fatal("preview must not freeze the fee")
		}
	})

	t.Run("pending booking quotes zero", func(t *testing.T) {
		b := &Booking{Status: StatusPending, TourDate: tourDate, TotalAmount: money.Dong(2_000_000)}
		quote, err := PreviewCancellation(b, now)
		if err != nil {
			t.Fatalf("PreviewCancellation: %v", err)
		}
		if quote.Percent != 0 || quote.Amount.Amount != 0 {
			t.Fatalf("quote = %d%% / %d, want zero", quote.Percent, quote.Amount.Amount)
		}
	})

	t.Run("cancelled booking has nothing to quote", func(t *testing.T) {
		b := &Booking{Status: StatusCancelled, TotalAmount: money.Dong(2_000_000)}
		if _, err := PreviewCancellation(b, now); !errors.Is(err, ErrIllegalState) {
			t.Fatalf("got %v, want ErrIllegalState", err)
		}
	})
}
