package money

import (
	"errors"
	"testing"
)

func TestPercentRoundsHalfUp(t *testing.T) {
	cases := []struct {
		name    string
		amount  int64
		percent int
		want    int64
	}{
		{"exact", 2_000_000, 75, 1_500_000},
		{"rounds up at half", 15, 10, 2},
		{"rounds down below half", 14, 10, 1},
		{"zero percent", 1_000_000, 0, 0},
		{"full percent", 1_000_000, 100, 1_000_000},
		{"clamped above hundred", 1_000_000, 140, 1_000_000},
		{"negative clamped to zero", 1_000_000, -5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Dong(tc.amount).Percent(tc.percent)
			if got.Amount != tc.want {
				t.Fatalf("Percent(%d) of %d = %d, want %d", tc.percent, tc.amount, got.Amount, tc.want)
			}
			if got.Currency != VND {
				t.Fatalf("currency lost: %q", got.Currency)
			}
		})
	}
}

func TestArithmeticRequiresSameCurrency(t *testing.T) {
	vnd := Dong(100)
	usd := Must(100, "USD")

	if _, err := vnd.Add(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("Add across currencies: got %v, want ErrCurrencyMismatch", err)
	}
	if _, err := vnd.Sub(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("Sub across currencies: got %v, want ErrCurrencyMismatch", err)
	}

	sum, err := vnd.Add(Dong(50))
	if err != nil {
		t.Fatalf("Add same currency: %v", err)
	}
	if sum.Amount != 150 {
		t.Fatalf("Add = %d, want 150", sum.Amount)
	}
}

func TestNewValidatesCurrencyCode(t *testing.T) {
	if _, err := New(10, "DONG"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("four letter code accepted: %v", err)
	}
	m, err := New(10, "vnd")
	if err != nil {
		t.Fatalf("lowercase code rejected: %v", err)
	}
	if m.Currency != "VND" {
		t.Fatalf("currency not normalized: %q", m.Currency)
	}
}

func TestMultiply(t *testing.T) {
	got := Dong(500_000).Multiply(4)
	if got.Amount != 2_000_000 {
		t.Fatalf("Multiply = %d, want 2000000", got.Amount)
	}
}
