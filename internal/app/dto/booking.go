package dto

import (
	"time"

	domainbooking "tourbook/internal/domain/booking"
	"tourbook/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Currency: value.Currency,
	}
}

type BookingSummary struct {
	ID                     string    `json:"id"`
	TourID                 string    `json:"tour_id"`
	CustomerID             string    `json:"customer_id"`
	Guests                 int       `json:"guests"`
	Status                 string    `json:"status"`
	Total                  MoneyDTO  `json:"total"`
	BookingDate            time.Time `json:"booking_date"`
	TourDate               time.Time `json:"tour_date"`
	CancellationFee        *MoneyDTO `json:"cancellation_fee,omitempty"`
	CancellationFeePercent int       `json:"cancellation_fee_percent,omitempty"`
	RefundAmount           *MoneyDTO `json:"refund_amount,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

// CancellationPreview is what the staff confirmation dialog shows before a
// cancellation is committed.
type CancellationPreview struct {
	BookingID          string   `json:"booking_id"`
	Status             string   `json:"status"`
	DaysUntilDeparture int      `json:"days_until_departure"`
	FeePercent         int      `json:"fee_percent"`
	FeeAmount          MoneyDTO `json:"fee_amount"`
	RefundAmount       MoneyDTO `json:"refund_amount"`
}

// FeePolicyRow pairs one engine tier with the range the printed policy quotes
// for it. The two disagree on purpose; the engine value is what gets charged.
type FeePolicyRow struct {
	Condition      string `json:"condition"`
	AppliedPercent int    `json:"applied_percent"`
	DisplayedRange string `json:"displayed_range"`
}

type FeePolicy struct {
	Rows []FeePolicyRow `json:"rows"`
}

func MapBookingSummary(b *domainbooking.Booking) BookingSummary {
	out := BookingSummary{
		ID:          string(b.ID),
		TourID:      string(b.TourID),
		CustomerID:  b.CustomerID,
		Guests:      b.Guests,
		Status:      string(b.Status),
		Total:       MapMoney(b.TotalAmount),
		BookingDate: b.BookingDate,
		TourDate:    b.TourDate,
		CreatedAt:   b.CreatedAt,
	}
	switch b.Status {
	case domainbooking.StatusCancelled, domainbooking.StatusRefunded:
		fee := MapMoney(b.CancellationFee)
		out.CancellationFee = &fee
		out.CancellationFeePercent = b.CancellationFeePercent
	}
	if b.Status == domainbooking.StatusRefunded {
		refund := MapMoney(b.RefundAmount)
		out.RefundAmount = &refund
	}
	return out
}
