package booking

import (
	"time"

	"tourbook/internal/domain/shared/money"
	"tourbook/internal/domain/tour"
)

type BookingRequested struct {
	BookingID  BookingID
	TourID     tour.TourID
	CustomerID string
	Guests     int
	Total      money.Money
	At         time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type PaymentConfirmed struct {
	BookingID  BookingID
	TourID     tour.TourID
	PaymentRef string
	Total      money.Money
	At         time.Time
}

func (e PaymentConfirmed) EventName() string     { return "booking.payment_confirmed" }
func (e PaymentConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e PaymentConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  BookingID
	TourID     tour.TourID
	Fee        money.Money
	FeePercent int
	Reason     string
	At         time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingRefunded struct {
	BookingID BookingID
	TourID    tour.TourID
	Refund    money.Money
	At        time.Time
}

func (e BookingRefunded) EventName() string     { return "booking.refunded" }
func (e BookingRefunded) AggregateID() string   { return string(e.BookingID) }
func (e BookingRefunded) OccurredAt() time.Time { return e.At }
