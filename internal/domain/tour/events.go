package tour

import (
	"time"

	"tourbook/internal/domain/shared/money"
)

type TourCreated struct {
	TourID    TourID
	Title     string
	StartDate time.Time
	At        time.Time
}

func (e TourCreated) EventName() string     { return "tour.created" }
func (e TourCreated) AggregateID() string   { return string(e.TourID) }
func (e TourCreated) OccurredAt() time.Time { return e.At }

type SeatsReserved struct {
	TourID   TourID
	Count    int
	Occupied int
	At       time.Time
}

func (e SeatsReserved) EventName() string     { return "tour.seats_reserved" }
func (e SeatsReserved) AggregateID() string   { return string(e.TourID) }
func (e SeatsReserved) OccurredAt() time.Time { return e.At }

type SeatsReleased struct {
	TourID   TourID
	Count    int
	Occupied int
	At       time.Time
}

func (e SeatsReleased) EventName() string     { return "tour.seats_released" }
func (e SeatsReleased) AggregateID() string   { return string(e.TourID) }
func (e SeatsReleased) OccurredAt() time.Time { return e.At }

type TourDiscounted struct {
	TourID   TourID
	Percent  int
	NewPrice money.Money
	At       time.Time
}

func (e TourDiscounted) EventName() string     { return "tour.discounted" }
func (e TourDiscounted) AggregateID() string   { return string(e.TourID) }
func (e TourDiscounted) OccurredAt() time.Time { return e.At }

type TourCancelledEvent struct {
	TourID TourID
	Reason string
	At     time.Time
}

func (e TourCancelledEvent) EventName() string     { return "tour.cancelled" }
func (e TourCancelledEvent) AggregateID() string   { return string(e.TourID) }
func (e TourCancelledEvent) OccurredAt() time.Time { return e.At }

type TourDeactivated struct {
	TourID TourID
	At     time.Time
}

func (e TourDeactivated) EventName() string     { return "tour.deactivated" }
func (e TourDeactivated) AggregateID() string   { return string(e.TourID) }
func (e TourDeactivated) OccurredAt() time.Time { return e.At }

type TourActivated struct {
	TourID TourID
	At     time.Time
}

func (e TourActivated) EventName() string     { return "tour.activated" }
func (e TourActivated) AggregateID() string   { return string(e.TourID) }
func (e TourActivated) OccurredAt() time.Time { return e.At }

type TourPhotoAttached struct {
	TourID TourID
	URL    string
	At     time.Time
}

func (e TourPhotoAttached) EventName() string     { return "tour.photo_attached" }
func (e TourPhotoAttached) AggregateID() string   { return string(e.TourID) }
func (e TourPhotoAttached) OccurredAt() time.Time { return e.At }
