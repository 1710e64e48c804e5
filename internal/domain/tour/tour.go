package tour

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourbook/internal/domain/shared/calendar"
	"tourbook/internal/domain/shared/events"
	"tourbook/internal/domain/shared/money"
)

var (
	ErrTitleRequired    = errors.New("tour: title is required")
	ErrCapacityRange    = errors.New("tour: min participants must not exceed max participants")
	ErrInvalidCapacity  = errors.New("tour: max participants must be at least 1")
	ErrInvalidPrice     = errors.New("tour: price must be positive")
	ErrTourCancelled    = errors.New("tour: tour is cancelled")
	ErrTourInactive     = errors.New("tour: tour is not accepting bookings")
	ErrTourDeparted     = errors.New("tour: tour has already departed")
	ErrTourFull         = errors.New("tour: not enough seats left")
	ErrInvalidLifecycle = errors.New("tour: invalid lifecycle transition")
	ErrTourNotFound     = errors.New("tour: not found")
	ErrSeatCount        = errors.New("tour: seat count must be positive")
	ErrPhotoURLRequired = errors.New("tour: photo url is required")
)

type TourID string

// LifecycleFlag is the explicit status supplied by operators. It overrides
// the capacity-derived classification; the zero value means "no override".
type LifecycleFlag string

const (
	FlagNone      LifecycleFlag = ""
	FlagActive    LifecycleFlag = "ACTIVE"
	FlagInactive  LifecycleFlag = "INACTIVE"
	FlagCancelled LifecycleFlag = "CANCELLED"
)

// Tour is a bookable guided experience with a capacity range and a departure
// date. Its operational status is never stored; it is derived on every read
// from the participant counts, the lifecycle flag and the time to departure.
type Tour struct {
	ID                  TourID
	OperatorID          string
	Title               string
	Description         string
	Region              string
	DeparturePoint      string
	Photos              []string
	MinParticipants     int
	MaxParticipants     int
	CurrentParticipants int
	StartDate           time.Time
	Flag                LifecycleFlag
	Price               money.Money
	// OriginalPrice is the first-ever price, captured when the first discount
	// is applied and never overwritten afterwards. Zero until then.
	OriginalPrice   money.Money
	DiscountPercent int
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id TourID) (*Tour, error)
	Save(ctx context.Context, t *Tour) error
	Search(ctx context.Context, params SearchParams) ([]*Tour, error)
}

// SearchParams filter the catalog; empty fields match everything.
type SearchParams struct {
	Region        string
	Operator      string
	DepartureFrom time.Time
	DepartureTo   time.Time
	Limit         int
}

type CreateParams struct {
	ID              TourID
	OperatorID      string
	Title           string
	Description     string
	Region          string
	DeparturePoint  string
	MinParticipants int
	MaxParticipants int
	StartDate       time.Time
	Price           money.Money
	Now             time.Time
}

// NewTour validates capacity invariants and applies the ingestion default for
// a missing minimum: half of the maximum, floored, but never below one seat.
func NewTour(params CreateParams) (*Tour, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("tour: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.MaxParticipants < 1 {
		return nil, ErrInvalidCapacity
	}
	minSeats := params.MinParticipants
	if minSeats == 0 {
		minSeats = params.MaxParticipants / 2
		if minSeats < 1 {
			minSeats = 1
		}
	}
	if minSeats < 1 || minSeats > params.MaxParticipants {
		return nil, ErrCapacityRange
	}
	if params.Price.Amount <= 0 {
		return nil, ErrInvalidPrice
	}
	now := params.Now.UTC()
	t := &Tour{
		ID:              params.ID,
		OperatorID:      params.OperatorID,
		Title:           strings.TrimSpace(params.Title),
		Description:     params.Description,
		Region:          params.Region,
		DeparturePoint:  params.DeparturePoint,
		MinParticipants: minSeats,
		MaxParticipants: params.MaxParticipants,
		StartDate:       params.StartDate.UTC(),
		Price:           params.Price,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	t.Record(TourCreated{TourID: t.ID, Title: t.Title, StartDate: t.StartDate, At: now})
	return t, nil
}

// ReserveSeats adds confirmed participants. It refuses to go above the
// maximum; capacity races are left to the optimistic version check on save.
func (t *Tour) ReserveSeats(count int, now time.Time) error {
	if count <= 0 {
		return ErrSeatCount
	}
	switch t.Flag {
	case FlagCancelled:
		return ErrTourCancelled
	case FlagInactive:
		return ErrTourInactive
	}
	if t.CurrentParticipants+count > t.MaxParticipants {
		return ErrTourFull
	}
	t.CurrentParticipants += count
	t.UpdatedAt = now.UTC()
	t.Record(SeatsReserved{TourID: t.ID, Count: count, Occupied: t.CurrentParticipants, At: t.UpdatedAt})
	return nil
}

// ReleaseSeats returns seats after a paid booking is cancelled.
func (t *Tour) ReleaseSeats(count int, now time.Time) error {
	if count <= 0 {
		return ErrSeatCount
	}
	t.CurrentParticipants -= count
	if t.CurrentParticipants < 0 {
		t.CurrentParticipants = 0
	}
	t.UpdatedAt = now.UTC()
	t.Record(SeatsReleased{TourID: t.ID, Count: count, Occupied: t.CurrentParticipants, At: t.UpdatedAt})
	return nil
}

// Cancel marks the tour cancelled. Terminal: no lifecycle change may follow.
func (t *Tour) Cancel(reason string, now time.Time) error {
	if t.Flag == FlagCancelled {
		return ErrInvalidLifecycle
	}
	t.Flag = FlagCancelled
	t.UpdatedAt = now.UTC()
	t.Record(TourCancelledEvent{TourID: t.ID, Reason: reason, At: t.UpdatedAt})
	return nil
}

// Deactivate hides the tour from booking without cancelling it.
func (t *Tour) Deactivate(now time.Time) error {
	if t.Flag == FlagCancelled {
		return ErrInvalidLifecycle
	}
	t.Flag = FlagInactive
	t.UpdatedAt = now.UTC()
	t.Record(TourDeactivated{TourID: t.ID, At: t.UpdatedAt})
	return nil
}

// Activate forces the tour live regardless of headcount.
func (t *Tour) Activate(now time.Time) error {
	if t.Flag == FlagCancelled {
		return ErrInvalidLifecycle
	}
	t.Flag = FlagActive
	t.UpdatedAt = now.UTC()
	t.Record(TourActivated{TourID: t.ID, At: t.UpdatedAt})
	return nil
}

// AttachPhoto appends an uploaded media URL.
func (t *Tour) AttachPhoto(url string, now time.Time) error {
	if strings.TrimSpace(url) == "" {
		return ErrPhotoURLRequired
	}
	t.Photos = append(t.Photos, url)
	t.UpdatedAt = now.UTC()
	t.Record(TourPhotoAttached{TourID: t.ID, URL: url, At: t.UpdatedAt})
	return nil
}

// EnsureBookable rejects booking attempts against tours that cannot accept
// them: cancelled, deactivated, departed or already full.
func (t *Tour) EnsureBookable(guests int, now time.Time) error {
	switch t.Flag {
	case FlagCancelled:
		return ErrTourCancelled
	case FlagInactive:
		return ErrTourInactive
	}
	if calendar.DaysBetween(now, t.StartDate) <= 0 {
		return ErrTourDeparted
	}
	if t.CurrentParticipants+guests > t.MaxParticipants {
		return ErrTourFull
	}
	return nil
}
