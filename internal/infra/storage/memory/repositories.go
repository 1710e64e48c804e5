package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	domainbooking "tourbook/internal/domain/booking"
	domaintour "tourbook/internal/domain/tour"
)

// TourRepository is an in-memory implementation for dev and tests.
type TourRepository struct {
	mu    sync.RWMutex
	items map[domaintour.TourID]*domaintour.Tour
}

func NewTourRepository() *TourRepository {
	return &TourRepository{items: make(map[domaintour.TourID]*domaintour.Tour)}
}

// ByID returns a tour or the domain not-found error.
func (r *TourRepository) ByID(ctx context.Context, id domaintour.TourID) (*domaintour.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok {
		return nil, domaintour.ErrTourNotFound
	}
	return t, nil
}

// Save stores/updates a tour entry.
func (r *TourRepository) Save(ctx context.Context, t *domaintour.Tour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.Version++
	r.items[t.ID] = t
	return nil
}

// Search returns tours matching the provided filters, soonest departure first.
func (r *TourRepository) Search(ctx context.Context, params domaintour.SearchParams) ([]*domaintour.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*domaintour.Tour, 0, len(r.items))
	for _, t := range r.items {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if params.Region != "" && !strings.EqualFold(t.Region, params.Region) {
			continue
		}
		if params.Operator != "" && t.OperatorID != params.Operator {
			continue
		}
		if !params.DepartureFrom.IsZero() && t.StartDate.Before(params.DepartureFrom) {
			continue
		}
		if !params.DepartureTo.IsZero() && t.StartDate.After(params.DepartureTo) {
			continue
		}
		matches = append(matches, t)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].StartDate.Equal(matches[j].StartDate) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].StartDate.Before(matches[j].StartDate)
	})

	if params.Limit > 0 && len(matches) > params.Limit {
		matches = matches[:params.Limit]
	}
	return matches, nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

// ByID fetches a booking.
func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return b, nil
}

// Save stores the current booking state.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(customerID)
	if id == "" {
		return nil, errors.New("memory: customer id required")
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.CustomerID == id {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

var (
	_ domaintour.Repository    = (*TourRepository)(nil)
	_ domainbooking.Repository = (*BookingRepository)(nil)
)
