package ginserver

import (
	"errors"
	"net/http"

	domainbooking "tourbook/internal/domain/booking"
	domaintour "tourbook/internal/domain/tour"
	mongodb "tourbook/internal/infra/db/mongo"
)

// statusFor maps domain errors onto HTTP statuses. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domaintour.ErrTourNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainbooking.ErrInvalidTransition),
		errors.Is(err, domainbooking.ErrIllegalState),
		errors.Is(err, domaintour.ErrInvalidLifecycle),
		errors.Is(err, domaintour.ErrTourCancelled),
		errors.Is(err, domaintour.ErrTourInactive),
		errors.Is(err, domaintour.ErrTourDeparted),
		errors.Is(err, domaintour.ErrTourFull),
		errors.Is(err, mongodb.ErrConcurrentUpdate):
		return http.StatusConflict
	case isValidationError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, domaintour.ErrTitleRequired),
		errors.Is(err, domaintour.ErrCapacityRange),
		errors.Is(err, domaintour.ErrInvalidCapacity),
		errors.Is(err, domaintour.ErrInvalidPrice),
		errors.Is(err, domaintour.ErrSeatCount),
		errors.Is(err, domaintour.ErrPhotoURLRequired),
		errors.Is(err, domaintour.ErrDiscountPercent),
		errors.Is(err, domaintour.ErrDegenerateCapacity),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrInvalidAmount):
		return true
	}
	return false
}
