package ginserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	domainbooking "tourbook/internal/domain/booking"
	domaintour "tourbook/internal/domain/tour"
	mongodb "tourbook/internal/infra/db/mongo"
)

func TestStatusForMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"tour not found", domaintour.ErrTourNotFound, http.StatusNotFound},
		{"booking not found", domainbooking.ErrBookingNotFound, http.StatusNotFound},
		{"invalid transition", domainbooking.ErrInvalidTransition, http.StatusConflict},
		{"tour full", domaintour.ErrTourFull, http.StatusConflict},
		{"version conflict", mongodb.ErrConcurrentUpdate, http.StatusConflict},
		{"wrapped version conflict", fmt.Errorf("save tour: %w", mongodb.ErrConcurrentUpdate), http.StatusConflict},
		{"bad guests", domainbooking.ErrInvalidGuests, http.StatusBadRequest},
		{"bad discount percent", domaintour.ErrDiscountPercent, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
