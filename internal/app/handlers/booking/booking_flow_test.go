package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourbook/internal/app/outbox"
	domainbooking "tourbook/internal/domain/booking"
	"tourbook/internal/domain/shared/money"
	domaintour "tourbook/internal/domain/tour"
	"tourbook/internal/infra/storage/memory"
)

type flowFixture struct {
	tourRepo    *memory.TourRepository
	bookingRepo *memory.BookingRepository
	outbox      *memory.Outbox
	factory     memory.Factory
	encoder     outbox.JSONEventEncoder
}

func newFlowFixture(t *testing.T, daysUntilTour int) (*flowFixture, *domaintour.Tour) {
	t.Helper()
	fx := &flowFixture{
		tourRepo:    memory.NewTourRepository(),
		bookingRepo: memory.NewBookingRepository(),
		outbox:      memory.NewOutbox(),
	}
	fx.factory = memory.Factory{TourRepo: fx.tourRepo, BookingRepo: fx.bookingRepo}

	now := time.Now().UTC()
	tr, err := domaintour.NewTour(domaintour.CreateParams{
		ID:              "t-1",
		OperatorID:      "op-1",
		Title:           "Mekong delta day trip",
		MinParticipants: 2,
		MaxParticipants: 10,
		StartDate:       now.AddDate(0, 0, daysUntilTour),
		Price:           money.Dong(1_500_000),
		Now:             now,
	})
	if err != nil {
		t.Fatalf("NewTour: %v", err)
	}
	tr.ClearEvents()
	if err := fx.tourRepo.Save(context.Background(), tr); err != nil {
		t.Fatalf("seed tour: %v", err)
	}
	return fx, tr
}

func (fx *flowFixture) eventNames() []string {
	records := fx.outbox.Pending()
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	return names
}

func TestBookingLifecycleFlow(t *testing.T) {
	fx, tr := newFlowFixture(t, 30)
	ctx := context.Background()

	request := &RequestBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}
	confirm := &ConfirmPaymentHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}
	cancel := &CancelBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}
	refund := &RefundBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}

	requested, err := request.Handle(ctx, RequestBookingCommand{
		CommandID:  "b-100",
		TourID:     string(tr.ID),
		CustomerID: "c-1",
		Guests:     2,
	})
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}
	if requested.Status != string(domainbooking.StatusPending) {
		t.Fatalf("status after request = %s, want PENDING", requested.Status)
	}
	if requested.Total != 3_000_000 {
		t.Fatalf("total = %d, want 3000000 (price x guests)", requested.Total)
	}

	// A pending booking holds no seats until payment lands.
	if got, _ := fx.tourRepo.ByID(ctx, tr.ID); got.CurrentParticipants != 0 {
		t.Fatalf("participants before payment = %d, want 0", got.CurrentParticipants)
	}

	confirmed, err := confirm.Handle(ctx, ConfirmPaymentCommand{BookingID: requested.BookingID, PaymentRef: "pay-7"})
	if err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if confirmed.Status != string(domainbooking.StatusPaid) {
		t.Fatalf("status after payment = %s, want PAID", confirmed.Status)
	}
	if got, _ := fx.tourRepo.ByID(ctx, tr.ID); got.CurrentParticipants != 2 {
		t.Fatalf("participants after payment = %d, want 2", got.CurrentParticipants)
	}

	cancelled, err := cancel.Handle(ctx, CancelBookingCommand{BookingID: requested.BookingID, Reason: "itinerary change"})
	if err != nil {
		t.Fatalf("cancel booking: %v", err)
	}
	if cancelled.Status != string(domainbooking.StatusCancelled) {
		t.Fatalf("status after cancel = %s, want CANCELLED", cancelled.Status)
	}
	// 30 days out lands in the gentlest fee tier.
	if cancelled.FeePercent != 15 || cancelled.FeeAmount != 450_000 {
		t.Fatalf("fee = %d%% / %d, want 15%% / 450000", cancelled.FeePercent, cancelled.FeeAmount)
	}
	if got, _ := fx.tourRepo.ByID(ctx, tr.ID); got.CurrentParticipants != 0 {
		t.Fatalf("participants after cancel = %d, want 0", got.CurrentParticipants)
	}

	refunded, err := refund.Handle(ctx, RefundBookingCommand{BookingID: requested.BookingID})
	if err != nil {
		t.Fatalf("refund booking: %v", err)
	}
	if refunded.Status != string(domainbooking.StatusRefunded) {
		t.Fatalf("status after refund = %s, want REFUNDED", refunded.Status)
	}
	if refunded.RefundAmount != 2_550_000 {
		t.Fatalf("refund = %d, want 2550000", refunded.RefundAmount)
	}

	want := []string{
		"booking.requested",
		"booking.payment_confirmed",
		"tour.seats_reserved",
		"tour.seats_released",
		"booking.cancelled",
		"booking.refunded",
	}
	got := fx.eventNames()
	if len(got) != len(want) {
		t.Fatalf("outbox events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("outbox event[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRequestBookingRejectsUnbookableTours(t *testing.T) {
	ctx := context.Background()

	t.Run("full tour", func(t *testing.T) {
		fx, tr := newFlowFixture(t, 30)
		tr.CurrentParticipants = 9
		if err := fx.tourRepo.Save(ctx, tr); err != nil {
			t.Fatalf("seed: %v", err)
		}
		request := &RequestBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}
		_, err := request.Handle(ctx, RequestBookingCommand{CommandID: "b-1", TourID: string(tr.ID), CustomerID: "c-1", Guests: 2})
		if !errors.Is(err, domaintour.ErrTourFull) {
			t.Fatalf("got %v, want ErrTourFull", err)
		}
	})

	t.Run("departed tour", func(t *testing.T) {
		fx, tr := newFlowFixture(t, 0)
		request := &RequestBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}
		_, err := request.Handle(ctx, RequestBookingCommand{CommandID: "b-1", TourID: string(tr.ID), CustomerID: "c-1", Guests: 2})
		if !errors.Is(err, domaintour.ErrTourDeparted) {
			t.Fatalf("got %v, want ErrTourDeparted", err)
		}
	})

	t.Run("unknown tour", func(t *testing.T) {
		fx, _ := newFlowFixture(t, 30)
		request := &RequestBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}
		_, err := request.Handle(ctx, RequestBookingCommand{CommandID: "b-1", TourID: "missing", CustomerID: "c-1", Guests: 2})
		if !errors.Is(err, domaintour.ErrTourNotFound) {
			t.Fatalf("got %v, want ErrTourNotFound", err)
		}
	})
}

func TestConfirmPaymentDuplicateLeavesSeatsAlone(t *testing.T) {
	fx, tr := newFlowFixture(t, 30)
	ctx := context.Background()

	request := &RequestBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}
	confirm := &ConfirmPaymentHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}

	requested, err := request.Handle(ctx, RequestBookingCommand{CommandID: "b-1", TourID: string(tr.ID), CustomerID: "c-1", Guests: 2})
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}
	if _, err := confirm.Handle(ctx, ConfirmPaymentCommand{BookingID: requested.BookingID, PaymentRef: "pay-1"}); err != nil {
		t.Fatalf("first confirmation: %v", err)
	}

	_, err = confirm.Handle(ctx, ConfirmPaymentCommand{BookingID: requested.BookingID, PaymentRef: "pay-1-retry"})
	if !errors.Is(err, domainbooking.ErrInvalidTransition) {
		t.Fatalf("duplicate confirmation: got %v, want ErrInvalidTransition", err)
	}
	if got, _ := fx.tourRepo.ByID(ctx, tr.ID); got.CurrentParticipants != 2 {
		t.Fatalf("participants after duplicate = %d, want 2", got.CurrentParticipants)
	}
}

func TestCancelPendingBookingKeepsSeatsUntouched(t *testing.T) {
	fx, tr := newFlowFixture(t, 10)
	ctx := context.Background()

	request := &RequestBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}
	cancel := &CancelBookingHandler{UoWFactory: fx.factory, Outbox: fx.outbox, Encoder: fx.encoder}

	requested, err := request.Handle(ctx, RequestBookingCommand{CommandID: "b-1", TourID: string(tr.ID), CustomerID: "c-1", Guests: 3})
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}
	cancelled, err := cancel.Handle(ctx, CancelBookingCommand{BookingID: requested.BookingID, Reason: "no payment"})
	if err != nil {
		t.Fatalf("cancel booking: %v", err)
	}
	if cancelled.FeePercent != 0 || cancelled.FeeAmount != 0 {
		t.Fatalf("fee on unpaid cancel = %d%% / %d, want zero", cancelled.FeePercent, cancelled.FeeAmount)
	}
	if got, _ := fx.tourRepo.ByID(ctx, tr.ID); got.CurrentParticipants != 0 {
		t.Fatalf("participants = %d, want 0", got.CurrentParticipants)
	}
}
