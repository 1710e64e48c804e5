package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"tourbook/internal/app/commands"
	handlerbooking "tourbook/internal/app/handlers/booking"
)

// Deduper filters out events that were already processed by this consumer.
type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// PaymentListener consumes payment confirmation events published by the
// payment gateway and flips the matching booking to PAID.
type PaymentListener struct {
	Bus    commands.Bus
	Inbox  Deduper
	Logger *slog.Logger
}

type paymentEnvelope struct {
	ID   string             `json:"id"`
	Type string             `json:"type"`
	Data paymentConfirmData `json:"data"`
}

type paymentConfirmData struct {
	BookingID  string `json:"booking_id"`
	PaymentRef string `json:"payment_ref"`
}

func (l *PaymentListener) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var env paymentEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		// Poison messages are logged and acked, not retried forever.
		l.log().Warn("payment event unreadable", "topic", msg.Topic, "offset", msg.Offset, "err", err)
		return nil
	}
	if env.Data.BookingID == "" {
		l.log().Warn("payment event missing booking id", "event_id", env.ID)
		return nil
	}
	if l.Inbox != nil && env.ID != "" {
		seen, err := l.Inbox.Seen(ctx, env.ID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}

	cmd := handlerbooking.ConfirmPaymentCommand{
		BookingID:       env.Data.BookingID,
		PaymentRef:      env.Data.PaymentRef,
		IdempotencyKeyV: env.ID,
	}
	if _, err := l.Bus.Dispatch(ctx, cmd); err != nil {
		l.log().Error("payment confirmation failed", "booking_id", env.Data.BookingID, "err", err)
		return err
	}
	l.log().Info("payment confirmed", "booking_id", env.Data.BookingID, "event_id", env.ID)
	return nil
}

func (l *PaymentListener) log() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

var _ MessageHandler = (*PaymentListener)(nil)
