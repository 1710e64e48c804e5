package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "tourbook/internal/domain/booking"
	domaintour "tourbook/internal/domain/tour"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		bookings = append(bookings, doc.toAggregate())
	}
	return bookings, cursor.Err()
}

type bookingDocument struct {
	ID                     string        `bson:"_id"`
	TourID                 string        `bson:"tour_id"`
	CustomerID             string        `bson:"customer_id"`
	Guests                 int           `bson:"guests"`
	TotalAmount            moneyDocument `bson:"total_amount"`
	BookingDate            int64         `bson:"booking_date"`
	TourDate               int64         `bson:"tour_date"`
	Status                 string        `bson:"status"`
	PaymentRef             string        `bson:"payment_ref"`
	CancellationFee        moneyDocument `bson:"cancellation_fee"`
	CancellationFeePercent int           `bson:"cancellation_fee_percent"`
	FeeComputed            bool          `bson:"fee_computed"`
	RefundAmount           moneyDocument `bson:"refund_amount"`
	CreatedAt              int64         `bson:"created_at"`
	UpdatedAt              int64         `bson:"updated_at"`
	Version                int64         `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:                     string(b.ID),
		TourID:                 string(b.TourID),
		CustomerID:             b.CustomerID,
		Guests:                 b.Guests,
		TotalAmount:            newMoneyDocument(b.TotalAmount),
		BookingDate:            b.BookingDate.UnixMilli(),
		TourDate:               b.TourDate.UnixMilli(),
		Status:                 string(b.Status),
		PaymentRef:             b.PaymentRef,
		CancellationFee:        newMoneyDocument(b.CancellationFee),
		CancellationFeePercent: b.CancellationFeePercent,
		FeeComputed:            b.FeeComputed,
		RefundAmount:           newMoneyDocument(b.RefundAmount),
		CreatedAt:              b.CreatedAt.UnixMilli(),
		UpdatedAt:              b.UpdatedAt.UnixMilli(),
		Version:                b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:                     domainbooking.BookingID(d.ID),
		TourID:                 domaintour.TourID(d.TourID),
		CustomerID:             d.CustomerID,
		Guests:                 d.Guests,
		TotalAmount:            d.TotalAmount.toMoney(),
		BookingDate:            timestampToTime(d.BookingDate),
		TourDate:               timestampToTime(d.TourDate),
		Status:                 domainbooking.Status(d.Status),
		PaymentRef:             d.PaymentRef,
		CancellationFee:        d.CancellationFee.toMoney(),
		CancellationFeePercent: d.CancellationFeePercent,
		FeeComputed:            d.FeeComputed,
		RefundAmount:           d.RefundAmount.toMoney(),
		CreatedAt:              timestampToTime(d.CreatedAt),
		UpdatedAt:              timestampToTime(d.UpdatedAt),
		Version:                d.Version,
	}
}
