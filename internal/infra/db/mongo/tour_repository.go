package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourbook/internal/domain/shared/money"
	domaintour "tourbook/internal/domain/tour"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type TourRepository struct {
	col *mongo.Collection
}

func NewTourRepository(db *mongo.Database) *TourRepository {
	return &TourRepository{col: db.Collection("agg_tour")}
}

func (r *TourRepository) ByID(ctx context.Context, id domaintour.TourID) (*domaintour.Tour, error) {
	var doc tourDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaintour.ErrTourNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *TourRepository) Save(ctx context.Context, t *domaintour.Tour) error {
	doc := newTourDocument(t)
	filter := bson.M{"_id": doc.ID, "version": t.Version}
	doc.Version = t.Version + 1
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
	t.Version = doc.Version
	return nil
}

func (r *TourRepository) Search(ctx context.Context, params domaintour.SearchParams) ([]*domaintour.Tour, error) {
	filter := bson.M{}
	if params.Region != "" {
		filter["region"] = params.Region
	}
	if params.Operator != "" {
		filter["operator_id"] = params.Operator
	}
	dateFilter := bson.M{}
	if !params.DepartureFrom.IsZero() {
		dateFilter["$gte"] = params.DepartureFrom.UnixMilli()
	}
	if !params.DepartureTo.IsZero() {
		dateFilter["$lte"] = params.DepartureTo.UnixMilli()
	}
	if len(dateFilter) > 0 {
		filter["start_date"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	if params.Limit > 0 {
		opts = opts.SetLimit(int64(params.Limit))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tours []*domaintour.Tour
	for cursor.Next(ctx) {
		var doc tourDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tours = append(tours, doc.toAggregate())
	}
	return tours, cursor.Err()
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toMoney() money.Money {
	return money.Money{Amount: d.Amount, Currency: d.Currency}
}

type tourDocument struct {
	ID                  string        `bson:"_id"`
	OperatorID          string        `bson:"operator_id"`
	Title               string        `bson:"title"`
	Description         string        `bson:"description"`
	Region              string        `bson:"region"`
	DeparturePoint      string        `bson:"departure_point"`
	Photos              []string      `bson:"photos"`
	MinParticipants     int           `bson:"min_participants"`
	MaxParticipants     int           `bson:"max_participants"`
	CurrentParticipants int           `bson:"current_participants"`
	StartDate           int64         `bson:"start_date"`
	Flag                string        `bson:"flag"`
	Price               moneyDocument `bson:"price"`
	OriginalPrice       moneyDocument `bson:"original_price"`
	DiscountPercent     int           `bson:"discount_percent"`
	CreatedAt           int64         `bson:"created_at"`
	UpdatedAt           int64         `bson:"updated_at"`
	Version             int64         `bson:"version"`
}

func newTourDocument(t *domaintour.Tour) tourDocument {
	return tourDocument{
		ID:                  string(t.ID),
		OperatorID:          t.OperatorID,
		Title:               t.Title,
		Description:         t.Description,
		Region:              t.Region,
		DeparturePoint:      t.DeparturePoint,
		Photos:              t.Photos,
		MinParticipants:     t.MinParticipants,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		StartDate:           t.StartDate.UnixMilli(),
		Flag:                string(t.Flag),
		Price:               newMoneyDocument(t.Price),
		OriginalPrice:       newMoneyDocument(t.OriginalPrice),
		DiscountPercent:     t.DiscountPercent,
		CreatedAt:           t.CreatedAt.UnixMilli(),
		UpdatedAt:           t.UpdatedAt.UnixMilli(),
		Version:             t.Version,
	}
}

func (d tourDocument) toAggregate() *domaintour.Tour {
	return &domaintour.Tour{
		ID:                  domaintour.TourID(d.ID),
		OperatorID:          d.OperatorID,
		Title:               d.Title,
		Description:         d.Description,
		Region:              d.Region,
		DeparturePoint:      d.DeparturePoint,
		Photos:              d.Photos,
		MinParticipants:     d.MinParticipants,
		MaxParticipants:     d.MaxParticipants,
		CurrentParticipants: d.CurrentParticipants,
		StartDate:           timestampToTime(d.StartDate),
		Flag:                domaintour.LifecycleFlag(d.Flag),
		Price:               d.Price.toMoney(),
		OriginalPrice:       d.OriginalPrice.toMoney(),
		DiscountPercent:     d.DiscountPercent,
		CreatedAt:           timestampToTime(d.CreatedAt),
		UpdatedAt:           timestampToTime(d.UpdatedAt),
		Version:             d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
