package dto

import (
	"time"

	domaintour "tourbook/internal/domain/tour"
)

type DiscountAdviceDTO struct {
	Eligible         bool `json:"eligible"`
	SuggestedPercent int  `json:"suggested_percent,omitempty"`
	Urgent           bool `json:"urgent,omitempty"`
}

// TourOverview is the admin-console view of one tour: the stored snapshot plus
// every derived value the screens need, computed at read time.
type TourOverview struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Description         string            `json:"description,omitempty"`
	Region              string            `json:"region,omitempty"`
	DeparturePoint      string            `json:"departure_point,omitempty"`
	Photos              []string          `json:"photos,omitempty"`
	MinParticipants     int               `json:"min_participants"`
	MaxParticipants     int               `json:"max_participants"`
	CurrentParticipants int               `json:"current_participants"`
	StartDate           time.Time         `json:"start_date"`
	DaysUntilDeparture  int               `json:"days_until_departure"`
	Status              string            `json:"status"`
	Progress            int               `json:"progress"`
	ProgressClamped     int               `json:"progress_clamped"`
	Price               MoneyDTO          `json:"price"`
	OriginalPrice       *MoneyDTO         `json:"original_price,omitempty"`
	DiscountPercent     int               `json:"discount_percent,omitempty"`
	DiscountAdvice      DiscountAdviceDTO `json:"discount_advice"`
}

// TourCatalogRow is the marketing-site listing row.
type TourCatalogRow struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Region          string    `json:"region,omitempty"`
	StartDate       time.Time `json:"start_date"`
	Status          string    `json:"status"`
	ProgressClamped int       `json:"progress"`
	Price           MoneyDTO  `json:"price"`
	OriginalPrice   *MoneyDTO `json:"original_price,omitempty"`
	DiscountPercent int       `json:"discount_percent,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
}

type TourCatalog struct {
	Items []TourCatalogRow `json:"items"`
}

func MapTourOverview(t *domaintour.Tour, now time.Time, daysUntil int) TourOverview {
	status := t.Classify(now)
	progress, err := t.Progress()
	if err != nil {
		progress = 0
	}
	advice := DiscountAdviceDTO{}
	if status == domaintour.StatusNotEnough {
		a := t.AdviseDiscount(now)
		advice = DiscountAdviceDTO{Eligible: a.Eligible, SuggestedPercent: a.SuggestedPercent, Urgent: a.Urgent}
	}
	out := TourOverview{
		ID:                  string(t.ID),
		Title:               t.Title,
		Description:         t.Description,
		Region:              t.Region,
		DeparturePoint:      t.DeparturePoint,
		Photos:              append([]string(nil), t.Photos...),
		MinParticipants:     t.MinParticipants,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		StartDate:           t.StartDate,
		DaysUntilDeparture:  daysUntil,
		Status:              string(status),
		Progress:            progress,
		ProgressClamped:     t.ProgressClamped(),
		Price:               MapMoney(t.Price),
		DiscountPercent:     t.DiscountPercent,
		DiscountAdvice:      advice,
	}
	if !t.OriginalPrice.IsZero() {
		original := MapMoney(t.OriginalPrice)
		out.OriginalPrice = &original
	}
	return out
}

func MapTourCatalogRow(t *domaintour.Tour, now time.Time) TourCatalogRow {
	row := TourCatalogRow{
		ID:              string(t.ID),
		Title:           t.Title,
		Region:          t.Region,
		StartDate:       t.StartDate,
		Status:          string(t.Classify(now)),
		ProgressClamped: t.ProgressClamped(),
		Price:           MapMoney(t.Price),
		DiscountPercent: t.DiscountPercent,
	}
	if len(t.Photos) > 0 {
		row.ThumbnailURL = t.Photos[0]
	}
	if !t.OriginalPrice.IsZero() {
		original := MapMoney(t.OriginalPrice)
		row.OriginalPrice = &original
	}
	return row
}
