package tour

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourbook/internal/app/commands"
	"tourbook/internal/app/handlers/support"
	"tourbook/internal/app/middleware"
	"tourbook/internal/app/outbox"
	"tourbook/internal/app/uow"
	"tourbook/internal/domain/shared/money"
	domaintour "tourbook/internal/domain/tour"
)

const createTourKey = "tour.create"

type CreateTourCommand struct {
	CommandID       string
	OperatorID      string
	Title           string
	Description     string
	Region          string
	DeparturePoint  string
	MinParticipants int
	MaxParticipants int
	StartDate       time.Time
	PriceAmount     int64
	IdempotencyKeyV string
}

func (c CreateTourCommand) Key() string { return createTourKey }

func (c CreateTourCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateTourCommand) ResultPrototype() any { return &CreateTourResult{} }

func (c CreateTourCommand) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return domaintour.ErrTitleRequired
	}
	if c.StartDate.IsZero() {
		return errors.New("tour: start date is required")
	}
	return nil
}

type CreateTourResult struct {
	TourID          string `json:"tour_id"`
	MinParticipants int    `json:"min_participants"`
	MaxParticipants int    `json:"max_participants"`
}

type CreateTourHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateTourHandler) Handle(ctx context.Context, cmd CreateTourCommand) (*CreateTourResult, error) {
	unit, execCtx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	managed := cleanup != nil
	if managed {
		defer cleanup()
	}

	t, err := domaintour.NewTour(domaintour.CreateParams{
		ID:              domaintour.TourID(cmd.CommandID),
		OperatorID:      cmd.OperatorID,
		Title:           cmd.Title,
		Description:     cmd.Description,
		Region:          cmd.Region,
		DeparturePoint:  cmd.DeparturePoint,
		MinParticipants: cmd.MinParticipants,
		MaxParticipants: cmd.MaxParticipants,
		StartDate:       cmd.StartDate,
		Price:           money.Dong(cmd.PriceAmount),
		Now:             time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Tours().Save(execCtx, t); err != nil {
		return nil, err
	}
	if err := support.DrainEvents(execCtx, h.Outbox, h.Encoder, t); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
	}
	return &CreateTourResult{
		TourID:          string(t.ID),
		MinParticipants: t.MinParticipants,
		MaxParticipants: t.MaxParticipants,
	}, nil
}

var _ commands.Handler[CreateTourCommand, *CreateTourResult] = (*CreateTourHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateTourCommand)(nil)
