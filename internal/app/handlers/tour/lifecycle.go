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
	domaintour "tourbook/internal/domain/tour"
)

const (
	cancelTourKey     = "tour.cancel"
	deactivateTourKey = "tour.deactivate"
	activateTourKey   = "tour.activate"
)

// LifecycleResult is shared by the three explicit-flag commands.
type LifecycleResult struct {
	TourID string `json:"tour_id"`
	Flag   string `json:"flag"`
}

type CancelTourCommand struct {
	TourID          string
	Reason          string
	IdempotencyKeyV string
}

func (c CancelTourCommand) Key() string            { return cancelTourKey }
func (c CancelTourCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CancelTourCommand) ResultPrototype() any   { return &LifecycleResult{} }

func (c CancelTourCommand) Validate() error {
	if strings.TrimSpace(c.TourID) == "" {
		return errors.New("tour: tour id is required")
	}
	return nil
}

type DeactivateTourCommand struct {
	TourID          string
	IdempotencyKeyV string
}

func (c DeactivateTourCommand) Key() string            { return deactivateTourKey }
func (c DeactivateTourCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c DeactivateTourCommand) ResultPrototype() any   { return &LifecycleResult{} }

type ActivateTourCommand struct {
	TourID          string
	IdempotencyKeyV string
}

func (c ActivateTourCommand) Key() string            { return activateTourKey }
func (c ActivateTourCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c ActivateTourCommand) ResultPrototype() any   { return &LifecycleResult{} }

// LifecycleHandler executes a flag mutation loaded-save-drain cycle shared by
// the cancel, deactivate and activate commands.
type LifecycleHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *LifecycleHandler) apply(ctx context.Context, tourID string, mutate func(*domaintour.Tour, time.Time) error) (*LifecycleResult, error) {
	if strings.TrimSpace(tourID) == "" {
		return nil, errors.New("tour: tour id is required")
	}
	unit, execCtx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	managed := cleanup != nil
	if managed {
		defer cleanup()
	}

	now := time.Now().UTC()
	t, err := unit.Tours().ByID(execCtx, domaintour.TourID(tourID))
	if err != nil {
		return nil, err
	}
	if err := mutate(t, now); err != nil {
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
	return &LifecycleResult{TourID: string(t.ID), Flag: string(t.Flag)}, nil
}

func (h *LifecycleHandler) HandleCancel(ctx context.Context, cmd CancelTourCommand) (*LifecycleResult, error) {
	return h.apply(ctx, cmd.TourID, func(t *domaintour.Tour, now time.Time) error {
		return t.Cancel(cmd.Reason, now)
	})
}

func (h *LifecycleHandler) HandleDeactivate(ctx context.Context, cmd DeactivateTourCommand) (*LifecycleResult, error) {
	return h.apply(ctx, cmd.TourID, (*domaintour.Tour).Deactivate)
}

func (h *LifecycleHandler) HandleActivate(ctx context.Context, cmd ActivateTourCommand) (*LifecycleResult, error) {
	return h.apply(ctx, cmd.TourID, (*domaintour.Tour).Activate)
}

// RegisterLifecycle wires the three commands onto the bus.
func RegisterLifecycle(bus *commands.InMemoryBus, h *LifecycleHandler) {
	commands.RegisterHandler(bus, cancelTourKey, commands.HandlerFunc[CancelTourCommand, *LifecycleResult](h.HandleCancel))
	commands.RegisterHandler(bus, deactivateTourKey, commands.HandlerFunc[DeactivateTourCommand, *LifecycleResult](h.HandleDeactivate))
	commands.RegisterHandler(bus, activateTourKey, commands.HandlerFunc[ActivateTourCommand, *LifecycleResult](h.HandleActivate))
}

var _ middleware.IdempotentCommand = (*CancelTourCommand)(nil)
var _ middleware.IdempotentCommand = (*DeactivateTourCommand)(nil)
var _ middleware.IdempotentCommand = (*ActivateTourCommand)(nil)
