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

const attachPhotoKey = "tour.attach_photo"

type AttachPhotoCommand struct {
	TourID          string
	PhotoURL        string
	IdempotencyKeyV string
}

func (c AttachPhotoCommand) Key() string            { return attachPhotoKey }
func (c AttachPhotoCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c AttachPhotoCommand) ResultPrototype() any   { return &AttachPhotoResult{} }

func (c AttachPhotoCommand) Validate() error {
	if strings.TrimSpace(c.TourID) == "" {
		return errors.New("tour: tour id is required")
	}
	if strings.TrimSpace(c.PhotoURL) == "" {
		return domaintour.ErrPhotoURLRequired
	}
	return nil
}

type AttachPhotoResult struct {
	TourID     string `json:"tour_id"`
	PhotoCount int    `json:"photo_count"`
}

type AttachPhotoHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *AttachPhotoHandler) Handle(ctx context.Context, cmd AttachPhotoCommand) (*AttachPhotoResult, error) {
	unit, execCtx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	managed := cleanup != nil
	if managed {
		defer cleanup()
	}

	now := time.Now().UTC()
	t, err := unit.Tours().ByID(execCtx, domaintour.TourID(cmd.TourID))
	if err != nil {
		return nil, err
	}
	if err := t.AttachPhoto(cmd.PhotoURL, now); err != nil {
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
	return &AttachPhotoResult{TourID: string(t.ID), PhotoCount: len(t.Photos)}, nil
}

var _ commands.Handler[AttachPhotoCommand, *AttachPhotoResult] = (*AttachPhotoHandler)(nil)
var _ middleware.IdempotentCommand = (*AttachPhotoCommand)(nil)
