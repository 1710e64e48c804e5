package middleware

import (
	"context"
	"errors"
	"testing"

	"tourbook/internal/app/commands"
	"tourbook/internal/app/uow"
	domainbooking "tourbook/internal/domain/booking"
	domaintour "tourbook/internal/domain/tour"
)

type sessionKey struct{}

// sessionUnit mimics a unit of work that carries a driver session, like the
// Mongo-backed one does.
type sessionUnit struct {
	committed  bool
	rolledBack bool
}

func (u *sessionUnit) Tours() domaintour.Repository       { return nil }
func (u *sessionUnit) Bookings() domainbooking.Repository { return nil }

func (u *sessionUnit) Commit(ctx context.Context) error {
	u.committed = true
	return nil
}

func (u *sessionUnit) Rollback(ctx context.Context) error {
	u.rolledBack = true
	return nil
}

func (u *sessionUnit) InjectContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, u)
}

type sessionFactory struct {
	unit *sessionUnit
}

func (f sessionFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	return f.unit, nil
}

type noopCommand struct{}

func (noopCommand) Key() string { return "test.noop" }

func TestTransactionInjectsUnitSessionContext(t *testing.T) {
	unit := &sessionUnit{}
	var handlerCtx context.Context
	bus := commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		handlerCtx = ctx
		return nil, nil
	})

	wrapped := Transaction(sessionFactory{unit: unit}, nil)(bus)
	if _, err := wrapped.Dispatch(context.Background(), noopCommand{}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	// Repository reads and writes must see the unit's session; a plain context
	// would put them outside the transaction Commit/Rollback control.
	if handlerCtx.Value(sessionKey{}) != unit {
		t.Fatal("handler context is missing the unit's session")
	}
	if got, ok := uow.FromContext(handlerCtx); !ok || got != uow.UnitOfWork(unit) {
		t.Fatal("handler context is missing the unit of work")
	}
	if !unit.committed || unit.rolledBack {
		t.Fatalf("committed=%v rolledBack=%v, want commit only", unit.committed, unit.rolledBack)
	}
}

func TestTransactionRollsBackOnHandlerError(t *testing.T) {
	unit := &sessionUnit{}
	wantErr := errors.New("handler failed")
	bus := commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		return nil, wantErr
	})

	wrapped := Transaction(sessionFactory{unit: unit}, nil)(bus)
	if _, err := wrapped.Dispatch(context.Background(), noopCommand{}); !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want the handler error", err)
	}
	if unit.committed || !unit.rolledBack {
		t.Fatalf("committed=%v rolledBack=%v, want rollback only", unit.committed, unit.rolledBack)
	}
}
