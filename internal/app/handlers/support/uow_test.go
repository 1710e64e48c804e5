package support

import (
	"context"
	"testing"

	"tourbook/internal/app/uow"
	domainbooking "tourbook/internal/domain/booking"
	domaintour "tourbook/internal/domain/tour"
)

type sessionKey struct{}

type sessionUnit struct {
	rolledBack bool
}

func (u *sessionUnit) Tours() domaintour.Repository       { return nil }
func (u *sessionUnit) Bookings() domainbooking.Repository { return nil }
func (u *sessionUnit) Commit(ctx context.Context) error   { return nil }

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

func TestBeginUnitInjectsSessionContext(t *testing.T) {
	unit := &sessionUnit{}
	got, execCtx, cleanup, err := BeginUnit(context.Background(), sessionFactory{unit: unit}, uow.TxOptions{})
	if err != nil {
		t.Fatalf("BeginUnit: %v", err)
	}
	if got != uow.UnitOfWork(unit) {
		t.Fatal("BeginUnit returned a different unit")
	}
	if cleanup == nil {
		t.Fatal("managed unit must come with a cleanup")
	}
	if execCtx.Value(sessionKey{}) != unit {
		t.Fatal("exec context is missing the unit's session")
	}
	if inCtx, ok := uow.FromContext(execCtx); !ok || inCtx != uow.UnitOfWork(unit) {
		t.Fatal("exec context is missing the unit of work")
	}

	cleanup()
	if !unit.rolledBack {
		t.Fatal("cleanup must roll the managed unit back")
	}
}

func TestBeginUnitReusesMiddlewareUnit(t *testing.T) {
	unit := &sessionUnit{}
	ctx := uow.ContextWithUnitOfWork(context.Background(), unit)

	got, execCtx, cleanup, err := BeginUnit(ctx, nil, uow.TxOptions{})
	if err != nil {
		t.Fatalf("BeginUnit: %v", err)
	}
	if got != uow.UnitOfWork(unit) {
		t.Fatal("BeginUnit must reuse the unit from context")
	}
	if cleanup != nil {
		t.Fatal("reused unit must not come with a cleanup")
	}
	if execCtx != ctx {
		t.Fatal("reused unit keeps the caller's context")
	}
}
