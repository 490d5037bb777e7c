package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

func newAppointmentService(store *memStore) *AppointmentService {
	return NewAppointmentService(store, store, customerRepo{store}, zap.NewNop())
}

func TestAppointmentService_AssignApprove(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newAppointmentService(store)

	customer := store.addCustomer("Anna", "")
	appt := store.addAppointment(10, model.AppointmentStatusEmpty, nil)

	got, err := svc.Assign(ctx, appt.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusEdit, got.Status)
	assert.True(t, got.HasCustomer(customer.ID))
	assert.Equal(t, 1, store.sharedReads)
	assert.True(t, store.sharedInTx, "customer row is locked inside the assign transaction")

	got, err = svc.Approve(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusOkay, got.Status)
	assert.Equal(t, model.AppointmentStatusOkay, store.appointment(appt.ID).Status)
}

func TestAppointmentService_AssignRejections(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newAppointmentService(store)

	holder := store.addCustomer("Holder", "")
	dropped := store.addCustomer("Dropped", model.QCFinalDropped)
	busy := store.addAppointment(10, model.AppointmentStatusEdit, &holder.ID)
	free := store.addAppointment(12, model.AppointmentStatusEmpty, nil)

	_, err := svc.Assign(ctx, busy.ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrAppointmentNotEmpty)
	assert.True(t, store.appointment(busy.ID).HasCustomer(holder.ID))

	_, err = svc.Assign(ctx, free.ID, dropped.ID)
	assert.ErrorIs(t, err, model.ErrCustomerDisqualified)

	_, err = svc.Assign(ctx, free.ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrCustomerNotFound)

	_, err = svc.Assign(ctx, uuid.New(), holder.ID)
	assert.ErrorIs(t, err, model.ErrAppointmentNotFound)

	assert.Equal(t, model.AppointmentStatusEmpty, store.appointment(free.ID).Status)
}

func TestAppointmentService_RemoveAndSetStatus(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newAppointmentService(store)

	customer := store.addCustomer("Ben", "")
	appt := store.addAppointment(14, model.AppointmentStatusOkay, &customer.ID)

	got, err := svc.SetStatus(ctx, appt.ID, model.AppointmentStatusEdit)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusEdit, got.Status)

	_, err = svc.SetStatus(ctx, appt.ID, model.AppointmentStatusEmpty)
	assert.ErrorIs(t, err, model.ErrStatusInvariant)

	got, err = svc.Remove(ctx, appt.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CustomerID)

	_, err = svc.Remove(ctx, appt.ID)
	assert.ErrorIs(t, err, model.ErrAppointmentNotBound)

	_, err = svc.SetStatus(ctx, appt.ID, model.AppointmentStatusOkay)
	assert.ErrorIs(t, err, model.ErrStatusInvariant)
}

func TestAppointmentService_Release(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newAppointmentService(store)

	mine := store.addCustomer("Mine", "")
	other := store.addCustomer("Other", "")
	appt := store.addAppointment(9, model.AppointmentStatusOkay, &other.ID)

	released, err := svc.Release(ctx, appt.ID, mine.ID)
	require.NoError(t, err)
	assert.False(t, released)
	assert.True(t, store.appointment(appt.ID).HasCustomer(other.ID))

	released, err = svc.Release(ctx, appt.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, released)
	assert.False(t, store.appointment(appt.ID).IsBound())
}

func TestAppointmentService_MoveCustomer(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newAppointmentService(store)

	customer := store.addCustomer("Clara", "")
	source := store.addAppointment(10, model.AppointmentStatusEdit, &customer.ID)
	target := store.addAppointment(14, model.AppointmentStatusEmpty, nil)

	res, err := svc.MoveCustomer(ctx, source.ID, target.ID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.MoveID)

	assert.Equal(t, model.AppointmentStatusEmpty, res.Source.Status)
	assert.Nil(t, res.Source.CustomerID)
	assert.Equal(t, model.AppointmentStatusOkay, res.Target.Status)
	assert.True(t, res.Target.HasCustomer(customer.ID))

	assert.False(t, store.appointment(source.ID).IsBound())
	assert.True(t, store.appointment(target.ID).HasCustomer(customer.ID))
}

func TestAppointmentService_MoveCustomerRejected(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newAppointmentService(store)

	a := store.addCustomer("A", "")
	b := store.addCustomer("B", "")
	source := store.addAppointment(10, model.AppointmentStatusOkay, &a.ID)
	taken := store.addAppointment(12, model.AppointmentStatusEdit, &b.ID)
	free := store.addAppointment(16, model.AppointmentStatusEmpty, nil)

	_, err := svc.MoveCustomer(ctx, source.ID, taken.ID)
	assert.ErrorIs(t, err, model.ErrTargetNotEmpty)

	_, err = svc.MoveCustomer(ctx, free.ID, source.ID)
	assert.ErrorIs(t, err, model.ErrAppointmentNotBound)

	_, err = svc.MoveCustomer(ctx, source.ID, source.ID)
	assert.ErrorIs(t, err, model.ErrSameAppointment)

	_, err = svc.MoveCustomer(ctx, source.ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrAppointmentNotFound)

	assert.True(t, store.appointment(source.ID).HasCustomer(a.ID))
	assert.True(t, store.appointment(taken.ID).HasCustomer(b.ID))
	assert.False(t, store.appointment(free.ID).IsBound())
}

func TestAppointmentService_MoveCustomerIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newAppointmentService(store)

	customer := store.addCustomer("Dora", "")
	source := store.addAppointment(10, model.AppointmentStatusOkay, &customer.ID)
	target := store.addAppointment(12, model.AppointmentStatusEmpty, nil)
	store.failSave[target.ID] = errStorage

	_, err := svc.MoveCustomer(ctx, source.ID, target.ID)
	require.ErrorIs(t, err, errStorage)

	// источник очищен внутри транзакции, но откат вернул клиента
	got := store.appointment(source.ID)
	assert.True(t, got.HasCustomer(customer.ID))
	assert.Equal(t, model.AppointmentStatusOkay, got.Status)
	assert.False(t, store.appointment(target.ID).IsBound())
}

func TestAppointmentService_SecondMoveToSameTargetFails(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newAppointmentService(store)

	x := store.addCustomer("X", "")
	y := store.addCustomer("Y", "")
	fromX := store.addAppointment(9, model.AppointmentStatusEdit, &x.ID)
	fromY := store.addAppointment(11, model.AppointmentStatusEdit, &y.ID)
	target := store.addAppointment(15, model.AppointmentStatusEmpty, nil)

	_, err := svc.MoveCustomer(ctx, fromX.ID, target.ID)
	require.NoError(t, err)

	_, err = svc.MoveCustomer(ctx, fromY.ID, target.ID)
	assert.ErrorIs(t, err, model.ErrTargetNotEmpty)

	assert.True(t, store.appointment(target.ID).HasCustomer(x.ID))
	assert.True(t, store.appointment(fromY.ID).HasCustomer(y.ID))
}

func TestLockOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, lockOrder(a, b), lockOrder(b, a))
}
