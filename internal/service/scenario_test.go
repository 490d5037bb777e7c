package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

func boundCount(store *memStore) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	n := 0
	for _, a := range store.appointments {
		if a.IsBound() {
			n++
		}
	}
	return n
}

// Полный путь: создание слота, запись, подтверждение, перенос и каскад
func TestBookingLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	notifier := &recordingNotifier{}

	slots := newSlotService(store)
	appointments := newAppointmentService(store)
	customers := NewCustomerService(customerRepo{store}, appointments, notifier, zap.NewNop())

	x := store.addCustomer("Customer X", "")
	y := store.addCustomer("Customer Y", "")

	slot, err := slots.CreateSlot(ctx, slotInput())
	require.NoError(t, err)

	byLabel := make(map[string]*model.Appointment)
	var labels []string
	for _, a := range slot.Appointments {
		byLabel[a.Name] = a
		labels = append(labels, a.Name)
	}
	require.Equal(t, []string{"10:00", "12:00", "14:00", "16:00", "18:00"}, labels)

	at14, at16, at18 := byLabel["14:00"].ID, byLabel["16:00"].ID, byLabel["18:00"].ID

	got, err := appointments.Assign(ctx, at14, x.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusEdit, got.Status)

	got, err = appointments.Approve(ctx, at14)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusOkay, got.Status)

	before := boundCount(store)
	_, err = appointments.MoveCustomer(ctx, at14, at16)
	require.NoError(t, err)
	assert.Equal(t, before, boundCount(store))
	assert.False(t, store.appointment(at14).IsBound())
	assert.Equal(t, model.AppointmentStatusOkay, store.appointment(at16).Status)
	assert.True(t, store.appointment(at16).HasCustomer(x.ID))

	_, err = appointments.Assign(ctx, at18, y.ID)
	require.NoError(t, err)

	_, err = appointments.MoveCustomer(ctx, at16, at18)
	require.ErrorIs(t, err, model.ErrTargetNotEmpty)
	assert.True(t, store.appointment(at16).HasCustomer(x.ID))
	assert.True(t, store.appointment(at18).HasCustomer(y.ID))
	assert.Equal(t, model.AppointmentStatusEdit, store.appointment(at18).Status)

	_, err = customers.UpdateQCFinal(ctx, x.ID, model.QCFinalRelistedWP)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusEmpty, store.appointment(at16).Status)
	assert.Nil(t, store.appointment(at16).CustomerID)
	assert.True(t, store.appointment(at18).HasCustomer(y.ID))

	store.mu.Lock()
	defer store.mu.Unlock()
	for _, a := range store.appointments {
		assert.NoError(t, a.CheckInvariant(), a.Name)
	}
}
