package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/slot_planner/internal/model"
	"github.com/Freeeeeet/slot_planner/internal/realtime"
	"github.com/Freeeeeet/slot_planner/internal/service"
)

// SlotService операции со слотами
type SlotService interface {
	CreateSlot(ctx context.Context, in model.SlotInput) (*model.Slot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	LoadSlots(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, upd model.SlotUpdate) (*model.Slot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error
}

// AppointmentService переходы машины состояний встречи
type AppointmentService interface {
	Assign(ctx context.Context, appointmentID, customerID uuid.UUID) (*model.Appointment, error)
	Approve(ctx context.Context, appointmentID uuid.UUID) (*model.Appointment, error)
	Remove(ctx context.Context, appointmentID uuid.UUID) (*model.Appointment, error)
	SetStatus(ctx context.Context, appointmentID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
	MoveCustomer(ctx context.Context, sourceID, targetID uuid.UUID) (*service.MoveResult, error)
}

// CustomerService обновление qc_final с каскадом
type CustomerService interface {
	UpdateQCFinal(ctx context.Context, customerID uuid.UUID, qcFinal string) (*service.CascadeResult, error)
}

// Board доска в памяти и протокол переноса
type Board interface {
	Slots() []*model.Slot
	Appointment(id uuid.UUID) (*model.Appointment, bool)
	MoveCustomer(ctx context.Context, sourceID, targetID uuid.UUID) error
	MoveSlot(ctx context.Context, slotID uuid.UUID, date time.Time) error
}

// Subscriber источник событий для WebSocket
type Subscriber interface {
	Subscribe() *realtime.Subscription
}
