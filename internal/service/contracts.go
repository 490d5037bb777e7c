package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// TxManager интерфейс для управления транзакциями
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	List(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error)
	Update(ctx context.Context, slot *model.Slot) error
	UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AppointmentRepository интерфейс хранилища встреч
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Save(ctx context.Context, a *model.Appointment) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Appointment, error)
}

// CustomerRepository интерфейс хранилища клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetForShare(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	UpdateQCFinal(ctx context.Context, id uuid.UUID, qcFinal string) (*model.Customer, error)
}

// Notifier отправляет человекочитаемые уведомления
type Notifier interface {
	Notify(ctx context.Context, text string)
}
