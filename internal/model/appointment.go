package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusEmpty AppointmentStatus = "empty" // свободна
	AppointmentStatusEdit  AppointmentStatus = "edit"  // клиент назначен, не подтверждено
	AppointmentStatusOkay  AppointmentStatus = "okay"  // подтверждено
)

// Valid проверяет что статус известен
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusEmpty, AppointmentStatusEdit, AppointmentStatusOkay:
		return true
	}
	return false
}

// Appointment одна встреча внутри слота
// Инвариант: CustomerID == nil <=> Status == empty
type Appointment struct {
	ID         uuid.UUID         `json:"id"`
	SlotID     uuid.UUID         `json:"slot"`
	Name       string            `json:"name"` // метка часа, например "14:00"
	Hour       int               `json:"hour"`
	CustomerID *uuid.UUID        `json:"customer"` // указатель - может быть nil
	Status     AppointmentStatus `json:"status"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Clone копирует встречу вместе со ссылкой на клиента
func (a *Appointment) Clone() *Appointment {
	c := *a
	if a.CustomerID != nil {
		id := *a.CustomerID
		c.CustomerID = &id
	}
	return &c
}

// IsBound возвращает true если к встрече привязан клиент
func (a *Appointment) IsBound() bool {
	return a.CustomerID != nil
}

// HasCustomer проверяет привязку конкретного клиента
func (a *Appointment) HasCustomer(customerID uuid.UUID) bool {
	return a.CustomerID != nil && *a.CustomerID == customerID
}

// CheckInvariant проверяет связь клиента и статуса
func (a *Appointment) CheckInvariant() error {
	if !a.Status.Valid() {
		return ErrUnknownStatus
	}
	if a.IsBound() == (a.Status == AppointmentStatusEmpty) {
		return ErrStatusInvariant
	}
	return nil
}

// Assign назначает клиента на свободную встречу: empty -> edit
func (a *Appointment) Assign(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return ErrInvalidInput
	}
	if a.Status != AppointmentStatusEmpty || a.IsBound() {
		return ErrAppointmentNotEmpty
	}
	a.CustomerID = &customerID
	a.Status = AppointmentStatusEdit
	return nil
}

// Approve подтверждает встречу: edit -> okay
func (a *Appointment) Approve() error {
	if a.Status != AppointmentStatusEdit {
		return ErrAppointmentNotEdit
	}
	a.Status = AppointmentStatusOkay
	return nil
}

// Remove освобождает встречу: edit|okay -> empty
func (a *Appointment) Remove() error {
	if a.Status != AppointmentStatusEdit && a.Status != AppointmentStatusOkay {
		return ErrAppointmentNotBound
	}
	a.CustomerID = nil
	a.Status = AppointmentStatusEmpty
	return nil
}

// SetStatus административная установка статуса
// Инвариант проверяется всегда: без клиента допустим только empty,
// с клиентом допустимы edit и okay
func (a *Appointment) SetStatus(status AppointmentStatus) error {
	if !status.Valid() {
		return ErrUnknownStatus
	}
	if a.IsBound() == (status == AppointmentStatusEmpty) {
		return ErrStatusInvariant
	}
	a.Status = status
	return nil
}
