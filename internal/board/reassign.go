package board

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
	"github.com/Freeeeeet/slot_planner/internal/notify"
)

const (
	moveKindCustomer = "customer"
	moveKindSlot     = "slot"
)

// MoveCustomer переносит клиента со встречи source на пустую встречу target
// Доска обновляется сразу, до подтверждения хранилища; при ошибке хранилища
// изменения откатываются к снимку, а пользователь получает одно уведомление
func (b *Board) MoveCustomer(ctx context.Context, sourceID, targetID uuid.UUID) error {
	b.mu.Lock()
	source, target, err := b.validateCustomerMoveLocked(sourceID, targetID)
	if err != nil {
		b.mu.Unlock()
		b.reject(ctx, moveKindCustomer, err)
		return err
	}

	// оптимистичное обновление на копиях, исходные указатели - снимок
	movedSource, movedTarget := source.Clone(), target.Clone()
	customerID := *source.CustomerID
	_ = movedSource.Remove()
	_ = movedTarget.Assign(customerID)
	_ = movedTarget.Approve()

	b.appointments[sourceID] = movedSource
	b.appointments[targetID] = movedTarget
	b.reportLocked()
	b.mu.Unlock()

	res, err := b.mover.MoveCustomer(ctx, sourceID, targetID)
	if err != nil {
		b.mu.Lock()
		b.restoreAppointmentLocked(movedSource, source)
		b.restoreAppointmentLocked(movedTarget, target)
		b.reportLocked()
		b.mu.Unlock()

		b.rollback(ctx, moveKindCustomer, err,
			zap.String("source_id", sourceID.String()),
			zap.String("target_id", targetID.String()))
		return err
	}

	b.mu.Lock()
	b.restoreAppointmentLocked(movedSource, res.Source)
	b.restoreAppointmentLocked(movedTarget, res.Target)
	b.mu.Unlock()

	b.metrics.ObserveMove(moveKindCustomer, "ok")
	b.logger.Info("Customer moved on board",
		zap.String("move_id", res.MoveID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("source_id", sourceID.String()),
		zap.String("target_id", targetID.String()))
	return nil
}

// MoveSlot переносит слот целиком на другой день
func (b *Board) MoveSlot(ctx context.Context, slotID uuid.UUID, date time.Time) error {
	date = model.DateOnly(date)

	b.mu.Lock()
	slot, ok := b.slots[slotID]
	if !ok {
		b.mu.Unlock()
		b.reject(ctx, moveKindSlot, model.ErrSlotNotFound)
		return model.ErrSlotNotFound
	}
	if model.SameDay(slot.Date, date) {
		b.mu.Unlock()
		b.reject(ctx, moveKindSlot, model.ErrSameDate)
		return model.ErrSameDate
	}

	moved := slot.Clone()
	moved.Date = date
	b.slots[slotID] = moved
	b.mu.Unlock()

	if err := b.store.MoveSlot(ctx, slotID, date); err != nil {
		b.mu.Lock()
		if b.slots[slotID] == moved {
			b.slots[slotID] = slot
		}
		b.mu.Unlock()

		b.rollback(ctx, moveKindSlot, err,
			zap.String("slot_id", slotID.String()),
			zap.String("date", date.Format(model.DateFormat)))
		return err
	}

	b.metrics.ObserveMove(moveKindSlot, "ok")
	b.logger.Info("Slot moved on board",
		zap.String("slot_id", slotID.String()),
		zap.String("from", slot.Date.Format(model.DateFormat)),
		zap.String("to", date.Format(model.DateFormat)))
	return nil
}

// validateCustomerMoveLocked локальная проверка до любых изменений
func (b *Board) validateCustomerMoveLocked(sourceID, targetID uuid.UUID) (*model.Appointment, *model.Appointment, error) {
	if sourceID == targetID {
		return nil, nil, model.ErrSameAppointment
	}
	source, ok := b.appointments[sourceID]
	if !ok {
		return nil, nil, model.ErrAppointmentNotFound
	}
	target, ok := b.appointments[targetID]
	if !ok {
		return nil, nil, model.ErrAppointmentNotFound
	}
	if !source.IsBound() ||
		(source.Status != model.AppointmentStatusEdit && source.Status != model.AppointmentStatusOkay) {
		return nil, nil, model.ErrAppointmentNotBound
	}
	if target.IsBound() || target.Status != model.AppointmentStatusEmpty {
		return nil, nil, model.ErrTargetNotEmpty
	}
	return source, target, nil
}

// restoreAppointmentLocked заменяет оптимистичную запись, если её никто не обновил
// Если лента изменений уже принесла более свежее состояние, оно остаётся
func (b *Board) restoreAppointmentLocked(optimistic, value *model.Appointment) {
	if value == nil {
		return
	}
	if current, ok := b.appointments[value.ID]; ok && current == optimistic {
		b.appointments[value.ID] = value.Clone()
	}
}

func (b *Board) reject(ctx context.Context, kind string, err error) {
	b.metrics.ObserveMove(kind, "rejected")
	b.logger.Warn("Move rejected", zap.String("kind", kind), zap.Error(err))
	b.notifier.Notify(ctx, notify.ErrorMessage(err))
}

func (b *Board) rollback(ctx context.Context, kind string, err error, fields ...zap.Field) {
	b.metrics.ObserveMove(kind, "rolled_back")
	b.logger.Error("Move failed, board rolled back",
		append(fields, zap.String("kind", kind), zap.Error(err))...)
	b.notifier.Notify(ctx, notify.ErrorMessage(err))
}
