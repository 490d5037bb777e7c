package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

type AppointmentService struct {
	tx           TxManager
	appointments AppointmentRepository
	customers    CustomerRepository
	logger       *zap.Logger
}

func NewAppointmentService(
	tx TxManager,
	appointments AppointmentRepository,
	customers CustomerRepository,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		tx:           tx,
		appointments: appointments,
		customers:    customers,
		logger:       logger,
	}
}

// MoveResult состояние обеих встреч после переноса клиента
type MoveResult struct {
	MoveID uuid.UUID          `json:"move_id"`
	Source *model.Appointment `json:"source"`
	Target *model.Appointment `json:"target"`
}

// Assign назначает клиента на свободную встречу
func (s *AppointmentService) Assign(ctx context.Context, appointmentID, customerID uuid.UUID) (*model.Appointment, error) {
	return s.mutate(ctx, "assign", appointmentID, func(ctx context.Context, a *model.Appointment) error {
		if a.Status != model.AppointmentStatusEmpty {
			return model.ErrAppointmentNotEmpty
		}
		if err := s.checkCustomer(ctx, customerID); err != nil {
			return err
		}
		return a.Assign(customerID)
	})
}

// Approve подтверждает встречу
func (s *AppointmentService) Approve(ctx context.Context, appointmentID uuid.UUID) (*model.Appointment, error) {
	return s.mutate(ctx, "approve", appointmentID, func(_ context.Context, a *model.Appointment) error {
		return a.Approve()
	})
}

// Remove снимает клиента со встречи
func (s *AppointmentService) Remove(ctx context.Context, appointmentID uuid.UUID) (*model.Appointment, error) {
	return s.mutate(ctx, "remove", appointmentID, func(_ context.Context, a *model.Appointment) error {
		return a.Remove()
	})
}

// SetStatus административная смена статуса
func (s *AppointmentService) SetStatus(ctx context.Context, appointmentID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	return s.mutate(ctx, "set_status", appointmentID, func(_ context.Context, a *model.Appointment) error {
		return a.SetStatus(status)
	})
}

// Release снимает конкретного клиента со встречи
// Если встреча уже занята другим клиентом или свободна, возвращает false без ошибки
func (s *AppointmentService) Release(ctx context.Context, appointmentID, customerID uuid.UUID) (bool, error) {
	released := false
	_, err := s.mutate(ctx, "release", appointmentID, func(_ context.Context, a *model.Appointment) error {
		if !a.HasCustomer(customerID) {
			return errSkip
		}
		released = true
		return a.Remove()
	})
	if errors.Is(err, errSkip) {
		return false, nil
	}
	return released, err
}

// ListByCustomer получает встречи клиента
func (s *AppointmentService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Appointment, error) {
	return s.appointments.ListByCustomer(ctx, customerID)
}

// MoveCustomer переносит клиента с одной встречи на другую атомарно
// Обе строки блокируются в порядке ID, поэтому конкурирующий перенос на ту же
// встречу получит ErrTargetNotEmpty вместо тихой перезаписи
func (s *AppointmentService) MoveCustomer(ctx context.Context, sourceID, targetID uuid.UUID) (*MoveResult, error) {
	if sourceID == targetID {
		return nil, model.ErrSameAppointment
	}

	res := &MoveResult{MoveID: uuid.New()}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		locked := make(map[uuid.UUID]*model.Appointment, 2)
		for _, id := range lockOrder(sourceID, targetID) {
			a, err := s.appointments.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			locked[id] = a
		}
		source, target := locked[sourceID], locked[targetID]

		if !source.IsBound() {
			return model.ErrAppointmentNotBound
		}
		if target.Status != model.AppointmentStatusEmpty || target.IsBound() {
			return model.ErrTargetNotEmpty
		}

		customerID := *source.CustomerID
		if err := source.Remove(); err != nil {
			return err
		}
		if err := target.Assign(customerID); err != nil {
			return err
		}
		if err := target.Approve(); err != nil {
			return err
		}

		if err := s.appointments.Save(ctx, source); err != nil {
			return fmt.Errorf("clear source: %w", err)
		}
		if err := s.appointments.Save(ctx, target); err != nil {
			return fmt.Errorf("assign target: %w", err)
		}

		res.Source, res.Target = source, target
		return nil
	})
	if err != nil {
		s.logger.Warn("Customer move rejected",
			zap.String("move_id", res.MoveID.String()),
			zap.String("source_id", sourceID.String()),
			zap.String("target_id", targetID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Customer moved",
		zap.String("move_id", res.MoveID.String()),
		zap.String("customer_id", res.Target.CustomerID.String()),
		zap.String("source_id", sourceID.String()),
		zap.String("target_id", targetID.String()),
	)

	return res, nil
}

var errSkip = errors.New("skip")

// mutate блокирует встречу, применяет переход машины состояний и сохраняет
func (s *AppointmentService) mutate(
	ctx context.Context,
	op string,
	id uuid.UUID,
	fn func(ctx context.Context, a *model.Appointment) error,
) (*model.Appointment, error) {
	var result *model.Appointment

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.appointments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, a); err != nil {
			return err
		}
		if err := s.appointments.Save(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	if err != nil {
		if !errors.Is(err, errSkip) {
			s.logger.Warn("Appointment operation rejected",
				zap.String("op", op),
				zap.String("appointment_id", id.String()),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Appointment updated",
		zap.String("op", op),
		zap.String("appointment_id", id.String()),
		zap.String("status", string(result.Status)),
	)

	return result, nil
}

// checkCustomer проверяет что клиент существует и может быть записан
// Вызывается внутри транзакции: строка клиента остаётся заблокированной до коммита
func (s *AppointmentService) checkCustomer(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customers.GetForShare(ctx, customerID)
	if err != nil {
		return err
	}
	if customer.IsDisqualified() {
		return model.ErrCustomerDisqualified
	}
	return nil
}

func lockOrder(a, b uuid.UUID) []uuid.UUID {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return []uuid.UUID{a, b}
	}
	return []uuid.UUID{b, a}
}
