package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// ErrCascadeIncomplete возвращается, когда часть встреч клиента не удалось освободить
var ErrCascadeIncomplete = errors.New("cascade incomplete")

// CascadeFailure ошибка освобождения одной встречи
// AppointmentID == uuid.Nil означает ошибку поиска встреч
type CascadeFailure struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Err           error     `json:"-"`
	Message       string    `json:"error"`
}

// CascadeResult итог обновления qc_final и каскада
type CascadeResult struct {
	Customer *model.Customer  `json:"customer"`
	Cleared  []uuid.UUID      `json:"cleared"`
	Failed   []CascadeFailure `json:"failed,omitempty"`
}

// Err объединяет ошибки каскада
func (r *CascadeResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed)+1)
	errs = append(errs, ErrCascadeIncomplete)
	for _, f := range r.Failed {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

type CustomerService struct {
	customers    CustomerRepository
	appointments *AppointmentService
	notifier     Notifier
	logger       *zap.Logger
}

func NewCustomerService(
	customers CustomerRepository,
	appointments *AppointmentService,
	notifier Notifier,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customers:    customers,
		appointments: appointments,
		notifier:     notifier,
		logger:       logger,
	}
}

// UpdateQCFinal сохраняет итог контроля качества и, если он дисквалифицирующий,
// освобождает все встречи клиента. Обновление клиента не откатывается при
// ошибках каскада; частично освобождённые встречи остаются освобождёнными.
func (s *CustomerService) UpdateQCFinal(ctx context.Context, customerID uuid.UUID, qcFinal string) (*CascadeResult, error) {
	customer, err := s.customers.UpdateQCFinal(ctx, customerID, qcFinal)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer qc_final updated",
		zap.String("customer_id", customerID.String()),
		zap.String("qc_final", qcFinal),
	)

	result := &CascadeResult{Customer: customer, Cleared: []uuid.UUID{}}
	if !model.IsDisqualifying(qcFinal) {
		return result, nil
	}

	s.cascade(ctx, customerID, result)

	if err := result.Err(); err != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("⚠️ Клиент %s (%s): освобождено встреч %d, не удалось освободить %d",
			customerDisplay(customer), qcFinal, len(result.Cleared), len(result.Failed)))
		return result, err
	}
	if len(result.Cleared) > 0 {
		s.notifier.Notify(ctx, fmt.Sprintf("🚫 Клиент %s снят с записи (%s): освобождено встреч %d",
			customerDisplay(customer), qcFinal, len(result.Cleared)))
	}

	return result, nil
}

// cascade освобождает каждую встречу клиента в отдельной транзакции
func (s *CustomerService) cascade(ctx context.Context, customerID uuid.UUID, result *CascadeResult) {
	appts, err := s.appointments.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("Cascade lookup failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		result.Failed = append(result.Failed, CascadeFailure{
			Err:     fmt.Errorf("list appointments: %w", err),
			Message: err.Error(),
		})
		return
	}

	for _, a := range appts {
		released, err := s.appointments.Release(ctx, a.ID, customerID)
		if err != nil {
			s.logger.Error("Cascade failed to clear appointment",
				zap.String("customer_id", customerID.String()),
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err))
			result.Failed = append(result.Failed, CascadeFailure{
				AppointmentID: a.ID,
				Err:           fmt.Errorf("clear appointment %s: %w", a.ID, err),
				Message:       err.Error(),
			})
			continue
		}
		if released {
			result.Cleared = append(result.Cleared, a.ID)
		}
	}

	s.logger.Info("Cascade applied",
		zap.String("customer_id", customerID.String()),
		zap.Int("cleared", len(result.Cleared)),
		zap.Int("failed", len(result.Failed)),
	)
}

func customerDisplay(c *model.Customer) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID.String()
}
