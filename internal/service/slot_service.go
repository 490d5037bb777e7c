package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

type SlotService struct {
	tx       TxManager
	slotRepo SlotRepository
	logger   *zap.Logger
}

func NewSlotService(tx TxManager, slotRepo SlotRepository, logger *zap.Logger) *SlotService {
	return &SlotService{
		tx:       tx,
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// CreateSlot создаёт слот и все его встречи одной транзакцией
func (s *SlotService) CreateSlot(ctx context.Context, in model.SlotInput) (*model.Slot, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	appts, err := GenerateAppointments(in.Start, in.End, in.Space)
	if err != nil {
		return nil, err
	}

	slot := &model.Slot{
		ID:           uuid.New(),
		Name:         in.Name,
		Date:         model.DateOnly(in.Date),
		Start:        in.Start,
		End:          in.End,
		Space:        in.Space,
		CategoryID:   in.CategoryID,
		CompanyID:    in.CompanyID,
		TeamIDs:      in.TeamIDs,
		Disabled:     in.Disabled,
		Appointments: appts,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.slotRepo.Create(ctx, slot)
	})
	if err != nil {
		s.logger.Error("Failed to create slot",
			zap.String("name", in.Name),
			zap.Error(err))
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("date", slot.Date.Format(model.DateFormat)),
		zap.Int("start", slot.Start),
		zap.Int("end", slot.End),
		zap.Int("space", slot.Space),
		zap.Int("appointments", len(slot.Appointments)),
	)

	return slot, nil
}

// GetSlot получает слот со встречами
func (s *SlotService) GetSlot(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	return s.slotRepo.GetByID(ctx, id)
}

// LoadSlots загружает слоты по фильтру
func (s *SlotService) LoadSlots(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	slots, err := s.slotRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	return slots, nil
}

// UpdateSlot обновляет изменяемые поля слота
func (s *SlotService) UpdateSlot(ctx context.Context, id uuid.UUID, upd model.SlotUpdate) (*model.Slot, error) {
	var slot *model.Slot

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		slot, err = s.slotRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := upd.Apply(slot); err != nil {
			return err
		}
		return s.slotRepo.Update(ctx, slot)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot updated", zap.String("slot_id", id.String()))
	return slot, nil
}

// DeleteSlot удаляет слот вместе со встречами
func (s *SlotService) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	if err := s.slotRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Slot deleted", zap.String("slot_id", id.String()))
	return nil
}

// MoveSlot переносит слот на другой день; встречи не меняются
func (s *SlotService) MoveSlot(ctx context.Context, id uuid.UUID, date time.Time) error {
	date = model.DateOnly(date)

	var from time.Time
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		slot, err := s.slotRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if model.SameDay(slot.Date, date) {
			return model.ErrSameDate
		}
		from = slot.Date
		return s.slotRepo.UpdateDate(ctx, id, date)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Slot moved",
		zap.String("slot_id", id.String()),
		zap.String("from", from.Format(model.DateFormat)),
		zap.String("to", date.Format(model.DateFormat)),
	)
	return nil
}
