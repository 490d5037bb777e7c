package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/slot_planner/internal/model"
	"github.com/Freeeeeet/slot_planner/internal/repository/base"
)

const appointmentColumns = `id, slot_id, name, hour, customer_id, status, updated_at`

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.SlotID,
		&a.Name,
		&a.Hour,
		&a.CustomerID,
		&a.Status,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateBatch создаёт встречи одним батчем
func (r *AppointmentRepository) CreateBatch(ctx context.Context, appts []*model.Appointment) error {
	if len(appts) == 0 {
		return nil
	}

	query := `
		INSERT INTO appointments (id, slot_id, name, hour, customer_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING updated_at
	`

	batch := &pgx.Batch{}
	for _, a := range appts {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		batch.Queue(query, a.ID, a.SlotID, a.Name, a.Hour, a.CustomerID, a.Status)
	}

	results := r.Executor(ctx).SendBatch(ctx, batch)
	defer results.Close()

	for _, a := range appts {
		if err := results.QueryRow().Scan(&a.UpdatedAt); err != nil {
			return fmt.Errorf("insert appointment %s: %w", a.Name, err)
		}
	}

	return nil
}

// GetByID получает встречу по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate получает встречу с блокировкой строки до конца транзакции
func (r *AppointmentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *AppointmentRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.Appointment, error) {
	a, err := scanAppointment(r.Executor(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// Save сохраняет клиента и статус встречи
func (r *AppointmentRepository) Save(ctx context.Context, a *model.Appointment) error {
	query := `
		UPDATE appointments
		SET customer_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	err := r.Executor(ctx).QueryRow(ctx, query, a.CustomerID, a.Status, a.ID).Scan(&a.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrAppointmentNotFound
		}
		return fmt.Errorf("save appointment: %w", err)
	}
	return nil
}

// ListBySlots получает встречи нескольких слотов, сгруппированные по слоту и упорядоченные по часу
func (r *AppointmentRepository) ListBySlots(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID][]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE slot_id = ANY($1)
		ORDER BY slot_id, hour
	`

	appts, err := r.list(ctx, query, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("list appointments by slots: %w", err)
	}

	result := make(map[uuid.UUID][]*model.Appointment, len(slotIDs))
	for _, a := range appts {
		result[a.SlotID] = append(result[a.SlotID], a)
	}
	return result, nil
}

// ListByCustomer получает все встречи, на которые записан клиент
func (r *AppointmentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE customer_id = $1
		ORDER BY slot_id, hour
	`

	appts, err := r.list(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by customer: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]*model.Appointment, error) {
	rows, err := r.Executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}
