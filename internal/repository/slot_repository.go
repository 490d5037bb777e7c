package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/slot_planner/internal/model"
	"github.com/Freeeeeet/slot_planner/internal/repository/base"
)

// psql билдер запросов с плейсхолдерами $1, $2...
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const slotColumns = `id, name, date, start_hour, end_hour, space, category_id, company_id, team_ids, disabled, created_at, updated_at`

type SlotRepository struct {
	*base.Repository
	appointments *AppointmentRepository
}

func NewSlotRepository(pool *pgxpool.Pool, appointments *AppointmentRepository) *SlotRepository {
	return &SlotRepository{
		Repository:   base.NewRepository(pool),
		appointments: appointments,
	}
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.Name,
		&slot.Date,
		&slot.Start,
		&slot.End,
		&slot.Space,
		&slot.CategoryID,
		&slot.CompanyID,
		&slot.TeamIDs,
		&slot.Disabled,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create создаёт слот вместе со сгенерированными встречами
// Вызывать внутри транзакции, иначе при ошибке встреч слот останется пустым
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	query := `
		INSERT INTO slots (id, name, date, start_hour, end_hour, space, category_id, company_id, team_ids, disabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.Executor(ctx).QueryRow(
		ctx, query,
		slot.ID,
		slot.Name,
		slot.Date,
		slot.Start,
		slot.End,
		slot.Space,
		slot.CategoryID,
		slot.CompanyID,
		slot.TeamIDs,
		slot.Disabled,
	).Scan(&slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	for _, a := range slot.Appointments {
		a.SlotID = slot.ID
	}
	if err := r.appointments.CreateBatch(ctx, slot.Appointments); err != nil {
		return fmt.Errorf("create slot appointments: %w", err)
	}

	return nil
}

// GetByID получает слот по ID вместе со встречами
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.Executor(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	appts, err := r.appointments.ListBySlots(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	slot.Appointments = appts[id]

	return slot, nil
}

// List получает слоты по фильтру, отсортированные по дате и часу начала
func (r *SlotRepository) List(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	query, args, err := listSlotsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list slots query: %w", err)
	}

	rows, err := r.Executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var (
		slots []*model.Slot
		ids   []uuid.UUID
	)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
		ids = append(ids, slot.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	if len(ids) == 0 {
		return slots, nil
	}

	appts, err := r.appointments.ListBySlots(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		slot.Appointments = appts[slot.ID]
	}

	return slots, nil
}

// Update сохраняет изменяемые поля слота; окно и шаг не трогаются
func (r *SlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	query := `
		UPDATE slots
		SET name = $1, date = $2, category_id = $3, company_id = $4, team_ids = $5, disabled = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.Executor(ctx).QueryRow(
		ctx, query,
		slot.Name,
		slot.Date,
		slot.CategoryID,
		slot.CompanyID,
		slot.TeamIDs,
		slot.Disabled,
		slot.ID,
	).Scan(&slot.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrSlotNotFound
		}
		return fmt.Errorf("update slot: %w", err)
	}

	return nil
}

// UpdateDate переносит слот на другой день
func (r *SlotRepository) UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) error {
	affected, err := r.ExecAffected(ctx,
		`UPDATE slots SET date = $1, updated_at = NOW() WHERE id = $2`,
		model.DateOnly(date), id,
	)
	if err != nil {
		return fmt.Errorf("update slot date: %w", err)
	}
	if affected == 0 {
		return model.ErrSlotNotFound
	}
	return nil
}

// Delete удаляет слот; встречи удаляются каскадом
func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if affected == 0 {
		return model.ErrSlotNotFound
	}
	return nil
}

// listSlotsQuery строит SELECT по фильтру
func listSlotsQuery(filter model.SlotFilter) sq.SelectBuilder {
	q := psql.Select(slotColumns).From("slots").OrderBy("date", "start_hour", "name")

	if !filter.IncludeDisabled {
		q = q.Where(sq.Eq{"disabled": false})
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"date": model.DateOnly(*filter.From)})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"date": model.DateOnly(*filter.To)})
	}
	if filter.CompanyID != nil {
		q = q.Where(sq.Eq{"company_id": *filter.CompanyID})
	}
	if filter.CategoryID != nil {
		q = q.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.TeamID != nil {
		q = q.Where(sq.Expr("? = ANY(team_ids)", *filter.TeamID))
	}

	return q
}
