package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/slot_planner/internal/model"
	"github.com/Freeeeeet/slot_planner/internal/repository/base"
)

// CustomerRepository доступ к лидам; ядро работает только с qc_final
type CustomerRepository struct {
	*base.Repository
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает клиента по ID
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetForShare получает клиента с разделяемой блокировкой строки до конца транзакции
// UpdateQCFinal ждёт её снятия, поэтому каскад видит уже сохранённую запись
func (r *CustomerRepository) GetForShare(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR SHARE`, id)
}

const customerColumns = `id, name, qc_final, updated_at`

func (r *CustomerRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.Executor(ctx).QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.QCFinal, &c.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// UpdateQCFinal обновляет итог контроля качества
func (r *CustomerRepository) UpdateQCFinal(ctx context.Context, id uuid.UUID, qcFinal string) (*model.Customer, error) {
	query := `
		UPDATE customers
		SET qc_final = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, qc_final, updated_at
	`

	var c model.Customer
	err := r.Executor(ctx).QueryRow(ctx, query, qcFinal, id).Scan(&c.ID, &c.Name, &c.QCFinal, &c.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("update customer qc_final: %w", err)
	}
	return &c, nil
}
