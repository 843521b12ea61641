package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

var _ repository.DiscountRepository = (*DiscountRepo)(nil)

const discountColumns = `id, code, description, type, value, min_amount, usage_limit, used_count, starts_at, ends_at, active, created_at, updated_at`

// DiscountRepo implementación de DiscountRepository sobre PostgreSQL.
type DiscountRepo struct {
	q Querier
}

// NewDiscountRepository construye el adaptador.
func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

// Create persiste un descuento. Código duplicado -> ConflictError.
func (r *DiscountRepo) Create(ctx context.Context, d *entity.Discount) error {
	query := `
		INSERT INTO discounts (` + discountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Code, d.Description, string(d.Type), d.Value, d.MinAmount, d.UsageLimit, d.UsedCount,
		d.StartsAt, d.EndsAt, d.Active, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "ya existe el código " + d.Code}
		}
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

// GetByID obtiene un descuento por ID.
func (r *DiscountRepo) GetByID(ctx context.Context, id string) (*entity.Discount, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = $1`, id)
}

// GetByCode obtiene un descuento por código (ya normalizado).
func (r *DiscountRepo) GetByCode(ctx context.Context, code string) (*entity.Discount, error) {
	return r.findOne(ctx, `SELECT `+discountColumns+` FROM discounts WHERE code = $1`, code)
}

// List todos los descuentos, más recientes primero.
func (r *DiscountRepo) List(ctx context.Context) ([]*entity.Discount, error) {
	rows, err := r.q.Query(ctx, `SELECT `+discountColumns+` FROM discounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Update reemplaza la definición del descuento (used_count no se toca).
func (r *DiscountRepo) Update(ctx context.Context, d *entity.Discount) error {
	query := `
		UPDATE discounts SET code = $2, description = $3, type = $4, value = $5, min_amount = $6,
			usage_limit = $7, starts_at = $8, ends_at = $9, active = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Code, d.Description, string(d.Type), d.Value, d.MinAmount, d.UsageLimit,
		d.StartsAt, d.EndsAt, d.Active, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "ya existe el código " + d.Code}
		}
		return fmt.Errorf("update discount: %w", err)
	}
	return nil
}

// Delete elimina un descuento.
func (r *DiscountRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM discounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	return nil
}

func (r *DiscountRepo) findOne(ctx context.Context, query string, arg any) (*entity.Discount, error) {
	d, err := scanDiscount(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return d, nil
}

func scanDiscount(row pgx.Row) (*entity.Discount, error) {
	var d entity.Discount
	var typ string
	err := row.Scan(
		&d.ID, &d.Code, &d.Description, &typ, &d.Value, &d.MinAmount, &d.UsageLimit, &d.UsedCount,
		&d.StartsAt, &d.EndsAt, &d.Active, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Type = entity.DiscountType(typ)
	return &d, nil
}
