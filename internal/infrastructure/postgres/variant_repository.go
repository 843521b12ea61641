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

var _ repository.VariantRepository = (*VariantRepo)(nil)

const variantColumns = `id, product_id, name, sku, color, size, material, price_modifier, stock_quantity, created_at, updated_at`

// VariantRepo implementación de VariantRepository (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de variantes. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una variante. SKU duplicado -> ConflictError.
func (r *VariantRepo) Create(ctx context.Context, v *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (` + variantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ProductID, v.Name, v.SKU, v.Color, v.Size, v.Material, v.PriceModifier, v.StockQuantity,
		v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "ya existe una variante con sku " + v.SKU}
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetByID obtiene una variante. Un id que no es UUID se trata como inexistente.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene la variante y bloquea la fila (SELECT FOR UPDATE).
func (r *VariantRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.get(ctx, id, true)
}

func (r *VariantRepo) get(ctx context.Context, id string, lock bool) (*entity.ProductVariant, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	v, err := scanVariant(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

// ListByProduct variantes de un producto.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductVariant, error) {
	if !validUUID(productID) {
		return nil, nil
	}
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE product_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Update reemplaza los datos de la variante.
func (r *VariantRepo) Update(ctx context.Context, v *entity.ProductVariant) error {
	query := `
		UPDATE product_variants SET name = $2, sku = $3, color = $4, size = $5, material = $6,
			price_modifier = $7, stock_quantity = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.Name, v.SKU, v.Color, v.Size, v.Material, v.PriceModifier, v.StockQuantity, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "ya existe una variante con sku " + v.SKU}
		}
		return fmt.Errorf("update variant: %w", err)
	}
	return nil
}

// DecrementStock resta quantity en una sola sentencia; el stock puede quedar negativo.
func (r *VariantRepo) DecrementStock(ctx context.Context, id string, quantity int) error {
	query := `UPDATE product_variants SET stock_quantity = stock_quantity - $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, quantity); err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return nil
}

// SetStock fija el stock absoluto.
func (r *VariantRepo) SetStock(ctx context.Context, id string, quantity int) error {
	query := `UPDATE product_variants SET stock_quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "variante", ID: id}
	}
	return nil
}

// Delete elimina una variante.
func (r *VariantRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_variants WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	return nil
}

func scanVariant(row pgx.Row) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := row.Scan(
		&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.Color, &v.Size, &v.Material, &v.PriceModifier,
		&v.StockQuantity, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
