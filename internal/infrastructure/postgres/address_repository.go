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

var _ repository.AddressRepository = (*AddressRepo)(nil)

const addressColumns = `id, user_id, street, city, state, country, postal_code, is_billing, is_shipping, created_at, updated_at`

// AddressRepo implementación de AddressRepository (usable con pool o tx).
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

// FindMatch busca por igualdad exacta de los cinco campos (sin normalizar).
func (r *AddressRepo) FindMatch(ctx context.Context, userID string, f entity.AddressFields) (*entity.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1 AND street = $2 AND city = $3 AND state = $4 AND country = $5 AND postal_code = $6
		ORDER BY created_at
		LIMIT 1`
	a, err := scanAddress(r.q.QueryRow(ctx, query, userID, f.Street, f.City, f.State, f.Country, f.PostalCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find address match: %w", err)
	}
	return a, nil
}

// Create persiste una dirección.
func (r *AddressRepo) Create(ctx context.Context, a *entity.Address) error {
	query := `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.UserID, a.Street, a.City, a.State, a.Country, a.PostalCode,
		a.IsBilling, a.IsShipping, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.NotFoundError{Entity: "usuario", ID: a.UserID}
		}
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

// GetByID obtiene una dirección por ID.
func (r *AddressRepo) GetByID(ctx context.Context, id string) (*entity.Address, error) {
	if !validUUID(id) {
		return nil, nil
	}
	a, err := scanAddress(r.q.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

// ListByUser direcciones del usuario, predeterminadas primero.
func (r *AddressRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses WHERE user_id = $1
		ORDER BY (is_shipping OR is_billing) DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update reemplaza los campos de la dirección.
func (r *AddressRepo) Update(ctx context.Context, a *entity.Address) error {
	query := `
		UPDATE addresses SET street = $2, city = $3, state = $4, country = $5, postal_code = $6,
			is_billing = $7, is_shipping = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Street, a.City, a.State, a.Country, a.PostalCode, a.IsBilling, a.IsShipping, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return nil
}

// ClearRoleFlag apaga el flag del rol en todas las direcciones del usuario.
func (r *AddressRepo) ClearRoleFlag(ctx context.Context, userID string, role entity.AddressRole) error {
	column, err := roleColumn(role)
	if err != nil {
		return err
	}
	query := `UPDATE addresses SET ` + column + ` = FALSE, updated_at = now() WHERE user_id = $1 AND ` + column
	if _, err := r.q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("clear %s flag: %w", role, err)
	}
	return nil
}

// SetRoleFlag enciende el flag del rol en una dirección.
func (r *AddressRepo) SetRoleFlag(ctx context.Context, id string, role entity.AddressRole) error {
	column, err := roleColumn(role)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `UPDATE addresses SET `+column+` = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set %s flag: %w", role, err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "dirección", ID: id}
	}
	return nil
}

// roleColumn mapea el rol a su columna; nunca interpola texto del cliente.
func roleColumn(role entity.AddressRole) (string, error) {
	switch role {
	case entity.AddressRoleBilling:
		return "is_billing", nil
	case entity.AddressRoleShipping:
		return "is_shipping", nil
	default:
		return "", domain.NewValidationError("role", "rol de dirección inválido %q", role)
	}
}

func scanAddress(row pgx.Row) (*entity.Address, error) {
	var a entity.Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.Country, &a.PostalCode,
		&a.IsBilling, &a.IsShipping, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
