package repository

import (
	"context"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// AddressRepository define el puerto de persistencia para Address.
type AddressRepository interface {
	// FindMatch busca una dirección del usuario con los cinco campos exactamente iguales.
	FindMatch(ctx context.Context, userID string, fields entity.AddressFields) (*entity.Address, error)
	Create(ctx context.Context, address *entity.Address) error
	GetByID(ctx context.Context, id string) (*entity.Address, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Address, error)
	Update(ctx context.Context, address *entity.Address) error
	// ClearRoleFlag apaga el flag del rol en todas las direcciones del usuario.
	ClearRoleFlag(ctx context.Context, userID string, role entity.AddressRole) error
	SetRoleFlag(ctx context.Context, id string, role entity.AddressRole) error
}
