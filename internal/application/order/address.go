package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// ResolveAddressID devuelve el id de una dirección del usuario idéntica a fields o inserta una nueva
// marcada para role. La comparación es exacta: no se normalizan espacios ni mayúsculas.
func ResolveAddressID(
	ctx context.Context,
	repo repository.AddressRepository,
	userID string,
	fields entity.AddressFields,
	role entity.AddressRole,
	now time.Time,
) (string, error) {
	existing, err := repo.FindMatch(ctx, userID, fields)
	if err != nil {
		return "", fmt.Errorf("buscar dirección %s: %w", role, err)
	}
	if existing != nil {
		return existing.ID, nil
	}
	addr := &entity.Address{
		ID:            uuid.New().String(),
		UserID:        userID,
		AddressFields: fields,
		IsBilling:     role == entity.AddressRoleBilling,
		IsShipping:    role == entity.AddressRoleShipping,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repo.Create(ctx, addr); err != nil {
		return "", fmt.Errorf("crear dirección %s: %w", role, err)
	}
	return addr.ID, nil
}
