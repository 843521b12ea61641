package repository

import (
	"context"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// DiscountRepository define el puerto de persistencia para Discount.
type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.Discount) error
	GetByID(ctx context.Context, id string) (*entity.Discount, error)
	GetByCode(ctx context.Context, code string) (*entity.Discount, error)
	List(ctx context.Context) ([]*entity.Discount, error)
	Update(ctx context.Context, discount *entity.Discount) error
	Delete(ctx context.Context, id string) error
}
