package repository

import (
	"context"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	CategoryID string
	OnlyActive bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}

// VariantRepository define el puerto de persistencia para ProductVariant.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.ProductVariant) error
	GetByID(ctx context.Context, id string) (*entity.ProductVariant, error)
	// GetForUpdate obtiene la variante bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductVariant, error)
	Update(ctx context.Context, variant *entity.ProductVariant) error
	DecrementStock(ctx context.Context, id string, quantity int) error
	SetStock(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
}
