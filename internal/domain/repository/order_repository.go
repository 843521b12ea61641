package repository

import (
	"context"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// OrderFilter filtros del listado administrativo de pedidos.
type OrderFilter struct {
	UserID string
	Status entity.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	TrackingNumberExists(ctx context.Context, trackingNumber string) (bool, error)
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetDetail compone cabecera, direcciones y líneas con datos de producto/variante.
	GetDetail(ctx context.Context, id string) (*entity.OrderDetail, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	// UpdateStatusFrom cambia el estado solo si el actual está en from. false si ninguna fila cumplió.
	UpdateStatusFrom(ctx context.Context, id string, to entity.OrderStatus, from []entity.OrderStatus) (bool, error)
}
