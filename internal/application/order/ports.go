package order

import (
	"context"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Si fn retorna error se hace rollback; si no, commit.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		addressRepo repository.AddressRepository,
		orderRepo repository.OrderRepository,
		variantRepo repository.VariantRepository,
	) error) error
}

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *entity.OrderDetail, storeName string) ([]byte, error)
}

// OrderExporter serializa un pedido a XML canónico y devuelve además su digest SHA-256 (hex).
type OrderExporter interface {
	Export(order *entity.OrderDetail) (xmlBytes []byte, digest string, err error)
}
