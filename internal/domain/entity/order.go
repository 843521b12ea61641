package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses enumera los estados en orden de ciclo de vida.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Order cabecera de pedido. Se crea junto con sus líneas; después solo cambia Status.
type Order struct {
	ID                string
	UserID            string
	Total             decimal.Decimal
	Status            OrderStatus
	ShippingAddressID string
	BillingAddressID  string
	TrackingNumber    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem línea de pedido. VariantID no es FK: una variante inexistente se registra igual.
// UnitPrice es el precio capturado al momento del pedido.
type OrderItem struct {
	ID        string
	OrderID   string
	LineNo    int // posición 1..n en el request
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// Subtotal cantidad por precio unitario.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemDetail línea con los datos de exhibición de producto y variante (vacíos si la variante no existe).
type OrderItemDetail struct {
	OrderItem
	ProductID   string
	ProductName string
	VariantName string
	SKU         string
}

// OrderDetail pedido compuesto: cabecera, direcciones y líneas.
type OrderDetail struct {
	Order
	UserEmail       string
	ShippingAddress AddressFields
	BillingAddress  AddressFields
	Items           []OrderItemDetail
}

// ItemsTotal suma de subtotales de las líneas.
func (d *OrderDetail) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
