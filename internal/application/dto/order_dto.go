package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// flexString acepta un string o un número JSON (ids numéricos de clientes antiguos).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("se esperaba string o número: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// flexInt acepta un entero JSON o un string numérico.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("se esperaba un entero: %q", raw)
	}
	f.Value, f.Set = n, true
	return nil
}

// CreateOrderBody forma laxa del body de POST /orders.
// Acepta variant_id o product_id, unit_price o price, y números como string.
type CreateOrderBody struct {
	Items           []OrderItemBody  `json:"items"`
	ShippingAddress *AddressInput    `json:"shipping_address"`
	BillingAddress  *AddressInput    `json:"billing_address"`
	Total           *decimal.Decimal `json:"total"`
}

// OrderItemBody línea en forma laxa.
type OrderItemBody struct {
	VariantID flexString       `json:"variant_id"`
	ProductID flexString       `json:"product_id"`
	Quantity  flexInt          `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Price     *decimal.Decimal `json:"price"`
}

// ToRequest mapea el body laxo al request tipado. Ambas direcciones son obligatorias.
func (b CreateOrderBody) ToRequest() (CreateOrderRequest, error) {
	var out CreateOrderRequest
	if b.ShippingAddress == nil {
		return out, domain.NewValidationError("shipping_address", "es requerida")
	}
	if b.BillingAddress == nil {
		return out, domain.NewValidationError("billing_address", "es requerida")
	}
	out.ShippingAddress = *b.ShippingAddress
	out.BillingAddress = *b.BillingAddress
	if b.Total == nil {
		return out, domain.NewValidationError("total", "es requerido")
	}
	out.Total = *b.Total

	out.Items = make([]OrderItemInput, 0, len(b.Items))
	for i, it := range b.Items {
		id := string(it.VariantID)
		if id == "" {
			id = string(it.ProductID)
		}
		price := it.UnitPrice
		if price == nil {
			price = it.Price
		}
		if price == nil {
			return out, domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "es requerido")
		}
		if !it.Quantity.Set {
			return out, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "es requerido")
		}
		out.Items = append(out.Items, OrderItemInput{
			VariantID: id,
			Quantity:  it.Quantity.Value,
			UnitPrice: *price,
		})
	}
	return out, nil
}

// CreateOrderRequest request tipado de creación de pedido.
type CreateOrderRequest struct {
	Items           []OrderItemInput
	ShippingAddress AddressInput
	BillingAddress  AddressInput
	Total           decimal.Decimal
}

// OrderItemInput línea tipada.
type OrderItemInput struct {
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Validate chequeos baratos previos a abrir la transacción.
func (r CreateOrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return domain.NewValidationError("items", "el pedido debe tener al menos un ítem")
	}
	for i, it := range r.Items {
		if it.VariantID == "" {
			return domain.NewValidationError(fmt.Sprintf("items[%d].variant_id", i), "es requerido")
		}
		if it.Quantity <= 0 {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		if it.UnitPrice.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "no puede ser negativo")
		}
	}
	if r.Total.IsNegative() {
		return domain.NewValidationError("total", "no puede ser negativo")
	}
	if err := r.ShippingAddress.Validate("shipping_address"); err != nil {
		return err
	}
	return r.BillingAddress.Validate("billing_address")
}

// UpdateOrderStatusRequest cambio de estado (admin).
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse línea con datos de exhibición.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	VariantID   string          `json:"variant_id"`
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	VariantName string          `json:"variant_name,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// LineOutcomeResponse resultado de inventario por línea al crear el pedido.
type LineOutcomeResponse struct {
	VariantID string `json:"variant_id"`
	Outcome   string `json:"outcome"`
}

// OrderResponse pedido compuesto.
type OrderResponse struct {
	ID                string                `json:"id"`
	UserID            string                `json:"user_id"`
	Status            string                `json:"status"`
	Total             decimal.Decimal       `json:"total"`
	TrackingNumber    string                `json:"tracking_number"`
	ShippingAddressID string                `json:"shipping_address_id"`
	BillingAddressID  string                `json:"billing_address_id"`
	ShippingAddress   *AddressView          `json:"shipping_address,omitempty"`
	BillingAddress    *AddressView          `json:"billing_address,omitempty"`
	Items             []OrderItemResponse   `json:"items,omitempty"`
	StockUpdates      []LineOutcomeResponse `json:"stock_updates,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// OrderListResponse listado paginado de pedidos (sin líneas).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// NewOrderSummary construye la respuesta de cabecera.
func NewOrderSummary(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		UserID:            o.UserID,
		Status:            string(o.Status),
		Total:             o.Total,
		TrackingNumber:    o.TrackingNumber,
		ShippingAddressID: o.ShippingAddressID,
		BillingAddressID:  o.BillingAddressID,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// NewOrderResponse construye la respuesta completa desde el pedido compuesto.
func NewOrderResponse(d *entity.OrderDetail) OrderResponse {
	resp := NewOrderSummary(&d.Order)
	shipping := NewAddressView(d.ShippingAddress)
	billing := NewAddressView(d.BillingAddress)
	resp.ShippingAddress = &shipping
	resp.BillingAddress = &billing
	resp.Items = make([]OrderItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          it.ID,
			VariantID:   it.VariantID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			VariantName: it.VariantName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
		})
	}
	return resp
}
