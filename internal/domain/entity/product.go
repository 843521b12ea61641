package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product artículo del catálogo. El precio final de una variante es BasePrice + PriceModifier.
type Product struct {
	ID          string
	CategoryID  string // vacío si no tiene categoría
	Name        string
	Description string
	BasePrice   decimal.Decimal
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductVariant combinación vendible de un producto (color, talla, material) con su propio stock.
// StockQuantity solo se descuenta dentro de la transacción de creación de pedido.
type ProductVariant struct {
	ID            string
	ProductID     string
	Name          string
	SKU           string
	Color         string
	Size          string
	Material      string
	PriceModifier decimal.Decimal
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
