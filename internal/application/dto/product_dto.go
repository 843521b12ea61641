package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto (admin).
type CreateProductRequest struct {
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	ImageURL    string          `json:"image_url"`
	Active      *bool           `json:"active"`
}

// UpdateProductRequest cambios parciales de producto.
type UpdateProductRequest struct {
	CategoryID  *string          `json:"category_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	ImageURL    *string          `json:"image_url"`
	Active      *bool            `json:"active"`
}

// ProductResponse salida de un producto, con variantes en el detalle.
type ProductResponse struct {
	ID          string            `json:"id"`
	CategoryID  string            `json:"category_id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	BasePrice   decimal.Decimal   `json:"base_price"`
	ImageURL    string            `json:"image_url,omitempty"`
	Active      bool              `json:"active"`
	Variants    []VariantResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// VariantRequest alta o reemplazo de una variante.
type VariantRequest struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	Material      string          `json:"material"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	StockQuantity int             `json:"stock_quantity"`
}

// StockRequest ajuste absoluto de stock (admin).
type StockRequest struct {
	StockQuantity int `json:"stock_quantity"`
}

// VariantResponse salida de una variante. Price = BasePrice + PriceModifier.
type VariantResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Color         string          `json:"color,omitempty"`
	Size          string          `json:"size,omitempty"`
	Material      string          `json:"material,omitempty"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}
