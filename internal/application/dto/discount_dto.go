package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountRequest alta o actualización de un código de descuento.
type DiscountRequest struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	UsageLimit  int             `json:"usage_limit"`
	StartsAt    *time.Time      `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at"`
	Active      *bool           `json:"active"`
}

// DiscountResponse salida de un descuento.
type DiscountResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	UsageLimit  int             `json:"usage_limit"`
	UsedCount   int             `json:"used_count"`
	StartsAt    *time.Time      `json:"starts_at,omitempty"`
	EndsAt      *time.Time      `json:"ends_at,omitempty"`
	Active      bool            `json:"active"`
}

// DiscountValidationResponse resultado de validar un código contra un subtotal.
type DiscountValidationResponse struct {
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}
